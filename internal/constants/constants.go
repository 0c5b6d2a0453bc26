package constants

const (
	// ContextKeyActor is the gin context key under which the authenticated
	// actor is stored by the auth middleware.
	ContextKeyActor = "actor"

	// MinPasswordLength is the minimum accepted password length.
	MinPasswordLength = 6
)
