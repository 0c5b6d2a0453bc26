package middleware

import (
	"errors"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/danielmartins/team-tasks-api/internal/auth"
	"github.com/danielmartins/team-tasks-api/internal/constants"
	apierrors "github.com/danielmartins/team-tasks-api/internal/errors"
	"github.com/danielmartins/team-tasks-api/internal/policy"
)

// RequireAuth checks for a valid bearer token and stores the authenticated
// actor in the request context
func RequireAuth(tokens *auth.JWTManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			apierrors.Unauthorized(c, "")
			c.Abort()
			return
		}

		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || token == "" {
			apierrors.Unauthorized(c, "Authorization header must use the Bearer scheme")
			c.Abort()
			return
		}

		claims, err := tokens.Verify(token)
		if err != nil {
			switch {
			case errors.Is(err, auth.ErrTokenExpired):
				apierrors.Unauthorized(c, "Token has expired")
			default:
				apierrors.Unauthorized(c, "Invalid token")
			}
			c.Abort()
			return
		}

		c.Set(constants.ContextKeyActor, policy.Actor{
			ID:   claims.UserID,
			Role: claims.Role,
		})
		c.Next()
	}
}

// GetActor retrieves the authenticated actor from context
func GetActor(c *gin.Context) (policy.Actor, bool) {
	value, exists := c.Get(constants.ContextKeyActor)
	if !exists {
		return policy.Actor{}, false
	}
	actor, ok := value.(policy.Actor)
	return actor, ok
}
