package middleware

import (
	"github.com/gin-gonic/gin"

	apierrors "github.com/danielmartins/team-tasks-api/internal/errors"
	"github.com/danielmartins/team-tasks-api/internal/models"
)

// RequireAdmin rejects requests whose actor is not an admin. Must run
// after RequireAuth.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		actor, ok := GetActor(c)
		if !ok {
			apierrors.Unauthorized(c, "")
			c.Abort()
			return
		}

		if actor.Role != models.RoleAdmin {
			apierrors.Forbidden(c, "Admin access required")
			c.Abort()
			return
		}

		c.Next()
	}
}
