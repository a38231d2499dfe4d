package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	appErrors "vessel-tracker/pkg/errors"
	"vessel-tracker/pkg/utils"
)

func RoleMiddleware(allowedRoles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		role, exists := c.Get("role")
		if !exists {
			utils.ErrorResponse(c, http.StatusForbidden, "Role not found in context")
			c.Abort()
			return
		}

		userRole := role.(string)

		for _, allowedRole := range allowedRoles {
			if userRole == allowedRole {
				c.Next()
				return
			}
		}

		utils.ErrorResponse(c, http.StatusForbidden, appErrors.ErrInsufficientPermissions.Error())
		c.Abort()
	}
}

func AdminOnly() gin.HandlerFunc {
	return RoleMiddleware("admin")
}

func OperatorOrAdmin() gin.HandlerFunc {
	return RoleMiddleware("operator", "admin")
}
