package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/lshigami/Bilim/internal/apperror"
	"github.com/lshigami/Bilim/internal/dto"
	"github.com/lshigami/Bilim/internal/service"
)

// Context keys set by JWTAuth.
const (
	UserIDKey = "userID"
	RoleKey   = "role"
)

// TokenParser validates a bearer token.
type TokenParser interface {
	ParseToken(token string) (*service.Principal, error)
}

func abort(c *gin.Context, err error) {
	c.AbortWithStatusJSON(apperror.HTTPStatus(err), dto.ErrorResponse{Error: err.Error()})
}

// JWTAuth requires an "Authorization: Bearer <token>" header. A token may
// also be passed as the "token" query parameter, which browsers need for
// WebSocket upgrades.
func JWTAuth(parser TokenParser) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := c.Query("token")
		if header := c.GetHeader("Authorization"); header != "" {
			parts := strings.SplitN(header, " ", 2)
			if len(parts) != 2 || parts[0] != "Bearer" {
				abort(c, apperror.Unauthorized("invalid authorization header format"))
				return
			}
			raw = parts[1]
		}
		if raw == "" {
			abort(c, apperror.Unauthorized("authorization header required"))
			return
		}

		principal, err := parser.ParseToken(raw)
		if err != nil {
			abort(c, err)
			return
		}
		c.Set(UserIDKey, principal.UserID)
		c.Set(RoleKey, principal.Role)
		c.Next()
	}
}

// RequireRole lets through only callers whose role is listed. It must run
// after JWTAuth.
func RequireRole(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		role := c.GetString(RoleKey)
		for _, r := range roles {
			if r == role {
				c.Next()
				return
			}
		}
		abort(c, apperror.Forbidden("role "+role+" may not perform this action"))
	}
}

// UserID returns the id stored by JWTAuth.
func UserID(c *gin.Context) uint {
	return c.GetUint(UserIDKey)
}

// Role returns the role stored by JWTAuth.
func Role(c *gin.Context) string {
	return c.GetString(RoleKey)
}
