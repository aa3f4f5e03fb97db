package middleware

import (
	"fmt"
	"net/http"
	"os"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	autherrors "github.com/akashvinod-2003/empmanage/internal/auth/errors"
	"github.com/akashvinod-2003/empmanage/internal/domain"
	"github.com/akashvinod-2003/empmanage/internal/shared/response"
)

const (
	ctxEmployeeID = "employee_id"
	ctxRole       = "role"
)

// AuthMiddleware verifies the bearer token and stores the caller's
// identity and role in the gin context.
func AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		var tokenString string

		authHeader := c.GetHeader("Authorization")
		tokenString, found := strings.CutPrefix(authHeader, "Bearer ")
		if !found {
			tokenString = ""
		}

		if tokenString == "" {
			if cookie, err := c.Cookie("access_token"); err == nil {
				tokenString = cookie
			}
		}

		if tokenString == "" {
			response.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "token not found", nil)
			c.Abort()
			return
		}

		token, err := jwt.Parse(tokenString, func(token *jwt.Token) (any, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method")
			}
			return []byte(os.Getenv("JWT_SECRET")), nil
		})
		if err != nil || !token.Valid {
			errObj := autherrors.ErrInvalidToken
			if err != nil && strings.Contains(err.Error(), "expired") {
				errObj = autherrors.ErrTokenExpired
			}
			response.Error(c, errObj.HTTPStatus, errObj.Code, errObj.Message, nil)
			c.Abort()
			return
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			response.Error(c, http.StatusUnauthorized, "INVALID_TOKEN", "invalid token claims", nil)
			c.Abort()
			return
		}

		employeeID, ok := claims["employee_id"].(string)
		if !ok || employeeID == "" {
			response.Error(c, http.StatusUnauthorized, "INVALID_TOKEN", "employee id not found in token", nil)
			c.Abort()
			return
		}

		role, ok := claims["role"].(string)
		if !ok || !domain.Role(role).Valid() {
			response.Error(c, http.StatusUnauthorized, "INVALID_TOKEN", "role not found in token", nil)
			c.Abort()
			return
		}

		c.Set(ctxEmployeeID, employeeID)
		c.Set(ctxRole, role)

		c.Next()
	}
}

// ActorFromContext rebuilds the caller identity set by AuthMiddleware.
func ActorFromContext(c *gin.Context) (domain.Actor, bool) {
	employeeID := c.GetString(ctxEmployeeID)
	role := domain.Role(c.GetString(ctxRole))
	if employeeID == "" || !role.Valid() {
		return domain.Actor{}, false
	}
	id, err := uuid.Parse(employeeID)
	if err != nil {
		return domain.Actor{}, false
	}
	return domain.Actor{ID: id, Role: role}, true
}
