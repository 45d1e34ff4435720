package auth

import (
	"errors"
	"net/http"
	"strings"

	"github.com/fekuna/omnipos-order-service/pkg/httperrors"
	"github.com/fekuna/omnipos-order-service/pkg/logger"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v4"
	"go.uber.org/zap"
)

type Claims struct {
	Username string `json:"username"`
	jwt.RegisteredClaims
}

// Middleware validates the bearer token and stores the acting user in the
// request context. Role and permission evaluation happen upstream at the
// gateway; this service only needs the identity for actor stamps.
func Middleware(secret string, log logger.ZapLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized,
				httperrors.New("Unauthorized", "missing authorization header", nil))
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			c.AbortWithStatusJSON(http.StatusUnauthorized,
				httperrors.New("Unauthorized", "invalid authorization header format", nil))
			return
		}

		claims := &Claims{}
		token, err := jwt.ParseWithClaims(parts[1], claims, func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, errors.New("unexpected signing method")
			}
			return []byte(secret), nil
		})
		if err != nil || !token.Valid {
			log.Warn("invalid token",
				zap.String("path", c.Request.URL.Path),
				zap.Error(err),
			)
			c.AbortWithStatusJSON(http.StatusUnauthorized,
				httperrors.New("Unauthorized", "invalid or expired token", nil))
			return
		}

		ctx := WithUser(c.Request.Context(), claims.Subject, claims.Username)
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}
