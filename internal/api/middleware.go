package api

import (
	"net/http"
	"strings"

	"github.com/dgrijalva/jwt-go"
	"github.com/gin-gonic/gin"

	"cargoflow/internal/models"
)

const userKey = "user"

// authMiddleware handles JWT authentication. The acting user's role and
// shipping mark come from the verified token, never from request fields.
func (s *Server) authMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := c.GetHeader("Authorization")
		if tokenString == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Authorization header required"})
			c.Abort()
			return
		}
		tokenString = strings.TrimPrefix(tokenString, "Bearer ")

		token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
			return s.jwtSecret, nil
		})
		if err != nil || !token.Valid {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid token"})
			c.Abort()
			return
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid token claims"})
			c.Abort()
			return
		}

		user := &models.User{
			Name:         stringClaim(claims, "name"),
			Role:         stringClaim(claims, "role"),
			ShippingMark: stringClaim(claims, "shipping_mark"),
			Warehouses:   stringClaim(claims, "warehouses"),
		}
		if id, ok := claims["user_id"].(float64); ok {
			user.ID = uint(id)
		}
		if user.Role == "" {
			user.Role = models.RoleCustomer
		}

		c.Set(userKey, user)
		c.Next()
	}
}

// currentUser returns the authenticated user placed by the middleware.
func currentUser(c *gin.Context) *models.User {
	u, _ := c.Get(userKey)
	user, _ := u.(*models.User)
	return user
}

func stringClaim(claims jwt.MapClaims, key string) string {
	if v, ok := claims[key].(string); ok {
		return v
	}
	return ""
}
