// auth.go - JWT authentication middleware
//
// Record routes are open by default; these middlewares back the session
// endpoint and, when enabled, restrict collection writes to trainers.
//
// Authentication Flow:
// 1. Extract JWT token from Authorization header
// 2. Validate token signature and expiration
// 3. Store user id, email and role claims in the context
//
// Authorization Flow (Trainer):
// 1. Run authentication middleware first
// 2. Look the user up in the users store
// 3. Allow only users whose current role is Trainer

package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"go-training-backend/models"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

// Context keys set by AuthMiddleware.
const (
	UserIDKey = "user_id"
	EmailKey  = "email"
	RoleKey   = "role"
)

// UserLookup finds a user by id.
type UserLookup func(ctx context.Context, id string) (models.User, error)

// IssueToken signs a token carrying the user's id, email and role.
func IssueToken(secret string, user models.User, ttl time.Duration) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		UserIDKey: user.ID,
		EmailKey:  user.Email,
		RoleKey:   string(user.Role),
		"exp":     time.Now().Add(ttl).Unix(),
	})
	return token.SignedString([]byte(secret))
}

// ParseToken validates tokenStr and returns its claims.
func ParseToken(secret, tokenStr string) (jwt.MapClaims, error) {
	token, err := jwt.Parse(tokenStr, func(token *jwt.Token) (interface{}, error) {
		return []byte(secret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return nil, err
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid token claims")
	}
	return claims, nil
}

// AuthMiddleware - Returns a Gin middleware function for JWT authentication
func AuthMiddleware(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		// STEP 1: Extract Authorization header
		header := c.GetHeader("Authorization")
		if header == "" || !strings.HasPrefix(header, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing or invalid token"})
			return
		}

		// STEP 2: Parse JWT token
		claims, err := ParseToken(secret, strings.TrimPrefix(header, "Bearer "))
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}

		// STEP 3: Store claims in context for later use
		for _, key := range []string{UserIDKey, EmailKey, RoleKey} {
			if value, ok := claims[key].(string); ok {
				c.Set(key, value)
			}
		}

		c.Next()
	}
}

// TrainerMiddleware - Returns a Gin middleware function that admits trainers only.
// The role is re-read from the store so a demoted or deleted user loses access
// before their token expires.
func TrainerMiddleware(secret string, lookup UserLookup) gin.HandlerFunc {
	return func(c *gin.Context) {
		// STEP 1: Run the standard authentication middleware first
		AuthMiddleware(secret)(c)
		if c.IsAborted() {
			return // authentication failed
		}

		// STEP 2: Extract user ID from context (set by AuthMiddleware)
		userID := c.GetString(UserIDKey)
		if userID == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "user ID not found in token"})
			return
		}

		// STEP 3: Query the store to get the current role
		user, err := lookup(c.Request.Context(), userID)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "user not found"})
			return
		}

		// STEP 4: Only trainers may continue
		if !models.IsTrainerRole(user.Role) {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "trainer access required"})
			return
		}

		c.Next()
	}
}
