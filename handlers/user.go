// user.go - Handles the users collection, login and session lookup

package handlers

import (
	"context"
	"net/http"

	"go-training-backend/middleware"
	"go-training-backend/models"
	"go-training-backend/passwordhash"

	"github.com/gin-gonic/gin"
)

type LoginInput struct { // Struct for login input
	Email    string `json:"email" binding:"required"`    // Email (required)
	Password string `json:"password" binding:"required"` // Password (required)
}

func (h *Handler) users() *collection[models.User] {
	return &collection[models.User]{
		singular: "user",
		plural:   "users",
		load:     h.DB.LoadUsers,
		save:     h.DB.SaveUsers,
		id:       func(u models.User) string { return u.ID },
		log:      h.Log,
	}
}

// findUser looks a user up by id in the users store.
func (h *Handler) findUser(ctx context.Context, id string) (models.User, error) {
	rec, err := h.DB.Users.Get(ctx, id)
	if err != nil {
		return models.User{}, err
	}
	return models.UserFromRecord(rec), nil
}

func (h *Handler) Login(c *gin.Context) { // Handler for user login
	var input LoginInput
	if err := c.ShouldBindJSON(&input); err != nil { // Parse JSON input
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	users, err := h.DB.LoadUsers(c.Request.Context())
	if err != nil {
		h.Log.Error("error loading users for login", "err", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to read users from CSV file"})
		return
	}

	var user *models.User
	for i := range users { // Email match is exact and case-sensitive
		if users[i].Email == input.Email {
			user = &users[i]
			break
		}
	}
	if user == nil || !passwordhash.CheckPasswordHash(input.Password, user.Password) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
		return
	}

	token, err := middleware.IssueToken(h.Cfg.JWTSecret, *user, h.Cfg.TokenTTL)
	if err != nil {
		h.Log.Error("error signing token", "err", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to sign token"})
		return
	}
	user.Password = "" // never echo the hash back
	c.JSON(http.StatusOK, gin.H{"token": token, "user": user})
}

func (h *Handler) Session(c *gin.Context) { // Handler returning the signed-in user's claims
	role := models.Role(c.GetString(middleware.RoleKey))
	c.JSON(http.StatusOK, gin.H{
		"id":        c.GetString(middleware.UserIDKey),
		"email":     c.GetString(middleware.EmailKey),
		"role":      role,
		"isTrainer": models.IsTrainerRole(role),
	})
}

