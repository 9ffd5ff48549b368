// health.go - Health check endpoint

package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Health reports liveness and the CSV paths in use.
func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":                 "OK",
		"message":                "Backend server is running",
		"csvPath":                h.DB.Users.Path(),
		"publicCsvPath":          h.DB.Users.PublicPath(),
		"trainingsCsvPath":       h.DB.Trainings.Path(),
		"trainingsPublicCsvPath": h.DB.Trainings.PublicPath(),
	})
}
