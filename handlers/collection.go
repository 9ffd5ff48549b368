// collection.go - Generic list/get/replace handlers for one CSV collection

package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"go-training-backend/database"
	"go-training-backend/logger"

	"github.com/gin-gonic/gin"
	"github.com/tidwall/gjson"
)

// collection serves GET list, GET by id and POST replace-all for one entity.
// Every request goes back to the store; nothing is cached between requests.
type collection[T any] struct {
	singular string // "user"
	plural   string // "users"
	load     func(ctx context.Context) ([]T, error)
	save     func(ctx context.Context, items []T) error
	id       func(item T) string
	log      logger.Logger
}

func (col *collection[T]) list(c *gin.Context) {
	items, err := col.load(c.Request.Context())
	if err != nil {
		col.log.Error("error getting "+col.plural, "err", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": fmt.Sprintf("Failed to read %s from CSV file", col.plural)})
		return
	}
	c.JSON(http.StatusOK, items)
}

func (col *collection[T]) get(c *gin.Context) {
	items, err := col.load(c.Request.Context())
	if err != nil {
		col.log.Error("error getting "+col.singular, "id", c.Param("id"), "err", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get " + col.singular})
		return
	}
	for _, item := range items {
		if col.id(item) == c.Param("id") {
			c.JSON(http.StatusOK, item)
			return
		}
	}
	c.JSON(http.StatusNotFound, gin.H{"error": fmt.Sprintf("%s not found", capitalize(col.singular))})
}

func (col *collection[T]) replace(c *gin.Context) {
	// The body must be a JSON array; objects, scalars and null are rejected
	raw, err := c.GetRawData()
	if err != nil || !gjson.ValidBytes(raw) || !gjson.ParseBytes(raw).IsArray() {
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("Request body must be an array of %s", col.plural)})
		return
	}
	var items []T
	if err := json.Unmarshal(raw, &items); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := col.save(c.Request.Context(), items); err != nil {
		if errors.Is(err, database.ErrNormalize) { // Rejected input, e.g. an unhashable password
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		col.log.Error("error saving "+col.plural, "err", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": fmt.Sprintf("Failed to save %s to CSV file", col.plural)})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": fmt.Sprintf("Successfully saved %d %s to CSV file", len(items), col.plural)})
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
