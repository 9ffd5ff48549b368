// category.go - Defines the Category model read from category.csv

package models

import (
	"strings"

	"go-training-backend/csvcodec"
)

// CategoryColumns is the header of the static category.csv asset.
var CategoryColumns = []string{"id", "name"}

// Category is a selectable user category such as an age group.
type Category struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// CategoriesFromRecords keeps rows that carry both an id and a name.
func CategoriesFromRecords(records []csvcodec.Record) []Category {
	categories := make([]Category, 0, len(records))
	for _, rec := range records {
		id, name := strings.TrimSpace(rec["id"]), strings.TrimSpace(rec["name"])
		if id == "" || name == "" {
			continue
		}
		categories = append(categories, Category{ID: id, Name: name})
	}
	return categories
}
