// categories.go - Category list from the static CSV asset

package client

import (
	"context"

	"go-training-backend/csvcodec"
	"go-training-backend/logger"
	"go-training-backend/models"
)

const categoriesCSVPath = "/data/category.csv"

// CategoryService reads the static category list. It is not cached.
type CategoryService struct {
	transport Transport
	log       logger.Logger
}

func NewCategoryService(t Transport, log logger.Logger) *CategoryService {
	if log == nil {
		log = logger.Nop()
	}
	return &CategoryService{transport: t, log: log}
}

// GetAll returns the categories, or an empty list when the asset is missing
// or unreadable.
func (s *CategoryService) GetAll(ctx context.Context) []models.Category {
	text, err := s.transport.GetText(ctx, categoriesCSVPath)
	if err != nil {
		s.log.Warn("could not load categories", "err", err)
		return []models.Category{}
	}
	records, err := csvcodec.Decode(text, models.CategoryColumns)
	if err != nil {
		s.log.Warn("could not parse categories", "err", err)
		return []models.Category{}
	}
	return models.CategoriesFromRecords(records)
}
