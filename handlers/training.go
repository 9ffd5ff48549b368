// training.go - Handles the trainings collection

package handlers

import "go-training-backend/models"

// trainings exposes the trainings collection. playerId and createdBy are
// stored as given; no user lookup is made.
func (h *Handler) trainings() *collection[models.Training] {
	return &collection[models.Training]{
		singular: "training",
		plural:   "trainings",
		load:     h.DB.LoadTrainings,
		save:     h.DB.SaveTrainings,
		id:       func(t models.Training) string { return t.ID },
		log:      h.Log,
	}
}
