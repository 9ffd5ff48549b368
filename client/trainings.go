// trainings.go - Cached trainings service

package client

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"go-training-backend/csvcodec"
	"go-training-backend/logger"
	"go-training-backend/models"

	"github.com/go-playground/validator/v10"
)

const (
	trainingsAPIPath = "/api/trainings"
	trainingsCSVPath = "/data/trainings.csv"

	// createdAtLayout matches JavaScript's Date.toISOString.
	createdAtLayout = "2006-01-02T15:04:05.000Z"
)

// TrainingService caches the trainings collection the same way UserService
// caches users.
type TrainingService struct {
	transport Transport
	log       logger.Logger
	validate  *validator.Validate
	now       func() time.Time

	mu        sync.Mutex
	trainings []models.Training
	loaded    bool
}

func NewTrainingService(t Transport, log logger.Logger) *TrainingService {
	if log == nil {
		log = logger.Nop()
	}
	return &TrainingService{transport: t, log: log, validate: newValidator(), now: time.Now}
}

func (s *TrainingService) load(ctx context.Context) ([]models.Training, error) {
	if s.loaded { // Cache is never refreshed on its own
		return s.trainings, nil
	}

	// STEP 1: Ask the API
	var trainings []models.Training
	err := s.transport.GetJSON(ctx, trainingsAPIPath, &trainings)
	if err == nil {
		s.setCache(trainings)
		s.log.Debug("loaded trainings from backend API", "count", len(trainings))
		return s.trainings, nil
	}
	s.log.Warn("could not fetch trainings from backend API, using fallback", "err", err)

	// STEP 2: Fall back to the public CSV mirror
	text, err := s.transport.GetText(ctx, trainingsCSVPath)
	if err == nil {
		records, decodeErr := csvcodec.Decode(text, models.TrainingColumns)
		if decodeErr == nil {
			s.setCache(models.TrainingsFromRecords(records))
			return s.trainings, nil
		}
		err = decodeErr
	}
	// STEP 3: Start empty, unless the caller gave up
	if ctxErr := ctx.Err(); ctxErr != nil {
		return nil, ctxErr
	}
	s.log.Warn("no trainings CSV data found, starting with empty list", "err", err)
	s.setCache(nil)
	return s.trainings, nil
}

func (s *TrainingService) setCache(trainings []models.Training) {
	s.trainings = append(make([]models.Training, 0, len(trainings)), trainings...)
	s.loaded = true
}

func (s *TrainingService) submit(ctx context.Context, trainings []models.Training) error {
	if err := s.transport.PostJSON(ctx, trainingsAPIPath, trainings, nil); err != nil {
		s.log.Error("error saving trainings to backend", "err", err)
		return fmt.Errorf("save trainings: %w", err)
	}
	s.setCache(trainings) // Commit only after the server accepted it
	return nil
}

// Invalidate drops the cache so the next call reloads from the server.
func (s *TrainingService) Invalidate() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.trainings, s.loaded = nil, false
}

// GetAll returns a copy of every training.
func (s *TrainingService) GetAll(ctx context.Context) ([]models.Training, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	trainings, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	return append([]models.Training(nil), trainings...), nil
}

// GetByID returns training id or ErrNotFound.
func (s *TrainingService) GetByID(ctx context.Context, id string) (models.Training, error) {
	trainings, err := s.GetAll(ctx)
	if err != nil {
		return models.Training{}, err
	}
	for _, t := range trainings {
		if t.ID == id {
			return t, nil
		}
	}
	return models.Training{}, ErrNotFound
}

// GetUserTrainings returns the trainings assigned to playerID, soonest first.
func (s *TrainingService) GetUserTrainings(ctx context.Context, playerID string) ([]models.Training, error) {
	trainings, err := s.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	mine := make([]models.Training, 0)
	for _, t := range trainings {
		if t.PlayerID == playerID {
			mine = append(mine, t)
		}
	}
	sort.SliceStable(mine, func(i, j int) bool {
		return trainingTime(mine[i]).Before(trainingTime(mine[j]))
	})
	return mine, nil
}

// GroupByPlayer buckets trainings by player id.
func GroupByPlayer(trainings []models.Training) map[string][]models.Training {
	groups := make(map[string][]models.Training)
	for _, t := range trainings {
		groups[t.PlayerID] = append(groups[t.PlayerID], t)
	}
	return groups
}

// Create assigns a training to form.PlayerID on behalf of trainer.
// playerName is stored as a snapshot and is not updated later.
func (s *TrainingService) Create(ctx context.Context, form TrainingForm, trainer models.User, playerName string) (models.Training, error) {
	if !models.IsTrainerRole(trainer.Role) { // Only trainers assign sessions
		return models.Training{}, ErrForbidden
	}
	if err := validateStruct(s.validate, form); err != nil {
		return models.Training{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	trainings, err := s.load(ctx)
	if err != nil {
		return models.Training{}, err
	}

	ids := make([]string, 0, len(trainings))
	for _, t := range trainings {
		ids = append(ids, t.ID)
	}
	training := models.Training{
		ID:          models.NextID(ids),
		PlayerID:    form.PlayerID,
		// Snapshot; later user edits do not touch it
		PlayerName:  playerName,
		TrainingDay: form.TrainingDay,
		CreatedBy:   trainer.ID,
		CreatedAt:   s.now().UTC().Format(createdAtLayout),
	}
	updated := append(append(make([]models.Training, 0, len(trainings)+1), trainings...), training)
	if err := s.submit(ctx, updated); err != nil {
		return models.Training{}, err
	}
	return training, nil
}

// Update reassigns training id. CreatedBy and CreatedAt are kept.
func (s *TrainingService) Update(ctx context.Context, id string, form TrainingForm, playerName string) (models.Training, error) {
	if err := validateStruct(s.validate, form); err != nil {
		return models.Training{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	trainings, err := s.load(ctx)
	if err != nil {
		return models.Training{}, err
	}

	for i, t := range trainings {
		if t.ID != id { // Not the one being edited
			continue
		}
		t.PlayerID = form.PlayerID
		t.PlayerName = playerName
		t.TrainingDay = form.TrainingDay
		updated := append([]models.Training(nil), trainings...)
		updated[i] = t
		if err := s.submit(ctx, updated); err != nil {
			return models.Training{}, err
		}
		return t, nil
	}
	return models.Training{}, ErrNotFound
}

// Delete removes training id.
func (s *TrainingService) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	trainings, err := s.load(ctx)
	if err != nil {
		return err
	}

	updated := make([]models.Training, 0, len(trainings))
	for _, t := range trainings {
		if t.ID != id {
			updated = append(updated, t)
		}
	}
	if len(updated) == len(trainings) {
		return ErrNotFound
	}
	return s.submit(ctx, updated)
}

// ClearAll saves an empty trainings collection.
func (s *TrainingService) ClearAll(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.submit(ctx, []models.Training{})
}

// trainingTime orders unparseable days last.
func trainingTime(t models.Training) time.Time {
	if ts, ok := parseTrainingDay(t.TrainingDay); ok {
		return ts
	}
	return time.Date(9999, 1, 1, 0, 0, 0, 0, time.UTC)
}
