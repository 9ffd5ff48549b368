// database.go - Opens the users and trainings CSV stores

package database

import (
	"context"
	"path/filepath"

	"go-training-backend/config"
	"go-training-backend/csvcodec"
	"go-training-backend/logger"
	"go-training-backend/models"
	"go-training-backend/passwordhash"

	"github.com/spf13/afero"
)

// Database groups the two entity stores.
type Database struct {
	Users     *Store
	Trainings *Store
}

// Connect prepares the stores described by cfg on fs, creating the data
// directories and seeding the default trainer when configured.
func Connect(ctx context.Context, cfg *config.Config, fs afero.Fs, log logger.Logger) (*Database, error) {
	for _, path := range []string{cfg.UsersCSV, cfg.UsersPublicCSV, cfg.TrainingsCSV, cfg.TrainingsPublicCSV} {
		if err := fs.MkdirAll(filepath.Dir(path), 0o755); err != nil { // Ensure directories exist
			return nil, err
		}
	}

	lockPath := func(path string) string {
		if !cfg.FileLocking {
			return ""
		}
		return path + ".lock"
	}

	db := &Database{
		Users: NewStore(StoreOptions{
			Name:       "users",
			Path:       cfg.UsersCSV,
			PublicPath: cfg.UsersPublicCSV,
			Columns:    models.UserColumns,
			Normalize:  NormalizeUser,
			Fs:         fs,
			LockPath:   lockPath(cfg.UsersCSV),
			Logger:     log,
		}),
		Trainings: NewStore(StoreOptions{
			Name:       "trainings",
			Path:       cfg.TrainingsCSV,
			PublicPath: cfg.TrainingsPublicCSV,
			Columns:    models.TrainingColumns,
			Normalize:  NormalizeTraining,
			Fs:         fs,
			LockPath:   lockPath(cfg.TrainingsCSV),
			Logger:     log,
		}),
	}

	// Create default trainer if configured and none exists
	if err := db.seedTrainer(ctx, cfg, log); err != nil {
		return nil, err
	}
	return db, nil
}

// NormalizeUser recomputes isTrainer from role and hashes plaintext passwords.
func NormalizeUser(rec csvcodec.Record) (csvcodec.Record, error) {
	u := models.UserFromRecord(rec)
	hashed, err := passwordhash.EnsureHashed(u.Password)
	if err != nil {
		return nil, err
	}
	u.Password = hashed
	return u.Record(), nil
}

// NormalizeTraining restricts a training record to its known columns.
func NormalizeTraining(rec csvcodec.Record) (csvcodec.Record, error) {
	return models.TrainingFromRecord(rec).Record(), nil
}

// LoadUsers returns every user.
func (db *Database) LoadUsers(ctx context.Context) ([]models.User, error) {
	records, err := db.Users.LoadAll(ctx)
	if err != nil {
		return nil, err
	}
	return models.UsersFromRecords(records), nil
}

// SaveUsers replaces the whole users collection.
func (db *Database) SaveUsers(ctx context.Context, users []models.User) error {
	return db.Users.ReplaceAll(ctx, models.UsersToRecords(users))
}

// LoadTrainings returns every training.
func (db *Database) LoadTrainings(ctx context.Context) ([]models.Training, error) {
	records, err := db.Trainings.LoadAll(ctx)
	if err != nil {
		return nil, err
	}
	return models.TrainingsFromRecords(records), nil
}

// SaveTrainings replaces the whole trainings collection.
func (db *Database) SaveTrainings(ctx context.Context, trainings []models.Training) error {
	return db.Trainings.ReplaceAll(ctx, models.TrainingsToRecords(trainings))
}

// seedTrainer appends a trainer account when the roster has none, so a
// fresh install can sign in and build the roster.
func (db *Database) seedTrainer(ctx context.Context, cfg *config.Config, log logger.Logger) error {
	if cfg.SeedTrainerEmail == "" || cfg.SeedTrainerPassword == "" {
		return nil
	}

	users, err := db.LoadUsers(ctx)
	if err != nil {
		return err
	}
	for _, u := range users {
		if u.Role == models.RoleTrainer {
			return nil
		}
	}

	ids := make([]string, 0, len(users))
	for _, u := range users {
		ids = append(ids, u.ID)
	}
	trainer := models.User{
		ID:       models.NextID(ids),
		Name:     "Default",
		Surname:  "Trainer",
		Password: cfg.SeedTrainerPassword, // hashed by NormalizeUser
		Email:    cfg.SeedTrainerEmail,
		Category: "Staff",
		Role:     models.RoleTrainer,
	}
	if err := db.SaveUsers(ctx, append(users, trainer)); err != nil {
		return err
	}
	log.Info("seeded default trainer", "email", trainer.Email, "id", trainer.ID)
	return nil
}
