// users.go - Cached users service and login

package client

import (
	"context"
	"fmt"
	"net/http"
	"sync"

	"go-training-backend/csvcodec"
	"go-training-backend/logger"
	"go-training-backend/models"

	"github.com/go-playground/validator/v10"
)

const (
	usersAPIPath   = "/api/users"
	usersCSVPath   = "/data/users.csv"
	loginAPIPath   = "/api/login"
	sessionAPIPath = "/api/session"
)

// UserService caches the users collection. The cache is filled on first use
// and only refreshed after Invalidate.
type UserService struct {
	transport Transport
	log       logger.Logger
	validate  *validator.Validate

	mu     sync.Mutex
	users  []models.User
	loaded bool
}

// NewUserService builds a UserService on top of t.
func NewUserService(t Transport, log logger.Logger) *UserService {
	if log == nil {
		log = logger.Nop()
	}
	return &UserService{transport: t, log: log, validate: newValidator()}
}

// load fills the cache from the API, then the static CSV mirror, then an
// empty collection. The caller holds s.mu.
func (s *UserService) load(ctx context.Context) ([]models.User, error) {
	if s.loaded { // Cache is never refreshed on its own
		return s.users, nil
	}

	// STEP 1: Ask the API
	var users []models.User
	err := s.transport.GetJSON(ctx, usersAPIPath, &users)
	if err == nil {
		s.setCache(users)
		s.log.Debug("loaded users from backend API", "count", len(users))
		return s.users, nil
	}
	s.log.Warn("could not fetch users from backend API, using fallback", "err", err)

	// STEP 2: Fall back to the public CSV mirror
	text, err := s.transport.GetText(ctx, usersCSVPath)
	if err == nil {
		records, decodeErr := csvcodec.Decode(text, models.UserColumns)
		if decodeErr == nil {
			s.setCache(models.UsersFromRecords(records))
			return s.users, nil
		}
		err = decodeErr
	}
	// STEP 3: Start empty, unless the caller gave up
	if ctxErr := ctx.Err(); ctxErr != nil {
		return nil, ctxErr
	}
	s.log.Warn("no users CSV data found, starting with empty user list", "err", err)
	s.setCache(nil)
	return s.users, nil
}

func (s *UserService) setCache(users []models.User) {
	out := make([]models.User, 0, len(users))
	for _, u := range users {
		u.IsTrainer = models.IsTrainerRole(u.Role) // Derived, never trusted
		out = append(out, u)
	}
	s.users = out
	s.loaded = true
}

// submit posts the whole collection and commits it to the cache on success.
func (s *UserService) submit(ctx context.Context, users []models.User) error {
	if err := s.transport.PostJSON(ctx, usersAPIPath, users, nil); err != nil {
		s.log.Error("error saving users to backend", "err", err)
		return fmt.Errorf("save users: %w", err)
	}
	s.setCache(users) // Commit only after the server accepted it
	return nil
}

// Invalidate drops the cache so the next call reloads from the server.
func (s *UserService) Invalidate() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users, s.loaded = nil, false
}

// GetAll returns a copy of every user.
func (s *UserService) GetAll(ctx context.Context) ([]models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	users, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	return append([]models.User(nil), users...), nil
}

// GetByID returns the user with id or ErrNotFound.
func (s *UserService) GetByID(ctx context.Context, id string) (models.User, error) {
	return s.find(ctx, func(u models.User) bool { return u.ID == id })
}

// GetByEmail returns the user whose email matches exactly, or ErrNotFound.
func (s *UserService) GetByEmail(ctx context.Context, email string) (models.User, error) {
	return s.find(ctx, func(u models.User) bool { return u.Email == email })
}

func (s *UserService) find(ctx context.Context, match func(models.User) bool) (models.User, error) {
	users, err := s.GetAll(ctx)
	if err != nil {
		return models.User{}, err
	}
	for _, u := range users {
		if match(u) {
			return u, nil
		}
	}
	return models.User{}, ErrNotFound
}

// GetPlayers returns the users with the Player role, for assigning trainings.
func (s *UserService) GetPlayers(ctx context.Context) ([]models.User, error) {
	users, err := s.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	players := make([]models.User, 0, len(users))
	for _, u := range users {
		if u.Role == models.RolePlayer {
			players = append(players, u)
		}
	}
	return players, nil
}

// Create validates form, allocates the next id and saves the collection.
func (s *UserService) Create(ctx context.Context, form UserForm) (models.User, error) {
	form.normalize()
	if err := validateStruct(s.validate, form); err != nil {
		return models.User{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	users, err := s.load(ctx)
	if err != nil {
		return models.User{}, err
	}

	ids := make([]string, 0, len(users))
	for _, u := range users {
		if u.Email == form.Email { // Exact, case-sensitive match
			return models.User{}, ErrEmailExists
		}
		ids = append(ids, u.ID)
	}

	user := userFromForm(models.NextID(ids), form) // max(id)+1
	updated := append(append(make([]models.User, 0, len(users)+1), users...), user)
	if err := s.submit(ctx, updated); err != nil {
		return models.User{}, err
	}
	return user, nil
}

// Update replaces the editable fields of user id.
func (s *UserService) Update(ctx context.Context, id string, form UserForm) (models.User, error) {
	form.normalize()
	if err := validateStruct(s.validate, form); err != nil {
		return models.User{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	users, err := s.load(ctx)
	if err != nil {
		return models.User{}, err
	}

	index := -1
	for i, u := range users {
		if u.ID == id {
			index = i
		} else if u.Email == form.Email { // Email taken by someone else
			return models.User{}, ErrEmailExists
		}
	}
	if index == -1 {
		return models.User{}, ErrNotFound
	}

	user := userFromForm(id, form)
	updated := append([]models.User(nil), users...)
	updated[index] = user
	if err := s.submit(ctx, updated); err != nil {
		return models.User{}, err
	}
	return user, nil
}

// Delete removes user id. Trainings that reference the user are left alone.
func (s *UserService) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	users, err := s.load(ctx)
	if err != nil {
		return err
	}

	updated := make([]models.User, 0, len(users))
	for _, u := range users {
		if u.ID != id {
			updated = append(updated, u)
		}
	}
	if len(updated) == len(users) { // Nothing was removed
		return ErrNotFound
	}
	return s.submit(ctx, updated)
}

// ClearAll saves an empty users collection.
func (s *UserService) ClearAll(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.submit(ctx, []models.User{})
}

// LoginResult is what the server returns for valid credentials.
type LoginResult struct {
	Token string      `json:"token"`
	User  models.User `json:"user"`
}

// Authenticate checks credentials against the server and returns the user
// together with a signed token.
func (s *UserService) Authenticate(ctx context.Context, email, password string) (LoginResult, error) {
	var result LoginResult
	body := map[string]string{"email": email, "password": password}
	if err := s.transport.PostJSON(ctx, loginAPIPath, body, &result); err != nil {
		if StatusCode(err) == http.StatusUnauthorized { // Wrong email or password
			return LoginResult{}, ErrInvalidCredentials
		}
		return LoginResult{}, fmt.Errorf("login: %w", err)
	}
	result.User.IsTrainer = models.IsTrainerRole(result.User.Role)
	return result, nil
}

func userFromForm(id string, form UserForm) models.User {
	role := models.Role(form.Role)
	return models.User{
		ID:        id,
		Name:      form.Name,
		Password:  form.Password,
		Surname:   form.Surname,
		Email:     form.Email,
		Category:  form.Category,
		Role:      role,
		IsTrainer: models.IsTrainerRole(role),
	}
}
