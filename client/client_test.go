// client_test.go - Tests for the client services against a live router and a mocked transport

package client

import (
	"context"
	"errors"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"go-training-backend/config"
	"go-training-backend/database"
	"go-training-backend/handlers"
	"go-training-backend/logger"
	"go-training-backend/models"

	"github.com/gin-gonic/gin"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// startServer runs the real router over an in-memory filesystem.
func startServer(t *testing.T) (*APIClient, afero.Fs, *config.Config) {
	t.Helper()
	cfg := &config.Config{
		PublicDir:          filepath.Join("/srv", "public", "data"),
		UsersCSV:           filepath.Join("/srv", "data", "users.csv"),
		UsersPublicCSV:     filepath.Join("/srv", "public", "data", "users.csv"),
		TrainingsCSV:       filepath.Join("/srv", "data", "trainings.csv"),
		TrainingsPublicCSV: filepath.Join("/srv", "public", "data", "trainings.csv"),
		JWTSecret:          "test-secret",
		TokenTTL:           time.Hour,
	}
	fs := afero.NewMemMapFs()
	db, err := database.Connect(context.Background(), cfg, fs, logger.Nop())
	require.NoError(t, err)

	srv := httptest.NewServer(handlers.SetupRouter(handlers.New(db, cfg, fs, logger.Nop())))
	t.Cleanup(srv.Close)
	return NewAPIClient(srv.URL, "", 5*time.Second), fs, cfg
}

func trainerForm() UserForm {
	return UserForm{Name: "Ann", Surname: "Lee", Password: "secret", Email: "ann@club.com", Category: "U10", Role: "Trainer"}
}

func playerForm(email string) UserForm {
	return UserForm{Name: "Bob", Surname: "Ray", Password: "secret", Email: email, Category: "U12", Role: "Player"}
}

func TestUserServiceSequentialIDs(t *testing.T) {
	api, _, _ := startServer(t)
	ctx := context.Background()
	users := NewUserService(api, logger.Nop())

	for i, email := range []string{"a@club.com", "b@club.com", "c@club.com"} {
		u, err := users.Create(ctx, playerForm(email))
		require.NoError(t, err)
		assert.Equal(t, []string{"1", "2", "3"}[i], u.ID)
		assert.False(t, u.IsTrainer)
	}

	// A fresh service sees what the first one saved.
	fresh := NewUserService(api, logger.Nop())
	all, err := fresh.GetAll(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestUserServiceRejectsDuplicateEmail(t *testing.T) {
	api, _, _ := startServer(t)
	ctx := context.Background()
	users := NewUserService(api, logger.Nop())

	_, err := users.Create(ctx, trainerForm())
	require.NoError(t, err)
	_, err = users.Create(ctx, trainerForm())
	assert.ErrorIs(t, err, ErrEmailExists)

	second, err := users.Create(ctx, playerForm("bob@club.com"))
	require.NoError(t, err)
	_, err = users.Update(ctx, second.ID, playerForm("ann@club.com"))
	assert.ErrorIs(t, err, ErrEmailExists)
}

func TestUserServiceValidation(t *testing.T) {
	users := NewUserService(new(mockTransport), logger.Nop())
	cases := map[string]func(*UserForm){
		"short name":   func(f *UserForm) { f.Name = "A" },
		"digits":       func(f *UserForm) { f.Surname = "L33" },
		"bad email":    func(f *UserForm) { f.Email = "nope" },
		"bad category": func(f *UserForm) { f.Category = "U-10" },
		"short pass":   func(f *UserForm) { f.Password = "ab" },
		"long pass":    func(f *UserForm) { f.Password = strings.Repeat("a", 73) },
		"wide pass":    func(f *UserForm) { f.Password = strings.Repeat("é", 40) },
		"bad role":     func(f *UserForm) { f.Role = "Coach" },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			form := trainerForm()
			mutate(&form)
			_, err := users.Create(context.Background(), form)
			assert.ErrorIs(t, err, ErrInvalidForm)
		})
	}
}

func TestUserServiceAcceptsLongestHashablePassword(t *testing.T) {
	api, _, _ := startServer(t)
	ctx := context.Background()
	users := NewUserService(api, logger.Nop())

	form := trainerForm()
	form.Password = strings.Repeat("a", 72)
	_, err := users.Create(ctx, form)
	require.NoError(t, err)

	res, err := users.Authenticate(ctx, form.Email, form.Password)
	require.NoError(t, err)
	assert.NotEmpty(t, res.Token)

	form.Password = strings.Repeat("a", 80)
	_, err = users.Update(ctx, res.User.ID, form)
	assert.ErrorIs(t, err, ErrInvalidForm)
}

func TestUserServiceUpdateAndDelete(t *testing.T) {
	api, _, _ := startServer(t)
	ctx := context.Background()
	users := NewUserService(api, logger.Nop())

	ann, err := users.Create(ctx, trainerForm())
	require.NoError(t, err)
	bob, err := users.Create(ctx, playerForm("bob@club.com"))
	require.NoError(t, err)

	form := playerForm("bob@club.com")
	form.Role = "Trainer"
	updated, err := users.Update(ctx, bob.ID, form)
	require.NoError(t, err)
	assert.True(t, updated.IsTrainer)

	_, err = users.Update(ctx, "99", form)
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, users.Delete(ctx, ann.ID))
	assert.ErrorIs(t, users.Delete(ctx, ann.ID), ErrNotFound)

	users.Invalidate()
	all, err := users.GetAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, bob.ID, all[0].ID)
	assert.True(t, all[0].IsTrainer)

	// Ids are never reused after a delete.
	next, err := users.Create(ctx, playerForm("cy@club.com"))
	require.NoError(t, err)
	assert.Equal(t, "3", next.ID)

	require.NoError(t, users.ClearAll(ctx))
	all, err = users.GetAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestAuthenticateAndSession(t *testing.T) {
	api, _, _ := startServer(t)
	ctx := context.Background()
	users := NewUserService(api, logger.Nop())
	_, err := users.Create(ctx, trainerForm())
	require.NoError(t, err)

	_, err = users.Authenticate(ctx, "ann@club.com", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	res, err := users.Authenticate(ctx, "ann@club.com", "secret")
	require.NoError(t, err)
	assert.NotEmpty(t, res.Token)
	assert.True(t, res.User.IsTrainer)

	storage := NewFileSessionStorage(afero.NewMemMapFs(), "/home/session.json")
	session := NewSession(storage)
	require.NoError(t, session.Login(res.User, res.Token))
	assert.True(t, session.IsTrainer())

	restored := NewSession(storage)
	require.NoError(t, restored.Restore())
	u, ok := restored.User()
	require.True(t, ok)
	assert.Equal(t, "ann@club.com", u.Email)
	assert.Empty(t, u.Password)
	assert.Equal(t, res.Token, restored.Token())

	require.NoError(t, restored.Logout())
	assert.False(t, restored.IsAuthenticated())
	require.NoError(t, NewSession(storage).Restore())
}

func TestSessionRestoreClearsCorruptData(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/s.json", []byte("{not json"), 0o600))

	session := NewSession(NewFileSessionStorage(fs, "/s.json"))
	require.NoError(t, session.Restore())
	assert.False(t, session.IsAuthenticated())

	exists, err := afero.Exists(fs, "/s.json")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestTrainingServiceLifecycle(t *testing.T) {
	api, _, _ := startServer(t)
	ctx := context.Background()
	users := NewUserService(api, logger.Nop())
	trainings := NewTrainingService(api, logger.Nop())
	trainings.now = func() time.Time { return time.Date(2024, 3, 1, 9, 30, 0, 0, time.UTC) }

	ann, err := users.Create(ctx, trainerForm())
	require.NoError(t, err)
	bob, err := users.Create(ctx, playerForm("bob@club.com"))
	require.NoError(t, err)

	_, err = trainings.Create(ctx, TrainingForm{PlayerID: bob.ID, TrainingDay: "2024-03-05T10:00"}, bob, bob.PlayerName())
	assert.ErrorIs(t, err, ErrForbidden)
	_, err = trainings.Create(ctx, TrainingForm{PlayerID: bob.ID, TrainingDay: "tomorrow"}, ann, bob.PlayerName())
	assert.ErrorIs(t, err, ErrInvalidForm)

	later, err := trainings.Create(ctx, TrainingForm{PlayerID: bob.ID, TrainingDay: "2024-03-09T10:00"}, ann, bob.PlayerName())
	require.NoError(t, err)
	assert.Equal(t, "1", later.ID)
	assert.Equal(t, "Bob - Ray", later.PlayerName)
	assert.Equal(t, ann.ID, later.CreatedBy)
	assert.Equal(t, "2024-03-01T09:30:00.000Z", later.CreatedAt)

	sooner, err := trainings.Create(ctx, TrainingForm{PlayerID: bob.ID, TrainingDay: "2024-03-05T10:00"}, ann, bob.PlayerName())
	require.NoError(t, err)
	assert.Equal(t, "2", sooner.ID)

	mine, err := trainings.GetUserTrainings(ctx, bob.ID)
	require.NoError(t, err)
	require.Len(t, mine, 2)
	assert.Equal(t, sooner.ID, mine[0].ID)

	moved, err := trainings.Update(ctx, later.ID, TrainingForm{PlayerID: ann.ID, TrainingDay: "2024-03-10T10:00"}, ann.PlayerName())
	require.NoError(t, err)
	assert.Equal(t, later.CreatedAt, moved.CreatedAt)
	assert.Equal(t, "Ann - Lee", moved.PlayerName)

	// Deleting the player leaves the training referencing a missing user.
	require.NoError(t, users.Delete(ctx, bob.ID))
	trainings.Invalidate()
	got, err := trainings.GetByID(ctx, sooner.ID)
	require.NoError(t, err)
	assert.Equal(t, bob.ID, got.PlayerID)

	require.NoError(t, trainings.Delete(ctx, sooner.ID))
	all, err := trainings.GetAll(ctx)
	require.NoError(t, err)
	assert.Len(t, GroupByPlayer(all), 1)
	assert.ErrorIs(t, trainings.Delete(ctx, sooner.ID), ErrNotFound)
}

func TestCategoriesFromStaticAsset(t *testing.T) {
	api, fs, cfg := startServer(t)
	categories := NewCategoryService(api, logger.Nop())
	assert.Empty(t, categories.GetAll(context.Background()))

	path := filepath.Join(cfg.PublicDir, "category.csv")
	require.NoError(t, afero.WriteFile(fs, path, []byte("id,name\n1,U10\n2,U12\n3,\n"), 0o644))
	got := categories.GetAll(context.Background())
	assert.Equal(t, []models.Category{{ID: "1", Name: "U10"}, {ID: "2", Name: "U12"}}, got)
}

type mockTransport struct {
	mock.Mock
}

func (m *mockTransport) GetJSON(ctx context.Context, path string, out any) error {
	return m.Called(ctx, path, out).Error(0)
}

func (m *mockTransport) PostJSON(ctx context.Context, path string, body, out any) error {
	return m.Called(ctx, path, body, out).Error(0)
}

func (m *mockTransport) GetText(ctx context.Context, path string) (string, error) {
	args := m.Called(ctx, path)
	return args.String(0), args.Error(1)
}

func TestUserServiceFallsBackToStaticCSV(t *testing.T) {
	tr := new(mockTransport)
	tr.On("GetJSON", mock.Anything, usersAPIPath, mock.Anything).Return(errors.New("connection refused")).Once()
	tr.On("GetText", mock.Anything, usersCSVPath).
		Return("id,name,password,surname,email,category,role,isTrainer\n4,Ann,x,Lee,ann@club.com,U10,Trainer,false\n", nil).Once()

	users := NewUserService(tr, logger.Nop())
	all, err := users.GetAll(context.Background())
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.True(t, all[0].IsTrainer)

	// Cached: no further transport calls.
	_, err = users.GetByEmail(context.Background(), "ann@club.com")
	require.NoError(t, err)
	_, err = users.GetByID(context.Background(), "5")
	assert.ErrorIs(t, err, ErrNotFound)
	tr.AssertExpectations(t)
}

func TestServicesStartEmptyWhenNothingLoads(t *testing.T) {
	tr := new(mockTransport)
	tr.On("GetJSON", mock.Anything, trainingsAPIPath, mock.Anything).Return(errors.New("down"))
	tr.On("GetText", mock.Anything, trainingsCSVPath).Return("", &HTTPError{Status: 404})
	tr.On("PostJSON", mock.Anything, trainingsAPIPath, mock.Anything, mock.Anything).Return(&HTTPError{Status: 500, Message: "Failed to save trainings to CSV file"})

	trainings := NewTrainingService(tr, logger.Nop())
	all, err := trainings.GetAll(context.Background())
	require.NoError(t, err)
	assert.Empty(t, all)

	trainer := models.User{ID: "1", Role: models.RoleTrainer}
	_, err = trainings.Create(context.Background(), TrainingForm{PlayerID: "2", TrainingDay: "2024-03-05T10:00"}, trainer, "Bob - Ray")
	require.Error(t, err)
	assert.Equal(t, 500, StatusCode(err))

	// A failed submit leaves the cache untouched.
	all, err = trainings.GetAll(context.Background())
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestLoadHonoursCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	tr := new(mockTransport)
	tr.On("GetJSON", mock.Anything, usersAPIPath, mock.Anything).Return(context.Canceled)
	tr.On("GetText", mock.Anything, usersCSVPath).Return("", context.Canceled)

	_, err := NewUserService(tr, logger.Nop()).GetAll(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}
