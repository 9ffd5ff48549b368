// auth_test.go - Tests for trainer-only collection writes

package handlers

import (
	"context"
	"net/http"
	"testing"
	"time"

	"go-training-backend/middleware"
	"go-training-backend/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnforceAuthGuardsWrites(t *testing.T) {
	cfg := testConfig()
	cfg.EnforceAuth = true
	router, db := setupRouter(t, cfg)

	trainer := models.User{ID: "1", Name: "Ann", Email: "a@b.com", Password: "x", Role: models.RoleTrainer}
	player := models.User{ID: "2", Name: "Bob", Email: "b@b.com", Password: "y", Role: models.RolePlayer}
	require.NoError(t, db.SaveUsers(context.Background(), []models.User{trainer, player}))

	trainerToken, err := middleware.IssueToken(cfg.JWTSecret, trainer, time.Hour)
	require.NoError(t, err)
	playerToken, err := middleware.IssueToken(cfg.JWTSecret, player, time.Hour)
	require.NoError(t, err)
	ghostToken, err := middleware.IssueToken(cfg.JWTSecret, models.User{ID: "99", Role: models.RoleTrainer}, time.Hour)
	require.NoError(t, err)
	expiredToken, err := middleware.IssueToken(cfg.JWTSecret, trainer, -time.Hour)
	require.NoError(t, err)

	body := `[{"id":"1","playerId":"2"}]`
	assert.Equal(t, http.StatusUnauthorized, doJSON(router, "POST", "/api/trainings", body, "").Code)
	assert.Equal(t, http.StatusUnauthorized, doJSON(router, "POST", "/api/trainings", body, expiredToken).Code)
	assert.Equal(t, http.StatusUnauthorized, doJSON(router, "POST", "/api/trainings", body, ghostToken).Code)
	assert.Equal(t, http.StatusForbidden, doJSON(router, "POST", "/api/trainings", body, playerToken).Code)
	assert.Equal(t, http.StatusOK, doJSON(router, "POST", "/api/trainings", body, trainerToken).Code)

	// reads stay open
	assert.Equal(t, http.StatusOK, doJSON(router, "GET", "/api/trainings", "", "").Code)
}

func TestWritesOpenByDefault(t *testing.T) {
	router, _ := setupRouter(t, testConfig())
	assert.Equal(t, http.StatusOK, doJSON(router, "POST", "/api/trainings", `[]`, "").Code)
}

func TestCORSPreflight(t *testing.T) {
	router, _ := setupRouter(t, testConfig())

	w := doJSON(router, "OPTIONS", "/api/users", "", "")
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
}
