// handler.go - Shared dependencies and router setup for the HTTP API

package handlers

import (
	"go-training-backend/config"
	"go-training-backend/database"
	"go-training-backend/logger"
	"go-training-backend/middleware"

	"github.com/gin-gonic/gin"
	"github.com/spf13/afero"
)

// Handler carries what every endpoint needs.
type Handler struct {
	DB  *database.Database
	Cfg *config.Config
	Fs  afero.Fs // serves the public CSV mirrors under /data
	Log logger.Logger
}

// New builds a Handler.
func New(db *database.Database, cfg *config.Config, fs afero.Fs, log logger.Logger) *Handler {
	return &Handler{DB: db, Cfg: cfg, Fs: fs, Log: log}
}

// SetupRouter registers every route on a new gin engine.
func SetupRouter(h *Handler) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), middleware.RequestLogger(h.Log), middleware.CORS())

	// Public CSV mirrors, used by clients when the API is unreachable
	r.StaticFS("/data", afero.NewHttpFs(h.Fs).Dir(h.Cfg.PublicDir))

	api := r.Group("/api")
	api.GET("/health", h.Health)
	api.POST("/login", h.Login)
	api.GET("/session", middleware.AuthMiddleware(h.Cfg.JWTSecret), h.Session)

	// Collection writes stay open unless the operator asks for trainer tokens
	var guard []gin.HandlerFunc
	if h.Cfg.EnforceAuth {
		guard = append(guard, middleware.TrainerMiddleware(h.Cfg.JWTSecret, h.findUser))
	}

	users := h.users()
	api.GET("/users", users.list)
	api.GET("/users/:id", users.get)
	api.POST("/users", append(guard, users.replace)...)

	trainings := h.trainings()
	api.GET("/trainings", trainings.list)
	api.GET("/trainings/:id", trainings.get)
	api.POST("/trainings", append(guard, trainings.replace)...)

	return r
}
