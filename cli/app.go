// app.go - Shared state for rosterctl commands

// Package cli implements rosterctl, a command line front end over the client
// service layer.
package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"go-training-backend/client"
	"go-training-backend/config"
	"go-training-backend/logger"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/afero"
)

const requestTimeout = 10 * time.Second

var (
	headingStyle = lipgloss.NewStyle().Bold(true)
	mutedStyle   = lipgloss.NewStyle().Faint(true)
)

// Options configures the root command. Zero values fall back to the process
// environment, the OS filesystem and stdout.
type Options struct {
	Cfg *config.Config
	Fs  afero.Fs
	Out io.Writer
	Log logger.Logger
}

// App is what every subcommand works with.
type App struct {
	Cfg        *config.Config
	API        *client.APIClient
	Session    *client.Session
	Users      *client.UserService
	Trainings  *client.TrainingService
	Categories *client.CategoryService
	Out        io.Writer
}

func newApp(opts Options, apiURL string) (*App, error) {
	cfg := opts.Cfg
	if cfg == nil {
		loaded, err := config.LoadFrom(nil)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}
	if apiURL != "" { // --api-url wins over API_URL
		cfg.APIURL = apiURL
	}
	if opts.Fs == nil {
		opts.Fs = afero.NewOsFs()
	}
	if opts.Out == nil {
		opts.Out = os.Stdout
	}
	if opts.Log == nil {
		opts.Log = logger.New(&logger.Config{Level: "error", Output: os.Stderr})
	}

	session := client.NewSession(client.NewFileSessionStorage(opts.Fs, cfg.SessionFile))
	if err := session.Restore(); err != nil { // Pick up the last login
		return nil, err
	}
	api := client.NewAPIClient(cfg.APIURL, "", requestTimeout)
	api.SetToken(session.Token()) // Empty when signed out

	return &App{
		Cfg:        cfg,
		API:        api,
		Session:    session,
		Users:      client.NewUserService(api, opts.Log),
		Trainings:  client.NewTrainingService(api, opts.Log),
		Categories: client.NewCategoryService(api, opts.Log),
		Out:        opts.Out,
	}, nil
}

var (
	errSignedOut = errors.New("not signed in, run rosterctl login first")
	errNotPlayer = errors.New("trainings can only be assigned to players")
)

// requireTrainer fails unless a trainer is signed in.
func (a *App) requireTrainer() error {
	if !a.Session.IsAuthenticated() {
		return errSignedOut
	}
	if !a.Session.IsTrainer() {
		return client.ErrForbidden
	}
	return nil
}

func (a *App) printf(format string, args ...any) {
	fmt.Fprintf(a.Out, format, args...)
}
