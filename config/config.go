// config.go - Handles configuration for the project
//
// Values are resolved in this order (later wins):
// built-in defaults, .env file, environment variables, command-line flags.

package config

import (
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

type Config struct { // Config struct holds all configuration values
	Port int // HTTP listen port

	DataDir   string // Directory holding the primary CSV files
	PublicDir string // Directory holding the public CSV mirrors (also served under /data)

	UsersCSV           string // Primary users CSV file
	UsersPublicCSV     string // Public mirror of the users CSV file, always inside PublicDir
	TrainingsCSV       string // Primary trainings CSV file
	TrainingsPublicCSV string // Public mirror of the trainings CSV file, always inside PublicDir

	FileLocking bool // Guard store access with an OS file lock next to each CSV file

	JWTSecret   string        // Secret key for login tokens
	TokenTTL    time.Duration // Lifetime of login tokens
	EnforceAuth bool          // Require a trainer token on POST routes

	LogLevel string // debug, info, warn, error
	LogJSON  bool   // JSON log lines instead of text

	SeedTrainerEmail    string // Seeds a trainer account when the roster has none
	SeedTrainerPassword string

	APIURL      string // Base URL used by rosterctl
	SessionFile string // Where rosterctl mirrors the signed-in user
}

var defaults = map[string]any{
	"port":                  3001,
	"data_dir":              "data",
	"public_dir":            filepath.Join("public", "data"),
	"users_csv":             "",
	"trainings_csv":         "",
	"file_locking":          true,
	"jwt_secret":            "supersecret",
	"token_ttl":             72 * time.Hour,
	"enforce_auth":          false,
	"log_level":             "info",
	"log_json":              false,
	"seed_trainer_email":    "",
	"seed_trainer_password": "",
	"api_url":               "http://localhost:3001",
	"session_file":          ".rosterctl-session.json",
}

// Load reads the configuration using the process arguments.
func Load() (*Config, error) {
	return LoadFrom(os.Args[1:])
}

// LoadFrom reads the configuration, parsing args as command-line flags.
// A nil args slice skips flag parsing entirely.
func LoadFrom(args []string) (*Config, error) {
	_ = godotenv.Load() // .env is optional

	v := viper.New()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}
	v.AutomaticEnv() // PORT, DATA_DIR, JWT_SECRET, ...

	if args != nil {
		fs := Flags()
		if err := fs.Parse(args); err != nil {
			return nil, err
		}
		if err := bindFlags(v, fs); err != nil {
			return nil, err
		}
	}

	cfg := &Config{
		Port:                v.GetInt("port"),
		DataDir:             v.GetString("data_dir"),
		PublicDir:           v.GetString("public_dir"),
		UsersCSV:            v.GetString("users_csv"),
		TrainingsCSV:        v.GetString("trainings_csv"),
		FileLocking:         v.GetBool("file_locking"),
		JWTSecret:           v.GetString("jwt_secret"),
		TokenTTL:            v.GetDuration("token_ttl"),
		EnforceAuth:         v.GetBool("enforce_auth"),
		LogLevel:            v.GetString("log_level"),
		LogJSON:             v.GetBool("log_json"),
		SeedTrainerEmail:    v.GetString("seed_trainer_email"),
		SeedTrainerPassword: v.GetString("seed_trainer_password"),
		APIURL:              v.GetString("api_url"),
		SessionFile:         v.GetString("session_file"),
	}
	cfg.resolvePaths()
	return cfg, nil
}

// Flags declares the command-line flags understood by the server.
func Flags() *pflag.FlagSet {
	fs := pflag.NewFlagSet("server", pflag.ContinueOnError)
	fs.IntP("port", "p", 3001, "HTTP listen port")
	fs.String("data-dir", "data", "directory holding the primary CSV files")
	fs.String("public-dir", filepath.Join("public", "data"), "directory holding the public CSV mirrors")
	fs.String("log-level", "info", "log level (debug, info, warn, error)")
	fs.Bool("log-json", false, "emit JSON log lines")
	fs.Bool("enforce-auth", false, "require a trainer token on POST routes")
	return fs
}

func bindFlags(v *viper.Viper, fs *pflag.FlagSet) error {
	bindings := map[string]string{
		"port":         "port",
		"data_dir":     "data-dir",
		"public_dir":   "public-dir",
		"log_level":    "log-level",
		"log_json":     "log-json",
		"enforce_auth": "enforce-auth",
	}
	for key, name := range bindings {
		if err := v.BindPFlag(key, fs.Lookup(name)); err != nil {
			return err
		}
	}
	return nil
}

// resolvePaths fills the primary CSV paths that were not set explicitly.
// The mirrors always live in PublicDir, the directory served under /data.
func (c *Config) resolvePaths() {
	if c.UsersCSV == "" {
		c.UsersCSV = filepath.Join(c.DataDir, "users.csv")
	}
	if c.TrainingsCSV == "" {
		c.TrainingsCSV = filepath.Join(c.DataDir, "trainings.csv")
	}
	c.UsersPublicCSV = filepath.Join(c.PublicDir, "users.csv")
	c.TrainingsPublicCSV = filepath.Join(c.PublicDir, "trainings.csv")
}
