package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config carries everything the server needs from the environment. A local
// .env file is honored when present so dev setups don't have to export vars.
type Config struct {
	Addr string

	DBHost     string
	DBName     string
	DBUser     string
	DBPassword string

	// AdminToken both authorizes the stats/export API and is the dashboard
	// login password. SessionSecret signs the admin session cookie and
	// defaults to the token.
	AdminToken    string
	SessionSecret string

	SMTPHost     string
	SMTPPort     int
	SMTPUser     string
	SMTPPassword string
	FromEmail    string
	FromName     string

	Location *time.Location
}

// Load reads the configuration from the environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		slog.Warn("could not load .env file", slog.String("error", err.Error()))
	}

	cfg := &Config{
		Addr:         env("SURVEY_ADDR", ":8080"),
		DBHost:       env("SURVEY_DB_HOST", "localhost:3306"),
		DBName:       env("SURVEY_DB_NAME", "umfrage"),
		DBUser:       env("SURVEY_DB_USER", "umfrage"),
		DBPassword:   os.Getenv("SURVEY_DB_PASSWORD"),
		AdminToken:   os.Getenv("SURVEY_ADMIN_TOKEN"),
		SMTPHost:     os.Getenv("SURVEY_SMTP_HOST"),
		SMTPUser:     os.Getenv("SURVEY_SMTP_USER"),
		SMTPPassword: os.Getenv("SURVEY_SMTP_PASSWORD"),
		FromEmail:    env("SURVEY_FROM_EMAIL", "noreply@volkiswipe.ch"),
		FromName:     env("SURVEY_FROM_NAME", "Volketswil Umfrage"),
	}

	if cfg.AdminToken == "" {
		return nil, errors.New("SURVEY_ADMIN_TOKEN is required")
	}
	cfg.SessionSecret = env("SURVEY_SESSION_SECRET", cfg.AdminToken)

	port := env("SURVEY_SMTP_PORT", "587")
	p, err := strconv.Atoi(port)
	if err != nil {
		return nil, fmt.Errorf("invalid SURVEY_SMTP_PORT %q: %w", port, err)
	}
	cfg.SMTPPort = p

	tz := env("SURVEY_TIMEZONE", "Europe/Zurich")
	loc, err := time.LoadLocation(tz)
	if err != nil {
		return nil, fmt.Errorf("invalid SURVEY_TIMEZONE %q: %w", tz, err)
	}
	cfg.Location = loc

	return cfg, nil
}

// MailEnabled reports whether an outbound SMTP host is configured. Without
// one the summary mail is skipped entirely.
func (c *Config) MailEnabled() bool { return c.SMTPHost != "" }

func env(key, fallback string) string {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	return v
}
