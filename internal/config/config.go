package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App struct {
		Name     string `envconfig:"APP_NAME" default:"cctvdash"`
		Port     int    `envconfig:"PORT" default:"8080"`
		Env      string `envconfig:"APP_ENV" default:"development"`
		Locale   string `envconfig:"APP_LOCALE" default:"th"`
		Timezone string `envconfig:"APP_TIMEZONE" default:"Asia/Bangkok"`
		LogFile  string `envconfig:"LOG_FILE" default:"cctvdash.log"`
	}

	API struct {
		BaseURL      string        `envconfig:"ANALYTICS_API_URL" default:"http://localhost:8000/api/v1"`
		Key          string        `envconfig:"ANALYTICS_API_KEY"`
		Timeout      time.Duration `envconfig:"ANALYTICS_API_TIMEOUT" default:"15s"`
		PollInterval time.Duration `envconfig:"POLL_INTERVAL" default:"30s"`
		PageSize     int           `envconfig:"EVENTS_PAGE_SIZE" default:"20"`
	}

	// DB is optional: without DB_HOST the branch filter passes queries
	// through unresolved.
	DB struct {
		Host     string `envconfig:"DB_HOST"`
		Port     int    `envconfig:"DB_PORT" default:"5432"`
		User     string `envconfig:"DB_USER" default:"postgres"`
		Password string `envconfig:"DB_PASSWORD" default:""`
		Name     string `envconfig:"DB_NAME" default:"cctvdash"`
	}

	Server struct {
		Timeout        time.Duration `envconfig:"SERVER_TIMEOUT" default:"30s"`
		AllowedOrigins []string      `envconfig:"CORS_ALLOWED_ORIGINS" default:"http://localhost:3000"`
		ExportDir      string        `envconfig:"EXPORT_DIR" default:"exports"`
	}
}

func (c *Config) ConnectionString() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=disable",
		c.DB.User, c.DB.Password, c.DB.Host, c.DB.Port, c.DB.Name)
}

func (c *Config) HasDatabase() bool {
	return c.DB.Host != ""
}

// Location loads the dashboard's time zone.
func (c *Config) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.App.Timezone)
	if err != nil {
		return nil, fmt.Errorf("loading timezone %q: %w", c.App.Timezone, err)
	}

	return loc, nil
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process config: %w", err)
	}

	return &cfg, nil
}
