package config

import (
	"errors"
	"os"
	"time"
)

// AppConfig holds the application configuration
type AppConfig struct {
	DBURL        string
	RedisAddress string
	BearerToken  string
	Timezone     string
	Location     *time.Location
	SMTPHost     string
	SMTPPort     string
	SMTPUser     string
	SMTPPass     string
}

// Load reads the configuration from environment variables. SMTP settings are
// optional; everything else is required.
func Load() (*AppConfig, error) {
	dbURL := os.Getenv("DB_URL")
	if dbURL == "" {
		return nil, errors.New("missing DB_URL environment variable")
	}

	redisAddress := os.Getenv("REDIS_URL")
	if redisAddress == "" {
		return nil, errors.New("missing REDIS_URL environment variable")
	}

	bearerToken := os.Getenv("BEARER_TOKEN")
	if bearerToken == "" {
		return nil, errors.New("missing BEARER_TOKEN environment variable")
	}

	tz := os.Getenv("CLINIC_TIMEZONE")
	if tz == "" {
		tz = "America/Sao_Paulo"
	}
	location, err := time.LoadLocation(tz)
	if err != nil {
		return nil, errors.New("invalid CLINIC_TIMEZONE value: " + tz)
	}

	return &AppConfig{
		DBURL:        dbURL,
		RedisAddress: redisAddress,
		BearerToken:  bearerToken,
		Timezone:     tz,
		Location:     location,
		SMTPHost:     os.Getenv("SMTP_HOST"),
		SMTPPort:     os.Getenv("SMTP_PORT"),
		SMTPUser:     os.Getenv("SMTP_USER"),
		SMTPPass:     os.Getenv("SMTP_PASS"),
	}, nil
}

// GetBearerToken returns the BearerToken from the config
func (c *AppConfig) GetBearerToken() string {
	return c.BearerToken
}
