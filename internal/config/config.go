package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	defaultJWTSecret = "change-me-jwt-secret"
	defaultJWTTTL    = "24h"
	defaultPort      = "8080"
	defaultClientURL = "http://localhost:3000"
	defaultSMTPHost  = "smtp.gmail.com"
	defaultSMTPPort  = "587"
)

type Config struct {
	AppEnv      string
	Port        string
	DatabaseURL string
	JWTSecret   string
	JWTTTL      time.Duration
	ClientURL   string

	SMTPHost string
	SMTPPort int
	SMTPUser string
	SMTPPass string
	SMTPFrom string
}

func (c *Config) IsProduction() bool {
	env := strings.ToLower(c.AppEnv)
	return env == "prod" || env == "production" || env == "release"
}

// SMTPConfigured reports whether outbound email can actually be sent. Without
// credentials the app falls back to the console mailer.
func (c *Config) SMTPConfigured() bool {
	return c.SMTPUser != "" && c.SMTPPass != ""
}

func Load() (*Config, error) {
	cfg := &Config{
		AppEnv:      strings.ToLower(getEnv("APP_ENV", "dev")),
		Port:        getEnv("PORT", defaultPort),
		DatabaseURL: os.Getenv("DATABASE_URL"),
		JWTSecret:   strings.TrimSpace(getEnv("JWT_SECRET", defaultJWTSecret)),
		ClientURL:   strings.TrimRight(getEnv("CLIENT_URL", defaultClientURL), "/"),
		SMTPHost:    getEnv("SMTP_HOST", defaultSMTPHost),
		SMTPUser:    os.Getenv("SMTP_USER"),
		SMTPPass:    os.Getenv("SMTP_PASS"),
		SMTPFrom:    getEnv("SMTP_FROM", os.Getenv("SMTP_USER")),
	}

	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}

	ttlStr := getEnv("JWT_TTL", defaultJWTTTL)
	ttl, err := time.ParseDuration(ttlStr)
	if err != nil || ttl <= 0 {
		return nil, fmt.Errorf("invalid JWT_TTL value %q", ttlStr)
	}
	cfg.JWTTTL = ttl

	portStr := getEnv("SMTP_PORT", defaultSMTPPort)
	port, err := strconv.Atoi(portStr)
	if err != nil || port <= 0 {
		return nil, fmt.Errorf("invalid SMTP_PORT value %q", portStr)
	}
	cfg.SMTPPort = port

	if cfg.IsProduction() {
		if cfg.JWTSecret == "" || cfg.JWTSecret == defaultJWTSecret {
			return nil, fmt.Errorf("in production JWT_SECRET must be set and not default")
		}
	}

	return cfg, nil
}

func getEnv(name, fallback string) string {
	if v := os.Getenv(name); v != "" {
		return v
	}
	return fallback
}
