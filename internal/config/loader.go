package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config captures environment driven configuration values for the
// reservation mirror service.
type Config struct {
	HTTPPort          int
	SQLiteDSN         string
	BaseURL           string
	RulesPath         string
	CredentialsPath   string
	RefreshSchedule   string
	SessionTTL        time.Duration
	AdminPasswordHash string
}

// Load parses configuration values from the current process environment.
//
// The loader applies sensible defaults for optional fields while validating
// the rest and reporting localized error messages for bad entries.
func Load() (Config, error) {
	cfg := Config{
		HTTPPort:        8000,
		SQLiteDSN:       "file:shdocs.db?_foreign_keys=on",
		BaseURL:         "http://localhost:8000",
		CredentialsPath: "credentials.toml",
		RefreshSchedule: "*/10 * * * *",
		SessionTTL:      24 * time.Hour,
	}

	invalid := make([]string, 0, 2)

	if portValue := strings.TrimSpace(os.Getenv("SHDOCS_HTTP_PORT")); portValue != "" {
		port, err := strconv.Atoi(portValue)
		if err != nil || port <= 0 {
			invalid = append(invalid, "SHDOCS_HTTP_PORT")
		} else {
			cfg.HTTPPort = port
		}
	}

	if dsn := strings.TrimSpace(os.Getenv("SHDOCS_SQLITE_DSN")); dsn != "" {
		cfg.SQLiteDSN = dsn
	}

	if base := strings.TrimSpace(os.Getenv("SHDOCS_BASE_URL")); base != "" {
		cfg.BaseURL = strings.TrimRight(base, "/")
	}

	if path := strings.TrimSpace(os.Getenv("SHDOCS_RULES_PATH")); path != "" {
		cfg.RulesPath = path
	}

	if path := strings.TrimSpace(os.Getenv("SHDOCS_CREDENTIALS_PATH")); path != "" {
		cfg.CredentialsPath = path
	}

	if schedule := strings.TrimSpace(os.Getenv("SHDOCS_REFRESH_CRON")); schedule != "" {
		cfg.RefreshSchedule = schedule
	}

	if ttlValue := strings.TrimSpace(os.Getenv("SHDOCS_SESSION_TTL")); ttlValue != "" {
		ttl, err := time.ParseDuration(ttlValue)
		if err != nil || ttl <= 0 {
			invalid = append(invalid, "SHDOCS_SESSION_TTL")
		} else {
			cfg.SessionTTL = ttl
		}
	}

	cfg.AdminPasswordHash = strings.TrimSpace(os.Getenv("SHDOCS_ADMIN_PASSWORD_HASH"))

	if len(invalid) > 0 {
		return Config{}, fmt.Errorf("환경 변수 값이 올바르지 않습니다: %s", strings.Join(invalid, ", "))
	}

	return cfg, nil
}
