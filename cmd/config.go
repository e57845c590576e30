package cmd

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/bnema/loanflow/internal/application"
)

const (
	configEnvPrefix = "LF"
	configFileName  = "config.toml"
)

// loadConfig reads ~/.loanflow/config.toml (or $LF_CONFIG) and lets LF_*
// variables override any key, e.g. LF_AUDIT_DIR for audit.dir.
func loadConfig() (*viper.Viper, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("resolve home directory: %w", err)
	}

	dataDir := filepath.Join(homeDir, ".loanflow")
	cfg := viper.New()
	setConfigDefaults(cfg, dataDir)

	cfg.SetEnvPrefix(configEnvPrefix)
	cfg.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	cfg.AutomaticEnv()

	path := envOrDefault("LF_CONFIG", filepath.Join(dataDir, configFileName))
	cfg.SetConfigFile(path)
	cfg.SetConfigType("toml")
	if err := cfg.ReadInConfig(); err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	return cfg, nil
}

func setConfigDefaults(cfg *viper.Viper, dataDir string) {
	cfg.SetDefault("data.dir", dataDir)
	cfg.SetDefault("audit.dir", "")
	cfg.SetDefault("letters.dir", "")
	cfg.SetDefault("credentials.dir", filepath.Join(dataDir, "credentials"))
	cfg.SetDefault("credentials.backend", credentialsBackendFile)
	cfg.SetDefault("credentials.pass_prefix", "loanflow")

	cfg.SetDefault("directory.driver", directoryDriverMemory)
	cfg.SetDefault("directory.dsn", "")
	cfg.SetDefault("directory.url", "")
	cfg.SetDefault("directory.token_ref", "")
	cfg.SetDefault("directory.seed", "")
	cfg.SetDefault("directory.timeout", application.DefaultLookupTimeout)

	cfg.SetDefault("session.max_attempts", application.DefaultMaxAttempts)
	cfg.SetDefault("session.evict_after", time.Hour)
	cfg.SetDefault("session.evict_interval", 5*time.Minute)

	cfg.SetDefault("server.addr", ":8080")

	cfg.SetDefault("log.level", "info")
	cfg.SetDefault("log.format", "text")
}

func newLogger(cfg *viper.Viper, output io.Writer) (*slog.Logger, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(cfg.GetString("log.level"))); err != nil {
		return nil, fmt.Errorf("parse log.level: %w", err)
	}

	opts := &slog.HandlerOptions{Level: level}
	switch format := strings.ToLower(cfg.GetString("log.format")); format {
	case "", "text":
		return slog.New(slog.NewTextHandler(output, opts)), nil
	case "json":
		return slog.New(slog.NewJSONHandler(output, opts)), nil
	default:
		return nil, fmt.Errorf("unsupported log.format %q", format)
	}
}

func envOrDefault(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
