package config

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	// APIBaseURL is the backend root including the /api prefix.
	APIBaseURL string `env:"PORTAL_API_URL, default=http://localhost:5000/api"`
	// StateFile is where the session credential is persisted. Empty means
	// a per-user default under the OS config directory.
	StateFile string `env:"PORTAL_STATE_FILE"`
	LogLevel  string `env:"PORTAL_LOG_LEVEL, default=info"`

	HTTPTimeout time.Duration `env:"PORTAL_HTTP_TIMEOUT, default=30s"`

	// Poll intervals approximate real-time updates over plain request/
	// response; there is no push channel.
	NotificationPoll time.Duration `env:"PORTAL_NOTIFICATION_POLL, default=30s"`
	ChatPoll         time.Duration `env:"PORTAL_CHAT_POLL, default=10s"`
}

// Load reads configuration from environment variables using go-envconfig.
func Load() *Config {
	var cfg Config
	if err := envconfig.Process(context.Background(), &cfg); err != nil {
		panic(fmt.Sprintf("config: failed to load configuration: %v", err))
	}
	if cfg.StateFile == "" {
		cfg.StateFile = defaultStateFile()
	}
	return &cfg
}

func defaultStateFile() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		dir = "."
	}
	return filepath.Join(dir, "citizen-portal", "session.json")
}
