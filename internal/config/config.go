package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config keeps runtime settings for the board.
type Config struct {
	// DatabasePath is the SQLite file holding all board data.
	DatabasePath string

	// Optional digest push. When TelegramToken is empty the scheduler never
	// starts and the core runs with no background work at all.
	TelegramToken  string
	DigestChatIDs  []int64
	DigestInterval time.Duration
	DigestAt       string // HH:MM; when set, wins over the interval
}

// Load reads configuration from environment variables with sane defaults.
func Load() (Config, error) {
	cfg := Config{
		DatabasePath:   strings.TrimSpace(os.Getenv("OPSBOARD_DB_PATH")),
		TelegramToken:  strings.TrimSpace(os.Getenv("TELEGRAM_TOKEN")),
		DigestInterval: parseInterval(strings.TrimSpace(os.Getenv("DIGEST_INTERVAL_HOURS"))),
		DigestAt:       strings.TrimSpace(os.Getenv("DIGEST_AT")),
	}

	if cfg.DatabasePath == "" {
		cfg.DatabasePath = "data/opsboard.db"
	}

	if cfg.DigestInterval == 0 {
		cfg.DigestInterval = 24 * time.Hour
	}

	ids, err := parseChatIDs(strings.TrimSpace(os.Getenv("DIGEST_CHAT_IDS")))
	if err != nil {
		return cfg, err
	}
	cfg.DigestChatIDs = ids

	if cfg.TelegramToken != "" && len(cfg.DigestChatIDs) == 0 {
		return cfg, fmt.Errorf("TELEGRAM_TOKEN is set but DIGEST_CHAT_IDS is empty")
	}

	return cfg, nil
}

// DigestEnabled reports whether the periodic digest push is configured.
func (c Config) DigestEnabled() bool {
	return c.TelegramToken != "" && len(c.DigestChatIDs) > 0
}

func parseInterval(raw string) time.Duration {
	if raw == "" {
		return 0
	}
	hours, err := time.ParseDuration(raw + "h")
	if err != nil || hours <= 0 {
		return 0
	}
	return hours
}

func parseChatIDs(raw string) ([]int64, error) {
	if raw == "" {
		return nil, nil
	}
	var ids []int64
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		id, err := strconv.ParseInt(part, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("DIGEST_CHAT_IDS: invalid chat id %q", part)
		}
		ids = append(ids, id)
	}
	return ids, nil
}
