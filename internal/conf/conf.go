package conf

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/rovi1013/coap-telegram-gateway/internal/biz/domain"
	"github.com/rovi1013/coap-telegram-gateway/internal/infra/telegram"
)

// Config represents application configuration
type Config struct {
	// Telegram configuration
	Telegram TelegramConfig

	// CoAP front configuration
	CoAP CoAPConfig

	// HTTP front configuration
	HTTP HTTPConfig

	// Engine configuration
	Engine EngineConfig

	// Archive configuration
	Archive ArchiveConfig
}

// TelegramConfig contains Bot API configuration
type TelegramConfig struct {
	APIURL   string
	BotToken string

	// SeedRoster is the initial subscriber roster, parsed from
	// "Name:id,Name:id,..." (a bare id gets an empty name)
	SeedRoster []domain.Subscriber
}

// CoAPConfig contains the CoAP listener configuration
type CoAPConfig struct {
	ListenAddr string
}

// HTTPConfig contains the HTTP listener configuration
type HTTPConfig struct {
	ListenAddr string
}

// EngineConfig contains reconciliation engine configuration
type EngineConfig struct {
	Password        string
	FetchTimeout    time.Duration
	DefaultInterval int
	DefaultFeedback bool
}

// ArchiveConfig contains the update archive configuration
type ArchiveConfig struct {
	DBPath string
}

// LoadFromEnv loads configuration from environment variables
func LoadFromEnv() *Config {
	archiveDBPath := os.Getenv("ARCHIVE_DB_PATH")
	if archiveDBPath == "" {
		homeDir, _ := os.UserHomeDir()
		archiveDBPath = filepath.Join(homeDir, ".coap-telegram-gateway", "archive.db")
	}

	return &Config{
		Telegram: TelegramConfig{
			APIURL:     getEnv("TELEGRAM_API_URL", telegram.DefaultAPIURL),
			BotToken:   os.Getenv("TELEGRAM_BOT_TOKEN"),
			SeedRoster: ParseRoster(os.Getenv("TELEGRAM_CHAT_IDS")),
		},
		CoAP: CoAPConfig{
			ListenAddr: getEnv("COAP_LISTEN_ADDR", ":5683"),
		},
		HTTP: HTTPConfig{
			ListenAddr: getEnv("HTTP_LISTEN_ADDR", ":8000"),
		},
		Engine: EngineConfig{
			Password:        getEnv("CONFIG_PASSWORD", "password123"),
			FetchTimeout:    time.Duration(getEnvInt("FETCH_TIMEOUT_SECONDS", 10)) * time.Second,
			DefaultInterval: getEnvInt("NOTIFICATION_INTERVAL", 5),
			DefaultFeedback: getEnvInt("LED_FEEDBACK", 0) == 1,
		},
		Archive: ArchiveConfig{
			DBPath: archiveDBPath,
		},
	}
}

// Validate checks the configuration
func (c *Config) Validate() error {
	if c.Telegram.BotToken == "" {
		return fmt.Errorf("TELEGRAM_BOT_TOKEN is required")
	}
	if c.Engine.Password == "" {
		return fmt.Errorf("CONFIG_PASSWORD must not be empty")
	}
	if c.Engine.DefaultInterval < domain.MinInterval || c.Engine.DefaultInterval > domain.MaxInterval {
		return fmt.Errorf("NOTIFICATION_INTERVAL must be in [%d,%d]", domain.MinInterval, domain.MaxInterval)
	}
	return nil
}

// ParseRoster parses the "Name:id,Name:id,..." roster format.
// Entries without a colon are treated as a bare chat id.
func ParseRoster(raw string) []domain.Subscriber {
	var subs []domain.Subscriber
	for _, entry := range strings.Split(raw, ",") {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}
		name, id, found := strings.Cut(entry, ":")
		if !found {
			subs = append(subs, domain.Subscriber{ID: entry})
			continue
		}
		subs = append(subs, domain.Subscriber{ID: id, Name: name})
	}
	return subs
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if val := os.Getenv(key); val != "" {
		if parsed, err := strconv.Atoi(val); err == nil {
			return parsed
		}
	}
	return fallback
}
