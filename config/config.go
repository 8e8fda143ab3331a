package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"

	"github.com/appellation/chess/core/log"
)

type BrokerConfig struct {
	URL               string        `env:"BROKER_URL" envDefault:"amqp://localhost"`
	Group             string        `env:"BROKER_GROUP" envDefault:"gateway"`
	MessageEvent      string        `env:"BROKER_EVENTS_MESSAGE" envDefault:"MESSAGE_CREATE"`
	InteractionEvent  string        `env:"BROKER_EVENTS_INTERACTION" envDefault:"INTERACTION_CREATE"`
	ReconnectInterval time.Duration `env:"BROKER_RECONNECT_INTERVAL" envDefault:"5s"`
}

// Events returns the broker events the bot subscribes to
func (c BrokerConfig) Events() []string {
	return []string{c.MessageEvent, c.InteractionEvent}
}

// IsRedis reports whether the broker URL points at Redis Streams instead of AMQP
func (c BrokerConfig) IsRedis() bool {
	return strings.HasPrefix(c.URL, "redis://") || strings.HasPrefix(c.URL, "rediss://")
}

type DiscordConfig struct {
	BotToken string `env:"DISCORD_TOKEN,required"`
}

type GameConfig struct {
	APIURL        string `env:"GAME_API_URL" envDefault:"http://localhost:8080"`
	BoardsURL     string `env:"BOARDS_URL" envDefault:"http://localhost:8081"`
	CommandPrefix string `env:"COMMAND_PREFIX" envDefault:"."`
}

type AppConfig struct {
	Port            string `env:"PORT" envDefault:"9090"`
	Environment     string `env:"ENVIRONMENT" envDefault:"dev"`
	LogLevel        string `env:"LOG_LEVEL" envDefault:"info"`
	WorkerPoolSize  int    `env:"WORKER_POOL_SIZE" envDefault:"16"`
	AlertWebhookURL string `env:"SLACK_ALERT_WEBHOOK_URL"`
	ServerLogsURL   string `env:"SERVER_LOGS_URL"`

	BrokerConfig  BrokerConfig
	DiscordConfig DiscordConfig
	GameConfig    GameConfig
}

// LoadConfig reads an optional .env file and then the process environment
func LoadConfig(envFile string) (*AppConfig, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil {
			log.Warn("⚠️ Could not load %s file, continuing with system env vars", envFile)
		}
	}

	return parse()
}

func parse() (*AppConfig, error) {
	var config AppConfig
	if err := env.Parse(&config); err != nil {
		return nil, fmt.Errorf("failed to parse configuration: %w", err)
	}

	// AMQP_URL is the historical name of the broker address
	if amqpURL := os.Getenv("AMQP_URL"); amqpURL != "" && os.Getenv("BROKER_URL") == "" {
		config.BrokerConfig.URL = normalizeAMQPURL(amqpURL)
	}

	if config.WorkerPoolSize < 1 {
		return nil, fmt.Errorf("WORKER_POOL_SIZE must be positive, got %d", config.WorkerPoolSize)
	}
	if config.BrokerConfig.ReconnectInterval <= 0 {
		return nil, fmt.Errorf("BROKER_RECONNECT_INTERVAL must be positive")
	}
	if config.GameConfig.CommandPrefix == "" {
		return nil, fmt.Errorf("COMMAND_PREFIX cannot be empty")
	}

	log.Info("✅ Configuration loaded (broker: %s, game API: %s, prefix: %q)",
		redactURL(config.BrokerConfig.URL), config.GameConfig.APIURL, config.GameConfig.CommandPrefix)
	return &config, nil
}

// normalizeAMQPURL accepts a bare host such as "localhost"
func normalizeAMQPURL(value string) string {
	if strings.Contains(value, "://") {
		return value
	}
	return "amqp://" + value
}

func redactURL(value string) string {
	schemeEnd := strings.Index(value, "://")
	at := strings.LastIndex(value, "@")
	if schemeEnd < 0 || at < schemeEnd {
		return value
	}
	return value[:schemeEnd+3] + "***" + value[at:]
}
