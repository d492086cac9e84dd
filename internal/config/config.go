package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Repository backends the API can run against.
const (
	BackendDynamo = "dynamodb"
	BackendFile   = "file"
)

// Config carries everything the API and worker need at startup. Secrets are
// threaded into constructors from here rather than read from the environment
// at call sites.
type Config struct {
	Port           string   `envconfig:"PORT" default:"10000"`
	AllowedOrigins []string `envconfig:"ALLOWED_ORIGINS" default:"*"`
	LogLevel       string   `envconfig:"LOG_LEVEL" default:"info"`
	LogFormat      string   `envconfig:"LOG_FORMAT" default:"json"`
	RunLocal       bool     `envconfig:"RUN_LOCAL" default:"false"`

	PaystackSecretKey string        `envconfig:"PAYSTACK_SECRET_KEY"`
	PaystackBaseURL   string        `envconfig:"PAYSTACK_BASE_URL" default:"https://api.paystack.co"`
	Currency          string        `envconfig:"CURRENCY" default:"GHS"`
	GatewayTimeout    time.Duration `envconfig:"GATEWAY_TIMEOUT" default:"15s"`

	// checkout handoff targets; leaving one empty disables that channel
	WhatsAppNumber string `envconfig:"WHATSAPP_NUMBER"`
	OrderEmail     string `envconfig:"ORDER_EMAIL"`

	OrdersBackend string `envconfig:"ORDERS_BACKEND" default:"file"`
	OrdersFile    string `envconfig:"ORDERS_FILE" default:"orders.json"`
	OrdersTable   string `envconfig:"ORDERS_TABLE"`
	EventsTable   string `envconfig:"WEBHOOK_EVENTS_TABLE"`
	QueueURL      string `envconfig:"ORDERS_QUEUE_URL"`

	EventTTLWindow time.Duration `envconfig:"WEBHOOK_EVENT_TTL" default:"48h"`
}

// Load reads configuration from the environment. A .env file is applied
// first when present so local runs match the deployed layout.
func Load() (*Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	switch c.OrdersBackend {
	case BackendDynamo:
		if strings.TrimSpace(c.OrdersTable) == "" {
			return errors.New("ORDERS_TABLE is required for the dynamodb backend")
		}
	case BackendFile:
	default:
		return fmt.Errorf("unknown orders backend %q", c.OrdersBackend)
	}
	if strings.TrimSpace(c.PaystackSecretKey) == "" {
		return errors.New("PAYSTACK_SECRET_KEY is required")
	}
	return nil
}

// OriginAllowed reports whether a request origin passes the configured
// allow-list. An empty origin (non-browser clients) is always allowed.
func (c *Config) OriginAllowed(origin string) bool {
	if origin == "" {
		return true
	}
	for _, o := range c.AllowedOrigins {
		o = strings.TrimSpace(o)
		if o == "*" || o == origin {
			return true
		}
	}
	return false
}
