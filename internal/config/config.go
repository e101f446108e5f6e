package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"
)

var ErrMissingOpenAIKey = errors.New("config: OPENAI_API_KEY is required")

const (
	defaultOpenAIBaseURL = "https://api.openai.com/v1"
	defaultStripeBaseURL = "https://api.stripe.com/v1"
	defaultPort          = 7001
	defaultServiceName   = "tshirt-agent"
	defaultEnv           = "dev"
	defaultExchange      = "tshirt_orders"
	defaultClientTimeout = 60 * time.Second
)

type Config struct {
	ServiceName string
	Env         string
	LogFile     string
	Port        int

	OpenAIAPIKey  string
	OpenAIBaseURL string

	// StripeAPIKey selects the live processor; empty means the mock one.
	StripeAPIKey  string
	StripeBaseURL string

	AMQPURL      string
	AMQPExchange string

	HTTPClientTimeout time.Duration
}

// Addr is the listen address for the HTTP server.
func (c Config) Addr() string { return fmt.Sprintf(":%d", c.Port) }

// UseMockPayments reports whether charges go to the in-process mock.
func (c Config) UseMockPayments() bool { return c.StripeAPIKey == "" }

// Load reads the configuration from the environment.
func Load() (Config, error) {
	cfg := Config{
		ServiceName:   getenvDefault("SERVICE_NAME", defaultServiceName),
		Env:           getenvDefault("ENV", defaultEnv),
		LogFile:       os.Getenv("LOG_FILE"),
		OpenAIAPIKey:  os.Getenv("OPENAI_API_KEY"),
		OpenAIBaseURL: getenvDefault("OPENAI_BASE_URL", defaultOpenAIBaseURL),
		StripeAPIKey:  os.Getenv("STRIPE_API_KEY"),
		StripeBaseURL: getenvDefault("STRIPE_BASE_URL", defaultStripeBaseURL),
		AMQPURL:       os.Getenv("AMQP_URL"),
		AMQPExchange:  getenvDefault("AMQP_EXCHANGE", defaultExchange),
	}
	if cfg.OpenAIAPIKey == "" {
		return Config{}, ErrMissingOpenAIKey
	}

	port, err := strconv.Atoi(getenvDefault("PORT", strconv.Itoa(defaultPort)))
	if err != nil || port <= 0 || port > 65535 {
		return Config{}, fmt.Errorf("config: invalid PORT %q", os.Getenv("PORT"))
	}
	cfg.Port = port

	timeout, err := time.ParseDuration(getenvDefault("HTTP_CLIENT_TIMEOUT", defaultClientTimeout.String()))
	if err != nil || timeout <= 0 {
		return Config{}, fmt.Errorf("config: invalid HTTP_CLIENT_TIMEOUT %q", os.Getenv("HTTP_CLIENT_TIMEOUT"))
	}
	cfg.HTTPClientTimeout = timeout

	return cfg, nil
}

func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
