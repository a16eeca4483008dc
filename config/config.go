package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all service configuration.
type Config struct {
	// Environment
	Environment EnvironmentConfig

	// Server
	HTTPServer HTTPServerConfig
	Logger     LoggerConfig

	// Issue tracker
	YouTrack YouTrackConfig

	// Webhooks
	Webhook WebhookConfig

	// Rule engine
	Automation AutomationConfig
	Rules      RulesConfig
}

type EnvironmentConfig struct {
	Name string
}

type HTTPServerConfig struct {
	Port int
	Mode string
}

type LoggerConfig struct {
	Level        string
	Mode         string
	Encoding     string
	ColorEnabled bool
}

type YouTrackConfig struct {
	URL            string
	Token          string
	RequestTimeout time.Duration
	RetryAttempts  int
	RetryDelay     time.Duration
	RatePerSec     float64
	PageSize       int
}

type WebhookConfig struct {
	Enabled         bool
	Secret          string
	AllowedIPs      []string
	RateLimitPerMin int
	DedupTTL        time.Duration
}

type AutomationConfig struct {
	EventTimeout time.Duration
	QueueSize    int
}

type RulesConfig struct {
	Path string
}

// Load loads configuration using Viper.
// A .env file in the working directory is applied to the environment first.
// Config file name: config.yaml, searched in ./config, ., /etc/app/ unless path is set.
func Load(path string) (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath("./config")
		v.AddConfigPath(".")
		v.AddConfigPath("/etc/app/")
	}

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	cfg := &Config{}

	// Environment & Server
	cfg.Environment.Name = v.GetString("environment.name")
	cfg.HTTPServer.Port = v.GetInt("http_server.port")
	cfg.HTTPServer.Mode = v.GetString("http_server.mode")
	cfg.Logger.Level = v.GetString("logger.level")
	cfg.Logger.Mode = v.GetString("logger.mode")
	cfg.Logger.Encoding = v.GetString("logger.encoding")
	cfg.Logger.ColorEnabled = v.GetBool("logger.color_enabled")

	// YouTrack
	cfg.YouTrack.URL = strings.TrimRight(v.GetString("youtrack.url"), "/")
	cfg.YouTrack.Token = v.GetString("youtrack.token")
	if token := v.GetString("youtrack_token"); token != "" {
		cfg.YouTrack.Token = token
	}
	cfg.YouTrack.RequestTimeout = v.GetDuration("youtrack.request_timeout")
	cfg.YouTrack.RetryAttempts = v.GetInt("youtrack.retry_attempts")
	cfg.YouTrack.RetryDelay = v.GetDuration("youtrack.retry_delay")
	cfg.YouTrack.RatePerSec = v.GetFloat64("youtrack.rate_per_sec")
	cfg.YouTrack.PageSize = v.GetInt("youtrack.page_size")

	// Webhooks
	cfg.Webhook.Enabled = v.GetBool("webhook.enabled")
	cfg.Webhook.Secret = v.GetString("webhook.secret")
	if webhookSecret := v.GetString("webhook_secret"); webhookSecret != "" {
		cfg.Webhook.Secret = webhookSecret
	}
	cfg.Webhook.RateLimitPerMin = v.GetInt("webhook.rate_limit_per_min")
	cfg.Webhook.DedupTTL = v.GetDuration("webhook.dedup_ttl")

	// Split allowed IPs since viper might not parse array seamlessly from env
	var ips []string
	if rawIps := v.GetString("webhook.allowed_ips"); rawIps != "" {
		for _, ip := range strings.Split(rawIps, ",") {
			ip = strings.TrimSpace(ip)
			if ip != "" {
				ips = append(ips, ip)
			}
		}
	}
	cfg.Webhook.AllowedIPs = ips

	// Automation
	cfg.Automation.EventTimeout = v.GetDuration("automation.event_timeout")
	cfg.Automation.QueueSize = v.GetInt("automation.queue_size")
	cfg.Rules.Path = v.GetString("rules.path")

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) validate() error {
	if c.YouTrack.RequestTimeout <= 0 {
		return fmt.Errorf("youtrack.request_timeout must be positive")
	}
	if c.YouTrack.RetryAttempts < 1 {
		return fmt.Errorf("youtrack.retry_attempts must be at least 1")
	}
	if c.Rules.Path == "" {
		return fmt.Errorf("rules.path is required")
	}
	return nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("environment.name", "development")
	v.SetDefault("http_server.port", 8080)
	v.SetDefault("http_server.mode", "debug")
	v.SetDefault("logger.level", "debug")
	v.SetDefault("logger.mode", "debug")
	v.SetDefault("logger.encoding", "console")
	v.SetDefault("logger.color_enabled", true)

	v.SetDefault("youtrack.request_timeout", "15s")
	v.SetDefault("youtrack.retry_attempts", 3)
	v.SetDefault("youtrack.retry_delay", "500ms")
	v.SetDefault("youtrack.rate_per_sec", 10)
	v.SetDefault("youtrack.page_size", 100)

	v.SetDefault("webhook.enabled", true)
	v.SetDefault("webhook.rate_limit_per_min", 60)
	v.SetDefault("webhook.dedup_ttl", "10m")

	v.SetDefault("automation.event_timeout", "2m")
	v.SetDefault("automation.queue_size", 64)
	v.SetDefault("rules.path", "config/rules.yaml")
}
