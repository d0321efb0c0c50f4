// Load envs from .env
// Load YAML config
// Validate config
// Provide default values

package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	// ApprovalWindow is the single auto-submit countdown used everywhere.
	// The session submits automatically when it elapses without a human
	// approve/reject.
	ApprovalWindow time.Duration `yaml:"-"`
	// PollInterval and MaxLoginAttempts bound the login poller
	// (5s * 60 attempts ~= 3 minutes by default).
	PollInterval     time.Duration `yaml:"-"`
	MaxLoginAttempts int           `yaml:"max_login_attempts"`
	// LoginSettleDelay is the fixed wait after submitting credentials
	// before re-checking the logged-in indicators.
	LoginSettleDelay time.Duration `yaml:"-"`
	// SubmitSettleDelay is the wait between clicking submit and running
	// the verification cascade, giving the page time to transition.
	SubmitSettleDelay time.Duration `yaml:"-"`

	// VerifyAcceptFormGone enables the weak fallback that counts the
	// original form disappearing as submission success.
	VerifyAcceptFormGone bool `yaml:"verify_accept_form_gone"`

	Headless      bool   `yaml:"headless"`
	ScreenshotDir string `yaml:"screenshot_dir"`
	CachePath     string `yaml:"cache_path"`

	GroqAPIKey string `yaml:"-"`

	TelegramToken  string `yaml:"telegram_token"`
	TelegramChatID int64  `yaml:"telegram_chat_id"`

	SMTPHost string `yaml:"smtp_host"`
	SMTPPort int    `yaml:"smtp_port"`
	SMTPUser string `yaml:"-"`
	SMTPPass string `yaml:"-"`
	SMTPFrom string `yaml:"smtp_from"`

	DatabaseURL string `yaml:"-"`

	ServerPort int `yaml:"server_port"`
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := Default()

	//Load yaml config if present
	data, err := os.ReadFile("configs/config.yaml")
	if err == nil {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("error parsing config.yaml: %w", err)
		}
	}

	//Override with env vars
	cfg.ApprovalWindow = envDuration("APPROVAL_WINDOW", cfg.ApprovalWindow)
	cfg.PollInterval = envDuration("LOGIN_POLL_INTERVAL", cfg.PollInterval)
	cfg.MaxLoginAttempts = envInt("LOGIN_MAX_ATTEMPTS", cfg.MaxLoginAttempts)
	cfg.LoginSettleDelay = envDuration("LOGIN_SETTLE_DELAY", cfg.LoginSettleDelay)
	cfg.SubmitSettleDelay = envDuration("SUBMIT_SETTLE_DELAY", cfg.SubmitSettleDelay)
	cfg.VerifyAcceptFormGone = envBool("VERIFY_ACCEPT_FORM_GONE", cfg.VerifyAcceptFormGone)
	cfg.Headless = envBool("HEADLESS", cfg.Headless)
	cfg.ServerPort = envInt("PORT", cfg.ServerPort)

	if v := os.Getenv("GROQ_API_KEY"); v != "" {
		cfg.GroqAPIKey = v
	}
	if v := os.Getenv("TELEGRAM_BOT_TOKEN"); v != "" {
		cfg.TelegramToken = v
	}
	if v := os.Getenv("TELEGRAM_CHAT_ID"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid TELEGRAM_CHAT_ID: %w", err)
		}
		cfg.TelegramChatID = id
	}
	if v := os.Getenv("SMTP_HOST"); v != "" {
		cfg.SMTPHost = v
	}
	cfg.SMTPPort = envInt("SMTP_PORT", cfg.SMTPPort)
	if v := os.Getenv("SMTP_USER"); v != "" {
		cfg.SMTPUser = v
	}
	if v := os.Getenv("SMTP_PASS"); v != "" {
		cfg.SMTPPass = v
	}
	if v := os.Getenv("SMTP_FROM"); v != "" {
		cfg.SMTPFrom = v
	}
	if v := os.Getenv("DATABASE_URL"); v != "" {
		cfg.DatabaseURL = v
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Default returns a config with every policy value at its default.
// Tests build on this instead of reading the environment.
func Default() *Config {
	return &Config{
		ApprovalWindow:       60 * time.Second,
		PollInterval:         5 * time.Second,
		MaxLoginAttempts:     60,
		LoginSettleDelay:     5 * time.Second,
		SubmitSettleDelay:    3 * time.Second,
		VerifyAcceptFormGone: true,
		Headless:             true,
		ScreenshotDir:        "logs/screenshots",
		CachePath:            ".cache",
		SMTPPort:             587,
		ServerPort:           8080,
	}
}

func (c *Config) validate() error {
	if c.ApprovalWindow <= 0 {
		return fmt.Errorf("APPROVAL_WINDOW must be positive, got %s", c.ApprovalWindow)
	}
	if c.PollInterval <= 0 {
		return fmt.Errorf("LOGIN_POLL_INTERVAL must be positive, got %s", c.PollInterval)
	}
	if c.MaxLoginAttempts <= 0 {
		return fmt.Errorf("LOGIN_MAX_ATTEMPTS must be positive, got %d", c.MaxLoginAttempts)
	}
	if c.SMTPHost != "" && c.SMTPFrom == "" {
		return fmt.Errorf("SMTP_FROM is required when SMTP_HOST is set")
	}
	return nil
}

// LoginDeadline is how long a pending_login session stays alive.
func (c *Config) LoginDeadline() time.Duration {
	return time.Duration(c.MaxLoginAttempts) * c.PollInterval
}

func envInt(key string, defaultVal int) int {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return defaultVal
	}
	return i
}

func envBool(key string, defaultVal bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return defaultVal
	}
	return b
}

func envDuration(key string, defaultVal time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return defaultVal
	}
	return d
}
