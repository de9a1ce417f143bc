package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"cmcount/internal/subscribers"

	"github.com/joho/godotenv"
)

type Config struct {
	Server          ServerConfig
	Database        DatabaseConfig
	CampaignMonitor CampaignMonitorConfig
	Cache           CacheConfig
	Admin           AdminConfig
	Debug           bool
}

type ServerConfig struct {
	Port int
}

type DatabaseConfig struct {
	Path string
	// OptionCacheTTL bounds how long an autoloaded option is served from memory.
	OptionCacheTTL time.Duration
}

type CampaignMonitorConfig struct {
	APIKey             string
	ListID             string
	BaseURL            string
	InsecureSkipVerify bool
	RequestTimeout     time.Duration
}

type CacheConfig struct {
	TTLSeconds     int
	CountOption    string
	LastPollOption string
	DefaultDisplay int
}

type AdminConfig struct {
	Username     string
	PasswordHash string
	JWTSecret    string
}

// Load reads an optional .env file, then the environment.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Server: ServerConfig{
			Port: GetEnv("PORT", 8008).(int),
		},
		Database: DatabaseConfig{
			Path:           GetEnv("DATABASE_PATH", "cmcount.db").(string),
			OptionCacheTTL: GetEnv("OPTION_CACHE_TTL", time.Duration(0)).(time.Duration),
		},
		CampaignMonitor: CampaignMonitorConfig{
			APIKey:             GetEnv("CM_API_KEY", "").(string),
			ListID:             GetEnv("CM_LIST_ID", "").(string),
			BaseURL:            GetEnv("CM_API_BASE_URL", subscribers.DefaultBaseURL).(string),
			InsecureSkipVerify: GetEnv("CM_INSECURE_SKIP_VERIFY", false).(bool),
			RequestTimeout:     GetEnv("CM_REQUEST_TIMEOUT", time.Duration(0)).(time.Duration),
		},
		Cache: CacheConfig{
			TTLSeconds:     GetEnv("CMCOUNT_CACHE_SECONDS", subscribers.DefaultTTLSeconds).(int),
			CountOption:    GetEnv("CMCOUNT_OPTION_NAME", subscribers.DefaultCountOption).(string),
			LastPollOption: GetEnv("CMCOUNT_LASTPOLL_OPTION_NAME", subscribers.DefaultLastPollOption).(string),
			DefaultDisplay: GetEnv("CMCOUNT_DEFAULT_DISPLAY", 5000).(int),
		},
		Admin: AdminConfig{
			Username:     GetEnv("ADMIN_USERNAME", "admin").(string),
			PasswordHash: GetEnv("ADMIN_PASSWORD_HASH", "").(string),
			JWTSecret:    GetEnv("JWT_SECRET", "development-insecure-secret-change-me").(string),
		},
		Debug: GetEnv("DEBUG", false).(bool),
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.CampaignMonitor.APIKey == "" {
		return errors.New("missing env CM_API_KEY")
	}
	if c.CampaignMonitor.ListID == "" {
		return errors.New("missing env CM_LIST_ID")
	}
	if c.Cache.TTLSeconds < 0 {
		return fmt.Errorf("CMCOUNT_CACHE_SECONDS must be >= 0, got %d", c.Cache.TTLSeconds)
	}
	if c.Cache.CountOption == "" || c.Cache.LastPollOption == "" {
		return errors.New("option names must not be empty")
	}
	if c.Cache.CountOption == c.Cache.LastPollOption {
		return fmt.Errorf("count and last poll options share the name %q", c.Cache.CountOption)
	}
	if c.Server.Port <= 0 {
		return fmt.Errorf("PORT must be positive, got %d", c.Server.Port)
	}
	return nil
}

// Subscribers builds the settings shared by the gate and the refresher.
func (c *Config) Subscribers() subscribers.Settings {
	return subscribers.Settings{
		APIKey:             c.CampaignMonitor.APIKey,
		ListID:             c.CampaignMonitor.ListID,
		BaseURL:            c.CampaignMonitor.BaseURL,
		TTLSeconds:         int64(c.Cache.TTLSeconds),
		CountOption:        c.Cache.CountOption,
		LastPollOption:     c.Cache.LastPollOption,
		InsecureSkipVerify: c.CampaignMonitor.InsecureSkipVerify,
		Timeout:            c.CampaignMonitor.RequestTimeout,
		Debug:              c.Debug,
	}
}

// GetEnv returns the variable parsed to the type of defaultValue, or
// defaultValue when it is unset or unparsable.
func GetEnv(key string, defaultValue any) any {
	value, exists := os.LookupEnv(key)
	if !exists {
		return defaultValue
	}

	switch def := defaultValue.(type) {
	case string:
		return value
	case int:
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
		return def
	case bool:
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
		return def
	case time.Duration:
		if durationValue, err := time.ParseDuration(value); err == nil {
			return durationValue
		}
		return def
	default:
		panic(fmt.Sprintf("unsupported type %T", defaultValue))
	}
}
