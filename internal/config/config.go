package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// AppConfig holds runtime settings. Values come from an optional YAML file
// (CONFIG_PATH) and are overridden by the environment.
type AppConfig struct {
	TelegramToken  string `yaml:"telegramToken"`
	TelegramChatID int64  `yaml:"telegramChatId"`

	UVThreshold          float64 `yaml:"uvThreshold"`
	SkinType             int     `yaml:"skinType"`
	CheckIntervalMinutes int     `yaml:"checkIntervalMinutes"`

	OpenWeatherAPIKey string   `yaml:"openWeatherApiKey"`
	EuskalmetStation  string   `yaml:"euskalmetStation"`
	Providers         []string `yaml:"providers"`

	LocationName string  `yaml:"locationName"`
	Latitude     float64 `yaml:"latitude"`
	Longitude    float64 `yaml:"longitude"`
	Timezone     string  `yaml:"timezone"`

	ActiveHoursStart int `yaml:"activeHoursStart"`
	ActiveHoursEnd   int `yaml:"activeHoursEnd"`

	// HTTPTimeout bounds every outbound provider call.
	HTTPTimeout time.Duration `yaml:"httpTimeout"`

	StatePath string `yaml:"statePath"`

	HTTPEnabled bool   `yaml:"httpEnabled"`
	Port        string `yaml:"port"`

	LogLevel  string `yaml:"logLevel"`
	LogFormat string `yaml:"logFormat"`

	location *time.Location
}

var (
	// ErrMissingTelegram is returned when notification credentials are absent.
	ErrMissingTelegram = errors.New("TELEGRAM_BOT_TOKEN and TELEGRAM_CHAT_ID are required")
)

func defaults() *AppConfig {
	return &AppConfig{
		UVThreshold:          6,
		SkinType:             2,
		CheckIntervalMinutes: 30,
		EuskalmetStation:     "vitoria",
		LocationName:         "Vitoria-Gasteiz",
		Latitude:             42.8466,
		Longitude:            -2.6725,
		Timezone:             "Europe/Madrid",
		ActiveHoursStart:     7,
		ActiveHoursEnd:       21,
		HTTPTimeout:          20 * time.Second,
		StatePath:            "data/sunscreen.json",
		HTTPEnabled:          true,
		Port:                 "8080",
		LogLevel:             "info",
		LogFormat:            "text",
	}
}

// Load reads configuration from .env, CONFIG_PATH and the environment.
func Load() (*AppConfig, error) {
	if err := godotenv.Load(); err != nil {
		log.Printf("INFO: No .env file found or error loading it: %v", err)
	}
	cfg := defaults()

	if path := os.Getenv("CONFIG_PATH"); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config file: %w", err)
		}
	}

	if err := applyEnv(cfg); err != nil {
		return nil, err
	}
	if err := cfg.normalize(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func applyEnv(cfg *AppConfig) error {
	cfg.TelegramToken = getenvDefault("TELEGRAM_BOT_TOKEN", cfg.TelegramToken)
	if v := strings.TrimSpace(os.Getenv("TELEGRAM_CHAT_ID")); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return fmt.Errorf("invalid TELEGRAM_CHAT_ID: %w", err)
		}
		cfg.TelegramChatID = id
	}

	cfg.UVThreshold = getenvFloat("UV_THRESHOLD", cfg.UVThreshold)
	cfg.SkinType = getenvInt("SKIN_TYPE", cfg.SkinType)
	cfg.CheckIntervalMinutes = getenvInt("CHECK_INTERVAL_MINUTES", cfg.CheckIntervalMinutes)

	cfg.OpenWeatherAPIKey = getenvDefault("OPENWEATHER_API_KEY", cfg.OpenWeatherAPIKey)
	cfg.EuskalmetStation = getenvDefault("EUSKALMET_STATION", cfg.EuskalmetStation)
	if v := os.Getenv("UV_PROVIDERS"); v != "" {
		cfg.Providers = strings.Split(v, ",")
	}

	cfg.LocationName = getenvDefault("LOCATION_NAME", cfg.LocationName)
	cfg.Latitude = getenvFloat("LOCATION_LAT", cfg.Latitude)
	cfg.Longitude = getenvFloat("LOCATION_LON", cfg.Longitude)
	cfg.Timezone = getenvDefault("TIMEZONE", cfg.Timezone)

	cfg.ActiveHoursStart = getenvInt("ACTIVE_HOURS_START", cfg.ActiveHoursStart)
	cfg.ActiveHoursEnd = getenvInt("ACTIVE_HOURS_END", cfg.ActiveHoursEnd)

	if v := os.Getenv("HTTP_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("invalid HTTP_TIMEOUT: %w", err)
		}
		cfg.HTTPTimeout = d
	}

	cfg.StatePath = getenvDefault("SUNSCREEN_STATE_PATH", cfg.StatePath)
	if v := os.Getenv("HTTP_ENABLED"); v != "" {
		cfg.HTTPEnabled = v == "1" || strings.EqualFold(v, "true")
	}
	cfg.Port = getenvDefault("PORT", cfg.Port)
	cfg.LogLevel = getenvDefault("LOG_LEVEL", cfg.LogLevel)
	cfg.LogFormat = getenvDefault("LOG_FORMAT", cfg.LogFormat)
	return nil
}

func (c *AppConfig) normalize() error {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return fmt.Errorf("invalid TIMEZONE %q: %w", c.Timezone, err)
	}
	c.location = loc

	if c.SkinType < 1 || c.SkinType > 6 {
		log.Printf("WARN: SKIN_TYPE %d out of range 1-6; using 2", c.SkinType)
		c.SkinType = 2
	}
	if c.CheckIntervalMinutes <= 0 {
		c.CheckIntervalMinutes = 30
	}
	if c.HTTPTimeout <= 0 {
		c.HTTPTimeout = 20 * time.Second
	}
	if c.ActiveHoursStart < 0 || c.ActiveHoursStart > 23 || c.ActiveHoursEnd < 0 || c.ActiveHoursEnd > 24 {
		return fmt.Errorf("active hours must be within 0-24, got %d-%d", c.ActiveHoursStart, c.ActiveHoursEnd)
	}
	return nil
}

// RequireTelegram fails when the notifier cannot be configured.
func (c *AppConfig) RequireTelegram() error {
	if strings.TrimSpace(c.TelegramToken) == "" || c.TelegramChatID == 0 {
		return ErrMissingTelegram
	}
	return nil
}

// Location returns the configured time zone.
func (c *AppConfig) Location() *time.Location {
	if c.location == nil {
		return time.Local
	}
	return c.location
}

// CheckInterval is CheckIntervalMinutes as a duration.
func (c *AppConfig) CheckInterval() time.Duration {
	return time.Duration(c.CheckIntervalMinutes) * time.Minute
}

func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		n, err := strconv.Atoi(v)
		if err == nil {
			return n
		}
	}
	return def
}

func getenvFloat(key string, def float64) float64 {
	if v := os.Getenv(key); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err == nil {
			return f
		}
	}
	return def
}
