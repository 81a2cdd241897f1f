package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config aggregates runtime configuration used across the engine.
type Config struct {
	HTTP           HTTPConfig           `yaml:"http"`
	Weather        WeatherConfig        `yaml:"weather"`
	SoilClassifier SoilClassifierConfig `yaml:"soilClassifier"`
	Reasoning      ReasoningConfig      `yaml:"reasoning"`
	Advisory       AdvisoryConfig       `yaml:"advisory"`
	ImageArchive   ImageArchiveConfig   `yaml:"imageArchive"`
}

// HTTPConfig controls server level behavior.
type HTTPConfig struct {
	Address      string          `yaml:"address"`
	ReadTimeout  time.Duration   `yaml:"readTimeout"`
	WriteTimeout time.Duration   `yaml:"writeTimeout"`
	CORSOrigins  []string        `yaml:"corsOrigins"`
	RateLimit    RateLimitConfig `yaml:"rateLimit"`
}

// RateLimitConfig drives the request limiting middleware.
type RateLimitConfig struct {
	Enabled           bool `yaml:"enabled"`
	RequestsPerMinute int  `yaml:"requestsPerMinute"`
	Burst             int  `yaml:"burst"`
}

// WeatherConfig contains OpenWeather settings. An empty API key means the
// engine runs fully on synthesized weather.
type WeatherConfig struct {
	APIKey  string        `yaml:"apiKey"`
	BaseURL string        `yaml:"baseUrl"`
	Timeout time.Duration `yaml:"timeout"`
	Seed    int64         `yaml:"seed"`
}

// SoilClassifierConfig points at the external ML classification backend.
type SoilClassifierConfig struct {
	Enabled bool          `yaml:"enabled"`
	BaseURL string        `yaml:"baseUrl"`
	Timeout time.Duration `yaml:"timeout"`
}

// ReasoningConfig points at the follow-up question backend.
type ReasoningConfig struct {
	Enabled bool          `yaml:"enabled"`
	BaseURL string        `yaml:"baseUrl"`
	Timeout time.Duration `yaml:"timeout"`
}

// AdvisoryConfig bounds the advisory context cache and assembly.
type AdvisoryConfig struct {
	ContextTTL         time.Duration `yaml:"contextTtl"`
	MaxEntries         int           `yaml:"maxEntries"`
	MaxRecommendations int           `yaml:"maxRecommendations"`
	Valkey             ValkeyConfig  `yaml:"valkey"`
}

// ValkeyConfig contains connection information for the shared context cache.
type ValkeyConfig struct {
	Enabled bool   `yaml:"enabled"`
	Addr    string `yaml:"addr"`
	Prefix  string `yaml:"prefix"`
}

// ImageArchiveConfig enables S3-compatible archiving of soil photos.
type ImageArchiveConfig struct {
	Enabled   bool   `yaml:"enabled"`
	Endpoint  string `yaml:"endpoint"`
	AccessKey string `yaml:"accessKey"`
	SecretKey string `yaml:"secretKey"`
	Bucket    string `yaml:"bucket"`
	Region    string `yaml:"region"`
}

// Load reads configuration from a YAML file and environment variables.
func Load() (*Config, error) {
	cfg := defaultConfig()

	if path := os.Getenv("CONFIG_PATH"); path != "" {
		if err := hydrateFromFile(cfg, path); err != nil {
			return nil, err
		}
	} else if _, err := os.Stat("configs/config.yaml"); err == nil {
		if err := hydrateFromFile(cfg, "configs/config.yaml"); err != nil {
			return nil, err
		}
	}

	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

func hydrateFromFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config file: %w", err)
	}
	return nil
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("HTTP_ADDRESS"); v != "" {
		cfg.HTTP.Address = v
	}
	if v := os.Getenv("HTTP_CORS_ORIGINS"); v != "" {
		parts := strings.Split(v, ",")
		origins := make([]string, 0, len(parts))
		for _, p := range parts {
			if trimmed := strings.TrimSpace(p); trimmed != "" {
				origins = append(origins, trimmed)
			}
		}
		cfg.HTTP.CORSOrigins = origins
	}
	if v := os.Getenv("HTTP_RATE_LIMIT_ENABLED"); v != "" {
		cfg.HTTP.RateLimit.Enabled = isTruthy(v)
	}
	if v := os.Getenv("HTTP_RATE_LIMIT_RPM"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			cfg.HTTP.RateLimit.RequestsPerMinute = parsed
		}
	}
	if v := os.Getenv("HTTP_RATE_LIMIT_BURST"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			cfg.HTTP.RateLimit.Burst = parsed
		}
	}
	if v := os.Getenv("WEATHER_API_KEY"); v != "" {
		cfg.Weather.APIKey = v
	}
	if v := os.Getenv("WEATHER_BASE_URL"); v != "" {
		cfg.Weather.BaseURL = v
	}
	if v := os.Getenv("WEATHER_TIMEOUT"); v != "" {
		if parsed, err := time.ParseDuration(v); err == nil {
			cfg.Weather.Timeout = parsed
		}
	}
	if v := os.Getenv("WEATHER_SEED"); v != "" {
		if parsed, err := strconv.ParseInt(v, 10, 64); err == nil {
			cfg.Weather.Seed = parsed
		}
	}
	if v := os.Getenv("SOIL_CLASSIFIER_ENABLED"); v != "" {
		cfg.SoilClassifier.Enabled = isTruthy(v)
	}
	if v := os.Getenv("SOIL_CLASSIFIER_BASE_URL"); v != "" {
		cfg.SoilClassifier.BaseURL = v
	}
	if v := os.Getenv("SOIL_CLASSIFIER_TIMEOUT"); v != "" {
		if parsed, err := time.ParseDuration(v); err == nil {
			cfg.SoilClassifier.Timeout = parsed
		}
	}
	if v := os.Getenv("REASONING_ENABLED"); v != "" {
		cfg.Reasoning.Enabled = isTruthy(v)
	}
	if v := os.Getenv("REASONING_BASE_URL"); v != "" {
		cfg.Reasoning.BaseURL = v
	}
	if v := os.Getenv("REASONING_TIMEOUT"); v != "" {
		if parsed, err := time.ParseDuration(v); err == nil {
			cfg.Reasoning.Timeout = parsed
		}
	}
	if v := os.Getenv("ADVISORY_CONTEXT_TTL"); v != "" {
		if parsed, err := time.ParseDuration(v); err == nil {
			cfg.Advisory.ContextTTL = parsed
		}
	}
	if v := os.Getenv("ADVISORY_MAX_ENTRIES"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			cfg.Advisory.MaxEntries = parsed
		}
	}
	if v := os.Getenv("ADVISORY_MAX_RECOMMENDATIONS"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			cfg.Advisory.MaxRecommendations = parsed
		}
	}
	if v := os.Getenv("ADVISORY_VALKEY_ENABLED"); v != "" {
		cfg.Advisory.Valkey.Enabled = isTruthy(v)
	}
	if v := os.Getenv("ADVISORY_VALKEY_ADDR"); v != "" {
		cfg.Advisory.Valkey.Addr = v
	}
	if v := os.Getenv("ADVISORY_VALKEY_PREFIX"); v != "" {
		cfg.Advisory.Valkey.Prefix = v
	}
	if v := os.Getenv("IMAGE_ARCHIVE_ENABLED"); v != "" {
		cfg.ImageArchive.Enabled = isTruthy(v)
	}
	if v := os.Getenv("IMAGE_ARCHIVE_ENDPOINT"); v != "" {
		cfg.ImageArchive.Endpoint = v
	}
	if v := os.Getenv("IMAGE_ARCHIVE_ACCESS_KEY"); v != "" {
		cfg.ImageArchive.AccessKey = v
	}
	if v := os.Getenv("IMAGE_ARCHIVE_SECRET_KEY"); v != "" {
		cfg.ImageArchive.SecretKey = v
	}
	if v := os.Getenv("IMAGE_ARCHIVE_BUCKET"); v != "" {
		cfg.ImageArchive.Bucket = v
	}
	if v := os.Getenv("IMAGE_ARCHIVE_REGION"); v != "" {
		cfg.ImageArchive.Region = v
	}
}

func isTruthy(v string) bool {
	return v == "1" || strings.EqualFold(v, "true")
}

func defaultConfig() *Config {
	return &Config{
		HTTP: HTTPConfig{
			Address:      ":8080",
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 15 * time.Second,
			RateLimit: RateLimitConfig{
				Enabled:           true,
				RequestsPerMinute: 60,
				Burst:             20,
			},
		},
		Weather: WeatherConfig{
			BaseURL: "https://api.openweathermap.org/data/2.5",
			Timeout: 8 * time.Second,
		},
		SoilClassifier: SoilClassifierConfig{
			Enabled: false,
			BaseURL: "http://localhost:5001/api",
			Timeout: 15 * time.Second,
		},
		Reasoning: ReasoningConfig{
			Enabled: false,
			BaseURL: "",
			Timeout: 10 * time.Second,
		},
		Advisory: AdvisoryConfig{
			ContextTTL:         30 * time.Minute,
			MaxEntries:         1000,
			MaxRecommendations: 4,
			Valkey: ValkeyConfig{
				Enabled: false,
				Prefix:  "advisory",
			},
		},
		ImageArchive: ImageArchiveConfig{
			Enabled: false,
			Bucket:  "soil-images",
			Region:  "auto",
		},
	}
}

// Validate ensures the configuration is safe to use.
func (c *Config) Validate() error {
	if c.HTTP.Address == "" {
		return errors.New("http.address cannot be empty")
	}
	if c.HTTP.RateLimit.Enabled && c.HTTP.RateLimit.RequestsPerMinute <= 0 {
		return errors.New("http.rateLimit.requestsPerMinute must be positive when enabled")
	}
	if c.Weather.BaseURL == "" {
		return errors.New("weather.baseUrl cannot be empty")
	}
	if c.SoilClassifier.Enabled && c.SoilClassifier.BaseURL == "" {
		return errors.New("soilClassifier.baseUrl cannot be empty when enabled")
	}
	if c.Reasoning.Enabled && c.Reasoning.BaseURL == "" {
		return errors.New("reasoning.baseUrl cannot be empty when enabled")
	}
	if c.Advisory.ContextTTL <= 0 {
		return errors.New("advisory.contextTtl must be positive")
	}
	if c.Advisory.MaxEntries <= 0 {
		return errors.New("advisory.maxEntries must be positive")
	}
	if c.Advisory.MaxRecommendations <= 0 {
		return errors.New("advisory.maxRecommendations must be positive")
	}
	if c.Advisory.Valkey.Enabled && c.Advisory.Valkey.Addr == "" {
		return errors.New("advisory.valkey.addr cannot be empty when enabled")
	}
	if c.ImageArchive.Enabled {
		if c.ImageArchive.Endpoint == "" {
			return errors.New("imageArchive.endpoint cannot be empty when enabled")
		}
		if c.ImageArchive.Bucket == "" {
			return errors.New("imageArchive.bucket cannot be empty when enabled")
		}
	}
	return nil
}
