package config

import (
	"fmt"
	"os"
	"runtime"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	ImageDir    string `yaml:"image_dir"`
	ThumbDir    string `yaml:"thumb_dir"`
	SidecarPath string `yaml:"sidecar_path"`
	ListenAddr  string `yaml:"listen_addr"`

	LogLevel  string `yaml:"log_level"`
	LogFormat string `yaml:"log_format"`
	LogFile   string `yaml:"log_file"`

	Workers        int  `yaml:"workers"`
	ThumbWidth     int  `yaml:"thumb_width"`
	GenerateThumbs bool `yaml:"generate_thumbs"`

	GeocodeEnabled   bool          `yaml:"geocode_enabled"`
	GeocodeURL       string        `yaml:"geocode_url"`
	GeocodeUserAgent string        `yaml:"geocode_user_agent"`
	GeocodeInterval  time.Duration `yaml:"geocode_interval"`
	GeocodeLanguage  string        `yaml:"geocode_language"`
	CacheDBPath      string        `yaml:"cache_db_path"`

	CaptionBackend string `yaml:"caption_backend"`
	OllamaHost     string `yaml:"ollama_host"`
	OllamaModel    string `yaml:"ollama_model"`
	ClaudeAPIKey   string `yaml:"claude_api_key"`
	ClaudeModel    string `yaml:"claude_model"`
}

func defaults() *Config {
	return &Config{
		ImageDir:         "img",
		ThumbDir:         "img/thumb",
		SidecarPath:      "photo_data.xml",
		ListenAddr:       ":8080",
		LogLevel:         "info",
		LogFormat:        "json",
		Workers:          runtime.GOMAXPROCS(0),
		ThumbWidth:       600,
		GenerateThumbs:   true,
		GeocodeEnabled:   true,
		GeocodeURL:       "https://nominatim.openstreetmap.org",
		GeocodeUserAgent: "Photofolio-App",
		GeocodeInterval:  time.Second,
		CacheDBPath:      ".photofolio/cache.db",
		CaptionBackend:   "none",
		OllamaHost:       "http://localhost:11434",
		OllamaModel:      "moondream",
		ClaudeModel:      "claude-haiku-4-5",
	}
}

// Load builds the configuration from defaults, then the YAML file named by
// PHOTOFOLIO_CONFIG (if set), then environment variables.
func Load() (*Config, error) {
	cfg := defaults()

	if path := os.Getenv("PHOTOFOLIO_CONFIG"); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	}

	cfg.ImageDir = getEnv("IMAGE_DIR", cfg.ImageDir)
	cfg.ThumbDir = getEnv("THUMB_DIR", cfg.ThumbDir)
	cfg.SidecarPath = getEnv("SIDECAR_PATH", cfg.SidecarPath)
	cfg.ListenAddr = getEnv("LISTEN_ADDR", cfg.ListenAddr)
	cfg.LogLevel = getEnv("LOG_LEVEL", cfg.LogLevel)
	cfg.LogFormat = getEnv("LOG_FORMAT", cfg.LogFormat)
	cfg.LogFile = getEnv("LOG_FILE", cfg.LogFile)
	cfg.GeocodeURL = getEnv("GEOCODE_URL", cfg.GeocodeURL)
	cfg.GeocodeUserAgent = getEnv("GEOCODE_USER_AGENT", cfg.GeocodeUserAgent)
	cfg.GeocodeLanguage = getEnv("GEOCODE_LANGUAGE", cfg.GeocodeLanguage)
	cfg.CacheDBPath = getEnv("CACHE_DB_PATH", cfg.CacheDBPath)
	cfg.CaptionBackend = getEnv("CAPTION_BACKEND", cfg.CaptionBackend)
	cfg.OllamaHost = getEnv("OLLAMA_HOST", cfg.OllamaHost)
	cfg.OllamaModel = getEnv("OLLAMA_MODEL", cfg.OllamaModel)
	cfg.ClaudeAPIKey = getEnv("CLAUDE_API_KEY", cfg.ClaudeAPIKey)
	cfg.ClaudeModel = getEnv("CLAUDE_MODEL", cfg.ClaudeModel)

	var err error
	if cfg.Workers, err = getEnvInt("WORKERS", cfg.Workers); err != nil {
		return nil, err
	}
	if cfg.ThumbWidth, err = getEnvInt("THUMB_WIDTH", cfg.ThumbWidth); err != nil {
		return nil, err
	}
	if cfg.GenerateThumbs, err = getEnvBool("GENERATE_THUMBS", cfg.GenerateThumbs); err != nil {
		return nil, err
	}
	if cfg.GeocodeEnabled, err = getEnvBool("GEOCODE_ENABLED", cfg.GeocodeEnabled); err != nil {
		return nil, err
	}
	if cfg.GeocodeInterval, err = getEnvDuration("GEOCODE_INTERVAL", cfg.GeocodeInterval); err != nil {
		return nil, err
	}

	if cfg.Workers < 1 {
		cfg.Workers = 1
	}
	return cfg, nil
}

func getEnv(key, defaultVal string) string {
	if val, exists := os.LookupEnv(key); exists {
		return val
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) (int, error) {
	val, exists := os.LookupEnv(key)
	if !exists {
		return defaultVal, nil
	}
	n, err := strconv.Atoi(val)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return n, nil
}

func getEnvBool(key string, defaultVal bool) (bool, error) {
	val, exists := os.LookupEnv(key)
	if !exists {
		return defaultVal, nil
	}
	b, err := strconv.ParseBool(val)
	if err != nil {
		return false, fmt.Errorf("invalid %s: %w", key, err)
	}
	return b, nil
}

func getEnvDuration(key string, defaultVal time.Duration) (time.Duration, error) {
	val, exists := os.LookupEnv(key)
	if !exists {
		return defaultVal, nil
	}
	d, err := time.ParseDuration(val)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}
