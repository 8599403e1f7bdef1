// Package config loads service settings.
//
// Order of precedence, lowest first: built-in defaults, the YAML file named
// by CONFIG_PATH, then environment variables (a .env file in the working
// directory is loaded into the environment first).
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Storage  StorageConfig  `yaml:"storage"`
	Compress CompressConfig `yaml:"compress"`
	Unlock   UnlockConfig   `yaml:"unlock"`
	Logging  LoggingConfig  `yaml:"logging"`
	CORS     CORSConfig     `yaml:"cors"`
}

type ServerConfig struct {
	Port         int           `yaml:"port"`
	ReadTimeout  time.Duration `yaml:"read_timeout"`
	WriteTimeout time.Duration `yaml:"write_timeout"`
	IdleTimeout  time.Duration `yaml:"idle_timeout"`
}

type StorageConfig struct {
	WorkDir       string        `yaml:"work_dir"`
	MaxUploadMB   int64         `yaml:"max_upload_mb"`
	ScratchTTL    time.Duration `yaml:"scratch_ttl"`
	SweepInterval time.Duration `yaml:"sweep_interval"`
}

type CompressConfig struct {
	GhostscriptBinary string        `yaml:"gs_binary"`
	Timeout           time.Duration `yaml:"gs_timeout"`
}

// UnlockConfig controls the password dictionary tried when /unlock-pdf is
// called without a password. An empty Dictionary means the built-in list.
type UnlockConfig struct {
	DictionaryEnabled bool     `yaml:"dictionary_enabled"`
	Dictionary        []string `yaml:"dictionary"`
}

type LoggingConfig struct {
	Level      string `yaml:"level"`
	Pretty     bool   `yaml:"pretty"`
	File       string `yaml:"file"`
	MaxSizeMB  int    `yaml:"max_size_mb"`
	MaxBackups int    `yaml:"max_backups"`
	MaxAgeDays int    `yaml:"max_age_days"`
	Compress   bool   `yaml:"compress"`
}

type CORSConfig struct {
	AllowedOrigins []string `yaml:"allowed_origins"`
}

// Defaults returns the configuration used when nothing is set.
func Defaults() Config {
	return Config{
		Server: ServerConfig{
			Port:         8080,
			ReadTimeout:  30 * time.Second,
			WriteTimeout: 2 * time.Minute,
			IdleTimeout:  time.Minute,
		},
		Storage: StorageConfig{
			WorkDir:       "scratch",
			MaxUploadMB:   50,
			ScratchTTL:    5 * time.Minute,
			SweepInterval: 10 * time.Minute,
		},
		Compress: CompressConfig{
			GhostscriptBinary: "gs",
		},
		Unlock: UnlockConfig{DictionaryEnabled: true},
		Logging: LoggingConfig{
			Level:      "info",
			MaxSizeMB:  100,
			MaxBackups: 10,
			MaxAgeDays: 30,
			Compress:   true,
		},
		CORS: CORSConfig{AllowedOrigins: []string{"*"}},
	}
}

// Load reads .env, then CONFIG_PATH if set, then the environment.
func Load() (Config, error) {
	_ = godotenv.Load()
	return LoadFrom(os.Getenv("CONFIG_PATH"))
}

// LoadFrom is Load with an explicit YAML path; an empty path skips the file.
func LoadFrom(path string) (Config, error) {
	cfg := Defaults()
	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("read config %s: %w", path, err)
		}
		if err := yaml.Unmarshal(raw, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config %s: %w", path, err)
		}
	}
	applyEnv(&cfg)
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func applyEnv(cfg *Config) {
	cfg.Server.Port = getInt("PORT", cfg.Server.Port)
	cfg.Server.ReadTimeout = getDuration("READ_TIMEOUT", cfg.Server.ReadTimeout)
	cfg.Server.WriteTimeout = getDuration("WRITE_TIMEOUT", cfg.Server.WriteTimeout)
	cfg.Server.IdleTimeout = getDuration("IDLE_TIMEOUT", cfg.Server.IdleTimeout)

	cfg.Storage.WorkDir = getEnv("WORK_DIR", cfg.Storage.WorkDir)
	cfg.Storage.MaxUploadMB = int64(getInt("MAX_UPLOAD_MB", int(cfg.Storage.MaxUploadMB)))
	cfg.Storage.ScratchTTL = getDuration("SCRATCH_TTL", cfg.Storage.ScratchTTL)
	cfg.Storage.SweepInterval = getDuration("SWEEP_INTERVAL", cfg.Storage.SweepInterval)

	cfg.Compress.GhostscriptBinary = getEnv("GS_BINARY", cfg.Compress.GhostscriptBinary)
	cfg.Compress.Timeout = getDuration("GS_TIMEOUT", cfg.Compress.Timeout)

	cfg.Unlock.DictionaryEnabled = getBool("UNLOCK_DICTIONARY", cfg.Unlock.DictionaryEnabled)

	cfg.Logging.Level = getEnv("LOG_LEVEL", cfg.Logging.Level)
	cfg.Logging.Pretty = getBool("LOG_PRETTY", cfg.Logging.Pretty)
	cfg.Logging.File = getEnv("LOG_FILE", cfg.Logging.File)
	cfg.Logging.MaxSizeMB = getInt("LOG_MAX_SIZE_MB", cfg.Logging.MaxSizeMB)
	cfg.Logging.MaxBackups = getInt("LOG_MAX_BACKUPS", cfg.Logging.MaxBackups)
	cfg.Logging.MaxAgeDays = getInt("LOG_MAX_AGE_DAYS", cfg.Logging.MaxAgeDays)
	cfg.Logging.Compress = getBool("LOG_COMPRESS", cfg.Logging.Compress)

	if v := os.Getenv("CORS_ALLOWED_ORIGINS"); v != "" {
		var origins []string
		for _, o := range strings.Split(v, ",") {
			if o = strings.TrimSpace(o); o != "" {
				origins = append(origins, o)
			}
		}
		cfg.CORS.AllowedOrigins = origins
	}
}

func (c Config) Validate() error {
	if c.Server.Port < 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid port %d", c.Server.Port)
	}
	if c.Storage.WorkDir == "" {
		return fmt.Errorf("work_dir must not be empty")
	}
	if c.Storage.MaxUploadMB <= 0 {
		return fmt.Errorf("max_upload_mb must be positive")
	}
	if c.Storage.ScratchTTL <= 0 || c.Storage.SweepInterval <= 0 {
		return fmt.Errorf("scratch_ttl and sweep_interval must be positive")
	}
	if c.Compress.Timeout < 0 {
		return fmt.Errorf("gs_timeout must not be negative")
	}
	return nil
}

// MaxUploadBytes is the request body limit for a single upload request.
func (c Config) MaxUploadBytes() int64 {
	return c.Storage.MaxUploadMB << 20
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func getBool(key string, def bool) bool {
	v := strings.ToLower(strings.TrimSpace(os.Getenv(key)))
	switch v {
	case "1", "true", "yes", "on":
		return true
	case "0", "false", "no", "off":
		return false
	default:
		return def
	}
}

func getDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}
