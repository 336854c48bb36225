package config

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	toml "github.com/pelletier/go-toml/v2"
)

// Config holds every tunable the viewer reads at startup.
type Config struct {
	APIBaseURL        string
	PageSize          int
	SearchLimit       int
	Debounce          time.Duration
	RequestTimeout    time.Duration
	RequestsPerSecond int
	Storage           string
	DataDir           string
	LogPath           string
	LogLevel          string
}

const (
	defaultConfigPath  = "~/.config/pokedex/config.toml"
	defaultAPIBaseURL  = "https://pokeapi.co/api/v2"
	defaultPageSize    = 30
	defaultSearchLimit = 1000
	defaultDebounce    = 300 * time.Millisecond
	defaultTimeout     = 10 * time.Second
	defaultRPS         = 5
	defaultStorage     = "sqlite"
	defaultDataDir     = "~/.local/share/pokedex"
	defaultLogPath     = "~/.local/state/pokedex/pokedex.log"
	defaultLogLevel    = "INFO"

)

// MaxPageSize is the largest accepted page size.
const MaxPageSize = 100

// fileConfig is the on-disk TOML shape. Pointers distinguish absent keys from zero values.
type fileConfig struct {
	APIURL            string `toml:"api_url"`
	PageSize          *int   `toml:"page_size"`
	SearchLimit       *int   `toml:"search_limit"`
	Debounce          string `toml:"debounce"`
	Timeout           string `toml:"timeout"`
	RequestsPerSecond *int   `toml:"requests_per_second"`
	Storage           string `toml:"storage"`
	DataDir           string `toml:"data_dir"`
	LogPath           string `toml:"log_path"`
	LogLevel          string `toml:"log_level"`
}

// envConfig lists the environment overrides. Unset variables leave the field empty.
type envConfig struct {
	APIURL            string `env:"POKEDEX_API_URL"`
	PageSize          string `env:"POKEDEX_PAGE_SIZE"`
	SearchLimit       string `env:"POKEDEX_SEARCH_LIMIT"`
	Debounce          string `env:"POKEDEX_DEBOUNCE"`
	Timeout           string `env:"POKEDEX_TIMEOUT"`
	RequestsPerSecond string `env:"POKEDEX_RPS"`
	Storage           string `env:"POKEDEX_STORAGE"`
	DataDir           string `env:"POKEDEX_DATA_DIR"`
	LogPath           string `env:"POKEDEX_LOG_PATH"`
	LogLevel          string `env:"POKEDEX_LOG_LEVEL"`
}

// Default returns the built-in configuration with paths expanded.
func Default() Config {
	return Config{
		APIBaseURL:        defaultAPIBaseURL,
		PageSize:          defaultPageSize,
		SearchLimit:       defaultSearchLimit,
		Debounce:          defaultDebounce,
		RequestTimeout:    defaultTimeout,
		RequestsPerSecond: defaultRPS,
		Storage:           defaultStorage,
		DataDir:           mustExpand(defaultDataDir),
		LogPath:           mustExpand(defaultLogPath),
		LogLevel:          defaultLogLevel,
	}
}

// Load reads the TOML file at path (or the default location), then applies
// POKEDEX_* environment overrides. A missing file yields the defaults.
func Load(path string) (Config, error) {
	resolved, err := resolvePath(path)
	if err != nil {
		return Config{}, err
	}

	cfg := Default()

	file, err := os.Open(resolved)
	switch {
	case errors.Is(err, os.ErrNotExist):
	case err != nil:
		return Config{}, fmt.Errorf("open config: %w", err)
	default:
		defer file.Close()
		bytes, err := io.ReadAll(file)
		if err != nil {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
		var raw fileConfig
		if err := toml.Unmarshal(bytes, &raw); err != nil {
			return Config{}, fmt.Errorf("parse config: %w", err)
		}
		if err := cfg.applyFile(raw); err != nil {
			return Config{}, fmt.Errorf("config %s: %w", resolved, err)
		}
	}

	var env envConfig
	if err := cleanenv.ReadEnv(&env); err != nil {
		return Config{}, fmt.Errorf("read environment: %w", err)
	}
	if err := cfg.applyEnv(env); err != nil {
		return Config{}, fmt.Errorf("environment: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) applyFile(raw fileConfig) error {
	setString(&c.APIBaseURL, raw.APIURL)
	if raw.PageSize != nil {
		c.PageSize = *raw.PageSize
	}
	if raw.SearchLimit != nil {
		c.SearchLimit = *raw.SearchLimit
	}
	if raw.RequestsPerSecond != nil {
		c.RequestsPerSecond = *raw.RequestsPerSecond
	}
	if err := setDuration(&c.Debounce, "debounce", raw.Debounce); err != nil {
		return err
	}
	if err := setDuration(&c.RequestTimeout, "timeout", raw.Timeout); err != nil {
		return err
	}
	setString(&c.Storage, raw.Storage)
	setPath(&c.DataDir, raw.DataDir)
	setPath(&c.LogPath, raw.LogPath)
	setString(&c.LogLevel, raw.LogLevel)
	return nil
}

func (c *Config) applyEnv(env envConfig) error {
	setString(&c.APIBaseURL, env.APIURL)
	if err := setInt(&c.PageSize, "POKEDEX_PAGE_SIZE", env.PageSize); err != nil {
		return err
	}
	if err := setInt(&c.SearchLimit, "POKEDEX_SEARCH_LIMIT", env.SearchLimit); err != nil {
		return err
	}
	if err := setInt(&c.RequestsPerSecond, "POKEDEX_RPS", env.RequestsPerSecond); err != nil {
		return err
	}
	if err := setDuration(&c.Debounce, "POKEDEX_DEBOUNCE", env.Debounce); err != nil {
		return err
	}
	if err := setDuration(&c.RequestTimeout, "POKEDEX_TIMEOUT", env.Timeout); err != nil {
		return err
	}
	setString(&c.Storage, env.Storage)
	setPath(&c.DataDir, env.DataDir)
	setPath(&c.LogPath, env.LogPath)
	setString(&c.LogLevel, env.LogLevel)
	return nil
}

// Validate checks ranges and enumerations and normalizes case.
func (c *Config) Validate() error {
	if c.PageSize < 1 || c.PageSize > MaxPageSize {
		return fmt.Errorf("page_size must be between 1 and %d, got %d", MaxPageSize, c.PageSize)
	}
	if c.SearchLimit < c.PageSize {
		return fmt.Errorf("search_limit (%d) must be >= page_size (%d)", c.SearchLimit, c.PageSize)
	}
	if c.Debounce < 0 {
		return fmt.Errorf("debounce must be >= 0, got %s", c.Debounce)
	}
	if c.RequestTimeout <= 0 {
		return fmt.Errorf("timeout must be > 0, got %s", c.RequestTimeout)
	}
	c.Storage = strings.ToLower(c.Storage)
	switch c.Storage {
	case "sqlite", "json":
	default:
		return fmt.Errorf("storage must be sqlite or json, got %q", c.Storage)
	}
	c.LogLevel = strings.ToUpper(c.LogLevel)
	if _, err := ParseLevel(c.LogLevel); err != nil {
		return err
	}
	return nil
}

// SlogLevel returns the configured level. Validate has already rejected unknown names.
func (c Config) SlogLevel() slog.Level {
	level, err := ParseLevel(c.LogLevel)
	if err != nil {
		return slog.LevelInfo
	}
	return level
}

// ParseLevel maps DEBUG, INFO, WARN and ERROR to slog levels.
func ParseLevel(s string) (slog.Level, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "DEBUG":
		return slog.LevelDebug, nil
	case "INFO":
		return slog.LevelInfo, nil
	case "WARN", "WARNING":
		return slog.LevelWarn, nil
	case "ERROR":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("unknown log level %q", s)
	}
}

func setString(dst *string, v string) {
	if v = strings.TrimSpace(v); v != "" {
		*dst = v
	}
}

func setPath(dst *string, v string) {
	if v = strings.TrimSpace(v); v != "" {
		*dst = mustExpand(v)
	}
}

func setInt(dst *int, name, v string) error {
	v = strings.TrimSpace(v)
	if v == "" {
		return nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}
	*dst = n
	return nil
}

func setDuration(dst *time.Duration, name, v string) error {
	v = strings.TrimSpace(v)
	if v == "" {
		return nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}
	*dst = d
	return nil
}

// DefaultPath returns the unexpanded default config location.
func DefaultPath() string {
	return defaultConfigPath
}

func resolvePath(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return expandPath(defaultConfigPath)
	}
	return expandPath(path)
}

func mustExpand(path string) string {
	expanded, err := expandPath(path)
	if err != nil {
		return path
	}
	return expanded
}

// ExpandPath resolves a leading ~ and makes path absolute.
func ExpandPath(path string) (string, error) {
	return expandPath(path)
}

func expandPath(path string) (string, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return "", fmt.Errorf("path is empty")
	}
	if strings.HasPrefix(trimmed, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		trimmed = filepath.Join(home, strings.TrimPrefix(trimmed, "~"))
	}
	return filepath.Abs(trimmed)
}

// LogDir returns the directory holding the log file.
func (c Config) LogDir() string {
	return filepath.Dir(c.LogPath)
}
