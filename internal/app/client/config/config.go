package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	defaultEnv            = "local"
	defaultConfigDir      = ".grapetracker"
	defaultDataFile       = "session.db"
	defaultRequestTimeout = 30
	defaultProbeAttempts  = 3
	defaultProbeInterval  = 1000
	defaultPageSize       = 100
)

var (
	ErrAppIDMissing      = errors.New("app_id не может быть пустым")
	ErrBackendURLMissing = errors.New("backend_url не может быть пустым")
)

type Config struct {
	Env            string        `mapstructure:"app_env"`
	AppID          string        `mapstructure:"app_id"`
	BackendURL     string        `mapstructure:"backend_url"`
	ConfigDir      string        `mapstructure:"config_dir"`
	DataPath       string        `mapstructure:"data_path"`
	RequestTimeout time.Duration `mapstructure:"-"`
	ProbeAttempts  int           `mapstructure:"probe_attempts"`
	ProbeInterval  time.Duration `mapstructure:"-"`
	PageSize       int           `mapstructure:"page_size"`
}

// MustLoad загружает конфигурацию клиента
func MustLoad() *Config {
	cfg, err := Load(viper.GetViper())
	if err != nil {
		panic(fmt.Sprintf("Ошибка конфигурации: %v", err))
	}
	return cfg
}

// Load читает .env, переменные окружения и уже прочитанный viper конфиг
func Load(v *viper.Viper) (*Config, error) {
	// Определяем путь к .env файлу (относительно места запуска)
	envPath := ".env"
	if _, err := os.Stat(envPath); err == nil {
		if err := godotenv.Load(envPath); err != nil {
			fmt.Fprintf(os.Stderr, "Ошибка загрузки .env файла: %v\n", err)
		}
	}

	v.AutomaticEnv()

	// Устанавливаем значения по умолчанию
	v.SetDefault("APP_ENV", defaultEnv)
	v.SetDefault("CONFIG_DIR", defaultConfigDir)
	v.SetDefault("REQUEST_TIMEOUT_SECONDS", defaultRequestTimeout)
	v.SetDefault("PROBE_ATTEMPTS", defaultProbeAttempts)
	v.SetDefault("PROBE_INTERVAL_MS", defaultProbeInterval)
	v.SetDefault("PAGE_SIZE", defaultPageSize)

	configDir := v.GetString("CONFIG_DIR")
	if configDir == defaultConfigDir {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			homeDir = "."
		}
		configDir = filepath.Join(homeDir, configDir)
	}

	dataPath := v.GetString("DATA_PATH")
	if dataPath == "" {
		dataPath = filepath.Join(configDir, defaultDataFile)
	}

	config := &Config{
		Env:            v.GetString("APP_ENV"),
		AppID:          strings.TrimSpace(v.GetString("APP_ID")),
		BackendURL:     strings.TrimRight(strings.TrimSpace(v.GetString("BACKEND_URL")), "/"),
		ConfigDir:      configDir,
		DataPath:       dataPath,
		RequestTimeout: time.Duration(v.GetInt("REQUEST_TIMEOUT_SECONDS")) * time.Second,
		ProbeAttempts:  v.GetInt("PROBE_ATTEMPTS"),
		ProbeInterval:  time.Duration(v.GetInt("PROBE_INTERVAL_MS")) * time.Millisecond,
		PageSize:       v.GetInt("PAGE_SIZE"),
	}

	if err := config.validate(); err != nil {
		return nil, err
	}

	return config, nil
}

func (c *Config) validate() error {
	if c.AppID == "" {
		return ErrAppIDMissing
	}
	if c.BackendURL == "" {
		return ErrBackendURLMissing
	}
	u, err := url.Parse(c.BackendURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("backend_url должен быть абсолютным URL: %q", c.BackendURL)
	}
	if c.ProbeAttempts < 1 {
		return fmt.Errorf("probe_attempts должен быть >= 1, получено %d", c.ProbeAttempts)
	}
	if c.PageSize < 1 {
		return fmt.Errorf("page_size должен быть >= 1, получено %d", c.PageSize)
	}
	return nil
}

// AdminURL - адрес админки бэкенда
func (c *Config) AdminURL() string {
	return c.BackendURL + "/admin"
}

// IsProd проверяет, prod ли окружение
func (c *Config) IsProd() bool {
	return c.Env == "prod"
}

// IsLocal проверяет, local ли окружение
func (c *Config) IsLocal() bool {
	return c.Env == "local" || c.Env == ""
}
