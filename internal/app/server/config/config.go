package config

import (
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	envPath = ".env"

	defaultRunAddress      = ":8080"
	defaultEnv             = "development"
	defaultShutdownTimeout = 10
	defaultPingTimeoutMS   = 2000
)

type Config struct {
	Env    string
	DB     db
	Server server
	Logger logger
}

type defaultConfig struct {
	RunAddress      string
	DatabaseURI     string
	LogLevel        string
	Env             string
	ShutdownTimeout int
	PingTimeoutMS   int
}

type db struct {
	DatabaseURI string        `env:"DATABASE_URI"`
	PingTimeout time.Duration `env:"DB_PING_TIMEOUT_MS"`
}

type server struct {
	RunAddress      string        `env:"RUN_ADDRESS"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT_SECONDS"`
}

type logger struct {
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`
}

// MustLoad читает .env (если есть) и переменные окружения
func MustLoad() *Config {
	if err := godotenv.Load(envPath); err != nil {
		log.Println("No .env file found, relying on environment variables")
	}

	return FromViper(viper.GetViper())
}

// FromViper собирает конфигурацию из переданного экземпляра viper
func FromViper(v *viper.Viper) *Config {
	v.AutomaticEnv()
	v.SetDefault("run_address", defaultRunAddress)
	v.SetDefault("app_env", defaultEnv)
	v.SetDefault("shutdown_timeout_seconds", defaultShutdownTimeout)
	v.SetDefault("db_ping_timeout_ms", defaultPingTimeoutMS)

	d := defaultConfig{
		RunAddress:      v.GetString("run_address"),
		DatabaseURI:     v.GetString("database_uri"),
		LogLevel:        v.GetString("log_level"),
		Env:             v.GetString("app_env"),
		ShutdownTimeout: v.GetInt("shutdown_timeout_seconds"),
		PingTimeoutMS:   v.GetInt("db_ping_timeout_ms"),
	}

	config := Config{
		Env: d.Env,
		DB: db{
			DatabaseURI: d.DatabaseURI,
			PingTimeout: time.Duration(d.PingTimeoutMS) * time.Millisecond,
		},
		Server: server{
			RunAddress:      d.RunAddress,
			ShutdownTimeout: time.Duration(d.ShutdownTimeout) * time.Second,
		},
		Logger: logger{LogLevel: d.LogLevel},
	}

	return &config
}

// HasDatabase сообщает, настроена ли проверка базы бэкенда
func (c *Config) HasDatabase() bool {
	return c.DB.DatabaseURI != ""
}
