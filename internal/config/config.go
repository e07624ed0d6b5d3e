package config

import "time"

type Config struct {
	App      AppConfig      `env-prefix:"APP_"`
	HTTP     HTTPConfig     `env-prefix:"HTTP_"`
	Database DatabaseConfig `env-prefix:"DB_"`
}

type AppConfig struct {
	LogLevel string `env:"LOG_LEVEL" env-default:"info"`
	Pretty   bool   `env:"PRETTY" env-default:"false"`
}

// HTTPConfig is the local API the UI talks to. Keep it on loopback.
type HTTPConfig struct {
	Addr            string        `env:"ADDR" env-default:"127.0.0.1:8081"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" env-default:"3s"`
}

type DatabaseConfig struct {
	Path          string        `env:"PATH" env-default:"memos.db"`
	BusyTimeout   time.Duration `env:"BUSY_TIMEOUT" env-default:"5s"`
	RetryAttempts uint          `env:"RETRY_ATTEMPTS" env-default:"3"`
}
