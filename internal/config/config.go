package config

import (
	"time"

	"github.com/caarlos0/env/v10"
)

// Config centraliza la configuración del gateway y del CLI.
type Config struct {
	HTTPPort      string        `env:"HTTP_PORT" envDefault:"8080"`
	APIBaseURL    string        `env:"API_BASE_URL" envDefault:"http://localhost:5064/api"`
	APITimeout    time.Duration `env:"API_TIMEOUT" envDefault:"15s"`
	EntryRoute    string        `env:"ENTRY_ROUTE" envDefault:"/"`
	SessionStore  string        `env:"SESSION_STORE" envDefault:"file"`
	SessionFile   string        `env:"SESSION_FILE"`
	SessionTTL    time.Duration `env:"SESSION_TTL" envDefault:"3600s"`
	SessionKey    string        `env:"SESSION_KEY"`
	CookieSecure  bool          `env:"COOKIE_SECURE" envDefault:"false"`
	DatabaseURL   string        `env:"DATABASE_URL"`
	RedisAddr     string        `env:"REDIS_ADDR"`
	RedisPassword string        `env:"REDIS_PASSWORD"`
	RedisDB       int           `env:"REDIS_DB" envDefault:"0"`
	DeadlineTZ    string        `env:"DEADLINE_TZ" envDefault:"Local"`
	WatchSchedule string        `env:"WATCH_SCHEDULE" envDefault:"@every 5m"`

	LoginRateMax    int           `env:"LOGIN_RATE_MAX" envDefault:"5"`
	LoginRateWindow time.Duration `env:"LOGIN_RATE_WINDOW" envDefault:"10m"`

	SMTPHost     string `env:"SMTP_HOST"`
	SMTPPort     int    `env:"SMTP_PORT" envDefault:"587"`
	SMTPUser     string `env:"SMTP_USER"`
	SMTPPass     string `env:"SMTP_PASS"`
	SMTPFrom     string `env:"SMTP_FROM"`
	SMTPFromName string `env:"SMTP_FROM_NAME"`
	SMTPUseTLS   bool   `env:"SMTP_USE_TLS" envDefault:"false"`
}

// LoadConfig carga la configuración desde variables de entorno.
func LoadConfig() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// DeadlineLocation resuelve la zona usada para plazos sin zona horaria.
func (c *Config) DeadlineLocation() (*time.Location, error) {
	if c.DeadlineTZ == "" || c.DeadlineTZ == "Local" {
		return time.Local, nil
	}
	return time.LoadLocation(c.DeadlineTZ)
}
