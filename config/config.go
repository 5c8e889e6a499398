package config

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/joeshaw/envdecode"
	"github.com/joho/godotenv"
)

const (
	BackendPostgres  = "postgres"
	BackendFirestore = "firestore"
	BackendMemory    = "memory"
)

type Config struct {
	DB          DBConfig
	Telegram    TelegramConfig
	HTTP        HTTPConfig
	Backend     BackendConfig
	Catalog     CatalogConfig
	Log         LogConfig
	AutoMigrate bool `env:"AUTO_MIGRATE,default=false"`
}

type DBConfig struct {
	URL      string `env:"DB_URL"` // full connection string (Supabase pooler URL), wins over the parts below
	Host     string `env:"DB_HOST,default=localhost"`
	Port     int    `env:"DB_PORT,default=5432"`
	User     string `env:"DB_USER,default=postgres"`
	Password string `env:"DB_PASSWORD"`
	Database string `env:"DB_NAME,default=postgres"`
}

type TelegramConfig struct {
	Token string `env:"TOKEN"`
}

type HTTPConfig struct {
	Addr           string `env:"HTTP_ADDR,default=:8080"`
	AllowedOrigins string `env:"ALLOWED_ORIGINS,default=*"`
}

type BackendConfig struct {
	Kind             string `env:"BACKEND,default=postgres"`
	FirestoreProject string `env:"FIRESTORE_PROJECT"`
	Collection       string `env:"RECIPES_COLLECTION,default=recipes"`
}

type CatalogConfig struct {
	Locale string `env:"LOCALE,default=pt-BR"`
}

type LogConfig struct {
	Level string `env:"LOG_LEVEL,default=info"`
	Dev   bool   `env:"LOG_DEV,default=false"`
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := envdecode.Decode(&cfg); err != nil && err != envdecode.ErrNoTargetFieldsAreSet {
		return nil, fmt.Errorf("decode env: %w", err)
	}
	cfg.Backend.Kind = strings.ToLower(strings.TrimSpace(cfg.Backend.Kind))
	switch cfg.Backend.Kind {
	case BackendPostgres, BackendFirestore, BackendMemory:
	default:
		return nil, fmt.Errorf("unknown BACKEND %q", cfg.Backend.Kind)
	}
	if cfg.Backend.Kind == BackendFirestore && cfg.Backend.FirestoreProject == "" {
		return nil, fmt.Errorf("FIRESTORE_PROJECT is required for the firestore backend")
	}
	return &cfg, nil
}

// ConnString returns DB_URL when set, otherwise builds one from the parts.
func (c DBConfig) ConnString() string {
	if c.URL != "" {
		return c.URL
	}
	u := url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(c.User, c.Password),
		Host:   fmt.Sprintf("%s:%d", c.Host, c.Port),
		Path:   "/" + c.Database,
	}
	return u.String()
}

// Origins splits ALLOWED_ORIGINS on commas.
func (c HTTPConfig) Origins() []string {
	var out []string
	for _, o := range strings.Split(c.AllowedOrigins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			out = append(out, o)
		}
	}
	return out
}
