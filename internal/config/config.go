package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

const (
	DriverPostgres = "postgres"
	DriverMongo    = "mongo"
	DriverMemory   = "memory"
)

type Config struct {
	Port        string
	StoreDriver string

	DatabaseURL   string
	MongoURI      string
	MongoDatabase string

	RabbitMQURL string

	SupabaseURL     string
	SupabaseAnonKey string

	MailHost string
	MailPort int
	MailUser string
	MailPass string
	MailFrom string

	CORSOrigins         []string
	ImportRatePerMinute int
}

// Load lê o .env (se existir) e depois o ambiente.
func Load() (Config, error) {
	_ = godotenv.Load()
	return FromEnv(os.Getenv)
}

// FromEnv builds the config from a lookup function; os.Getenv in production.
func FromEnv(getenv func(string) string) (Config, error) {
	cfg := Config{
		Port:            withDefault(getenv("PORT"), "8080"),
		StoreDriver:     strings.ToLower(withDefault(getenv("STORE_DRIVER"), DriverPostgres)),
		DatabaseURL:     getenv("DATABASE_URL"),
		MongoURI:        getenv("MONGODB_URI"),
		MongoDatabase:   withDefault(getenv("MONGODB_DATABASE"), "prospect"),
		RabbitMQURL:     getenv("RABBITMQ_URL"),
		SupabaseURL:     getenv("SUPABASE_URL"),
		SupabaseAnonKey: getenv("SUPABASE_ANON_KEY"),
		MailHost:        getenv("MAIL_HOST"),
		MailUser:        getenv("MAIL_USER"),
		MailPass:        getenv("MAIL_PASS"),
		MailFrom:        getenv("MAIL_FROM"),
		CORSOrigins:     splitList(getenv("CORS_ORIGINS")),
	}

	var err error
	if cfg.MailPort, err = intEnv(getenv, "MAIL_PORT", 587); err != nil {
		return Config{}, err
	}
	if cfg.ImportRatePerMinute, err = intEnv(getenv, "IMPORT_RATE_PER_MINUTE", 6); err != nil {
		return Config{}, err
	}

	switch cfg.StoreDriver {
	case DriverPostgres:
		if cfg.DatabaseURL == "" {
			return Config{}, fmt.Errorf("DATABASE_URL é obrigatório com STORE_DRIVER=postgres")
		}
	case DriverMongo:
		if cfg.MongoURI == "" {
			return Config{}, fmt.Errorf("MONGODB_URI é obrigatório com STORE_DRIVER=mongo")
		}
	case DriverMemory:
	default:
		return Config{}, fmt.Errorf("STORE_DRIVER inválido: %q", cfg.StoreDriver)
	}
	return cfg, nil
}

func withDefault(v, def string) string {
	if strings.TrimSpace(v) == "" {
		return def
	}
	return strings.TrimSpace(v)
}

func intEnv(getenv func(string) string, key string, def int) (int, error) {
	raw := strings.TrimSpace(getenv(key))
	if raw == "" {
		return def, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("%s inválido: %q", key, raw)
	}
	return n, nil
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
