package config

import (
	"log"
	"strings"

	"github.com/spf13/viper"
)

type Config struct {
	Port        string
	DatabaseURL string
	JWTSecret   string
	CORSOrigin  string

	// Optional: absence disables photo uploads, not the core.
	SupabaseURL string
	SupabaseKey string

	// Optional: absence disables outbound email, not the core.
	MailjetAPIKey    string
	MailjetSecretKey string
	EmailSender      string
	ResetPasswordURL string

	MigrationsDir string
}

// Load reads configuration from the environment. DATABASE_URL and JWT_SECRET
// are required; storage and email credentials are optional per feature.
func Load() Config {
	v := viper.New()
	v.AutomaticEnv()
	v.SetDefault("PORT", "9000")
	v.SetDefault("MIGRATIONS_DIR", "migrations")

	cfg := Config{
		Port:             v.GetString("PORT"),
		DatabaseURL:      v.GetString("DATABASE_URL"),
		JWTSecret:        v.GetString("JWT_SECRET"),
		CORSOrigin:       v.GetString("CORS_ORIGIN"),
		SupabaseURL:      strings.TrimRight(v.GetString("SUPABASE_URL"), "/"),
		SupabaseKey:      v.GetString("SUPABASE_KEY"),
		MailjetAPIKey:    v.GetString("MAILJET_API_KEY"),
		MailjetSecretKey: v.GetString("MAILJET_SECRET_KEY"),
		EmailSender:      v.GetString("EMAIL_SENDER"),
		ResetPasswordURL: v.GetString("BACKOFFICE_RESET_PASSWORD_URL"),
		MigrationsDir:    v.GetString("MIGRATIONS_DIR"),
	}
	if cfg.DatabaseURL == "" {
		log.Fatal("DATABASE_URL is required")
	}
	if cfg.JWTSecret == "" {
		log.Fatal("JWT_SECRET is required")
	}
	return cfg
}

func (c Config) StorageEnabled() bool { return c.SupabaseURL != "" && c.SupabaseKey != "" }

func (c Config) EmailEnabled() bool {
	return c.MailjetAPIKey != "" && c.MailjetSecretKey != "" && c.EmailSender != ""
}
