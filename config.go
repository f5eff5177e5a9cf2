package main

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// SMTPConfig holds the outbound mail transport settings.
type SMTPConfig struct {
	Host   string
	Port   int
	Secure bool
	User   string
	Pass   string
	From   string
}

// Configured reports whether enough is set to actually deliver mail.
// When false, notifications are logged instead of sent.
func (s SMTPConfig) Configured() bool {
	return s.Host != "" && s.User != "" && s.Pass != "" && s.From != ""
}

type Config struct {
	Port string

	DBHost string
	DBPort string
	DBUser string
	DBPass string
	DBName string

	SMTP SMTPConfig

	// ReminderCron and ReminderTZ control the daily deadline sweep.
	ReminderCron string
	ReminderTZ   string
}

func LoadConfig() Config {
	if err := godotenv.Load(); err != nil {
		log.Println("⚠️ Warning: .env file not found, using system environment variables")
	}

	return Config{
		Port: getEnv("PORT", "3001"),

		DBHost: getEnv("DB_HOST", "localhost"),
		DBPort: getEnv("DB_PORT", "5432"),
		DBUser: getEnv("DB_USER", "eventflow"),
		DBPass: getEnv("DB_PASS", "eventflow"),
		DBName: getEnv("DB_NAME", "eventflow"),

		SMTP: SMTPConfig{
			Host:   getEnv("EMAIL_HOST", ""),
			Port:   getEnvInt("EMAIL_PORT", 587),
			Secure: getEnv("EMAIL_SECURE", "false") == "true",
			User:   getEnv("EMAIL_USER", ""),
			Pass:   getEnv("EMAIL_PASS", ""),
			From:   getEnv("EMAIL_FROM", "EventFlow <noreply@eventflow.com>"),
		},

		// Daily at 09:00 in the configured timezone.
		ReminderCron: getEnv("REMINDER_CRON", "0 9 * * *"),
		ReminderTZ:   getEnv("REMINDER_TZ", "America/Sao_Paulo"),
	}
}

func getEnv(key, def string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return def
}

func getEnvInt(key string, def int) int {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return def
}
