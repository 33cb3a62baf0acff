package app

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	Issuer        string // Issuer claim for session tokens (default: hayroo-auth)
	SessionSecret string // HMAC key for session token signing; generated if unset

	DatabaseFile string // Path to SQLite database file (default: ./auth.db)
	PepperFile   string // Path to file containing pepper for password hashing (default: ./pepper)

	CaptchaSecret string // reCAPTCHA server secret; the stub verifier is used if unset

	LoginSkew uint // TOTP step windows accepted either side during login
	SetupSkew uint // TOTP step windows accepted either side during enrollment

	Env                 string        // Environment (dev, staging, prod) (default: dev)
	LogLevel            string        // Log level (debug, info, warn, error) (default: info)
	LogFormat           string        // Log format (json, text) (default: json)
	Port                int           // HTTP server port (default: 8080)
	ShutdownGracePeriod time.Duration // Graceful shutdown timeout (default: 10s)
}

func LoadConfig() Config {
	cfg := Config{
		Issuer:              getEnvOrDefault("AUTH_ISSUER", "hayroo-auth"),
		SessionSecret:       os.Getenv("AUTH_SESSION_SECRET"),
		DatabaseFile:        getEnvOrDefault("AUTH_DATABASE_FILE", "auth.db"),
		PepperFile:          getEnvOrDefault("AUTH_PEPPER_FILE", "pepper"),
		CaptchaSecret:       os.Getenv("CAPTCHA_SECRET"),
		LoginSkew:           getEnvUintOrDefault("MFA_LOGIN_SKEW", 0),
		SetupSkew:           getEnvUintOrDefault("MFA_SETUP_SKEW", 0),
		Env:                 getEnvOrDefault("ENV", "dev"),
		LogLevel:            getEnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:           getEnvOrDefault("LOG_FORMAT", "json"),
		Port:                getEnvIntOrDefault("PORT", 8080),
		ShutdownGracePeriod: getEnvDurationOrDefault("SHUTDOWN_GRACE_PERIOD", 10*time.Second),
	}

	return cfg
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	if intValue, err := strconv.Atoi(value); err == nil {
		return intValue
	}

	return defaultValue
}

func getEnvUintOrDefault(key string, defaultValue uint) uint {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	if uintValue, err := strconv.ParseUint(value, 10, 32); err == nil {
		return uint(uintValue)
	}

	return defaultValue
}

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	if duration, err := time.ParseDuration(value); err == nil {
		return duration
	}

	return defaultValue
}
