package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds the application configuration.
type Config struct {
	ServerPort   int
	DatabasePath string
	JWTSecret    string

	// PublicBaseURL is the address embedded in password reset links.
	PublicBaseURL string

	S3Bucket    string
	S3Region    string
	S3AccessKey string
	S3SecretKey string
	S3Endpoint  string // optional, for S3-compatible stores

	SMTPHost string
	SMTPPort int
	SMTPUser string
	SMTPPass string
	MailFrom string

	RazorpayKeyID     string
	RazorpayKeySecret string
	PremiumPricePaise int64

	// TokenSweepSpec is the cron spec for the expired reset-token sweeper.
	TokenSweepSpec string
}

// Load loads configuration from environment variables or sets defaults.
// A .env file in the working directory is honored when present.
func Load() (*Config, error) {
	_ = godotenv.Load()

	port, err := strconv.Atoi(getEnv("PORT", "8080"))
	if err != nil {
		return nil, err
	}

	smtpPort, err := strconv.Atoi(getEnv("SMTP_PORT", "587"))
	if err != nil {
		return nil, err
	}

	premiumPrice, err := strconv.ParseInt(getEnv("PREMIUM_PRICE_PAISE", "50000"), 10, 64)
	if err != nil {
		return nil, err
	}

	return &Config{
		ServerPort:        port,
		DatabasePath:      getEnv("DATABASE_PATH", "./fintrack.db"),
		JWTSecret:         getEnv("JWT_SECRET", "dev-secret-change-me"),
		PublicBaseURL:     getEnv("PUBLIC_BASE_URL", "http://localhost:8080"),
		S3Bucket:          getEnv("AWS_S3_BUCKET", ""),
		S3Region:          getEnv("AWS_REGION", "us-east-1"),
		S3AccessKey:       getEnv("AWS_ACCESS_KEY_ID", ""),
		S3SecretKey:       getEnv("AWS_SECRET_ACCESS_KEY", ""),
		S3Endpoint:        getEnv("AWS_S3_ENDPOINT", ""),
		SMTPHost:          getEnv("SMTP_HOST", "localhost"),
		SMTPPort:          smtpPort,
		SMTPUser:          getEnv("SMTP_USER", ""),
		SMTPPass:          getEnv("SMTP_PASS", ""),
		MailFrom:          getEnv("MAIL_FROM", "no-reply@fintrack.local"),
		RazorpayKeyID:     getEnv("RAZORPAY_KEY_ID", ""),
		RazorpayKeySecret: getEnv("RAZORPAY_KEY_SECRET", ""),
		PremiumPricePaise: premiumPrice,
		TokenSweepSpec:    getEnv("TOKEN_SWEEP_SPEC", "@hourly"),
	}, nil
}

// Helper to get an environment variable with a default value.
func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}
