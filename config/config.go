package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds all environment variables for the storefront API.
type Config struct {
	Port     string
	Env      string // "development" or "production"
	MongoURL string
	MongoDB  string
	RedisURL string

	JWTSecret string

	FirebaseProjectID       string
	FirebaseCredentialsFile string

	RazorpayKeyID     string
	RazorpayKeySecret string

	CloudinaryURL string

	// AdminIdentities is the set of Firebase UIDs or emails that get the
	// admin role on session creation.
	AdminIdentities []string

	CORSOrigins []string
}

// Load reads the environment (optionally from a .env file) into a Config
// and validates required secrets.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Port:                    getEnv("PORT", "8080"),
		Env:                     getEnv("APP_ENV", "development"),
		MongoURL:                getEnv("MONGO_URL", "mongodb://localhost:27017"),
		MongoDB:                 getEnv("MONGO_DB", "storefront"),
		RedisURL:                getEnv("REDIS_URL", "redis://localhost:6379"),
		JWTSecret:               os.Getenv("JWT_SECRET"),
		FirebaseProjectID:       os.Getenv("FIREBASE_PROJECT_ID"),
		FirebaseCredentialsFile: os.Getenv("FIREBASE_CREDENTIALS_FILE"),
		RazorpayKeyID:           os.Getenv("RAZORPAY_KEY_ID"),
		RazorpayKeySecret:       os.Getenv("RAZORPAY_KEY_SECRET"),
		CloudinaryURL:           os.Getenv("CLOUDINARY_URL"),
		AdminIdentities:         splitList(os.Getenv("ADMIN_IDENTITIES")),
		CORSOrigins:             splitList(getEnv("CORS_ORIGINS", "*")),
	}

	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required")
	}
	if cfg.RazorpayKeyID == "" || cfg.RazorpayKeySecret == "" {
		return nil, fmt.Errorf("RAZORPAY_KEY_ID and RAZORPAY_KEY_SECRET are required")
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func splitList(v string) []string {
	if v == "" {
		return nil
	}
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
