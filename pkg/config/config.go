package config

import (
	"log"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config is the process-wide configuration, constructed once at startup and
// passed explicitly to the components that need it.
type Config struct {
	Port                    string
	Env                     string
	MongoURI                string
	MongoDatabase           string
	RedisAddr               string
	JWTSecret               string
	JWTExpires              time.Duration
	CookieLifetime          time.Duration
	FirebaseCredentialsPath string
	StorageBucket           string
	AllowedOrigins          []string
}

func Load() *Config {
	// Load environment variables from .env file
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, assuming environment variables are set.")
	}

	return &Config{
		Port:                    getEnv("PORT", "8080"),
		Env:                     getEnv("ENV", "development"),
		MongoURI:                getEnv("MONGO_URI", ""),
		MongoDatabase:           getEnv("MONGO_DATABASE", "threads"),
		RedisAddr:               getEnv("REDIS_ADDR", ""),
		JWTSecret:               getEnv("JWT_SECRET_KEY", "supersecretjwtkey"),
		JWTExpires:              getDurationEnv("JWT_EXPIRES", 72*time.Hour),
		CookieLifetime:          90 * 24 * time.Hour,
		FirebaseCredentialsPath: getEnv("FIREBASE_CREDENTIALS_PATH", "./firebase_credentials.json"),
		StorageBucket:           getEnv("STORAGE_BUCKET", ""),
		AllowedOrigins:          strings.Split(getEnv("ALLOWED_ORIGINS", "http://localhost:8081"), ","),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
		log.Printf("Invalid duration for %s, using default %s", key, defaultValue)
	}
	return defaultValue
}
