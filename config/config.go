package config

import (
	"os"
	"strconv"
)

// Config carries everything main needs to wire the app. All values come
// from the environment (godotenv loads .env first); sensible defaults
// keep a bare `go run .` working with the file store.
type Config struct {
	Port string

	// Store selection: memory | file | sqlite | redis | mongo.
	StoreDriver string
	StorePath   string
	SQLitePath  string
	RedisAddr   string
	RedisPass   string
	RedisDB     int
	MongoURI    string
	MongoDB     string

	JWTSecret string

	// Optional S3 export backup.
	S3Bucket      string
	S3Region      string
	S3AccessKeyID string
	S3SecretKey   string

	// Optional SMTP delivery of reset tokens.
	SMTPHost string
	SMTPPort int
	SMTPUser string
	SMTPPass string
	SMTPFrom string
}

// Load reads the configuration from the environment.
func Load() (*Config, error) {
	return &Config{
		Port: getEnv("PORT", "8080"),

		StoreDriver: getEnv("STORE_DRIVER", "file"),
		StorePath:   getEnv("STORE_PATH", "readshelf.json"),
		SQLitePath:  getEnv("SQLITE_PATH", "readshelf.db"),
		RedisAddr:   getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPass:   getEnv("REDIS_PASSWORD", ""),
		RedisDB:     getEnvInt("REDIS_DB", 0),
		MongoURI:    getEnv("MONGODB_URI", "mongodb://localhost:27017"),
		MongoDB:     getEnv("MONGODB_DB", "readshelf"),

		JWTSecret: getEnv("JWT_SECRET", "change-me-in-production"),

		S3Bucket:      getEnv("AWS_S3_BUCKET", ""),
		S3Region:      getEnv("AWS_REGION", "us-east-1"),
		S3AccessKeyID: getEnv("AWS_ACCESS_KEY_ID", ""),
		S3SecretKey:   getEnv("AWS_SECRET_ACCESS_KEY", ""),

		SMTPHost: getEnv("SMTP_HOST", ""),
		SMTPPort: getEnvInt("SMTP_PORT", 587),
		SMTPUser: getEnv("SMTP_USER", ""),
		SMTPPass: getEnv("SMTP_PASSWORD", ""),
		SMTPFrom: getEnv("SMTP_FROM", ""),
	}, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}
