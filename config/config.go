package config

import (
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	ImageStoreGridFS = "gridfs"
	ImageStoreS3     = "s3"
)

type Config struct {
	MongoURI      string
	DBName        string
	JWTKey        string
	JWTTTL        time.Duration
	Port          string
	RedisAddr     string
	RedisPassword string
	CacheTTL      time.Duration
	// RequestTimeout bounds reading a whole request and writing its response.
	// It has to cover a full multipart upload of listing images.
	RequestTimeout time.Duration
	ImageStore     string
	BucketName     string
	PublicBaseURL  string
	CORSOrigins    []string
}

func LoadEnv() {
	if err := godotenv.Load(); err != nil {
		log.Printf("Error loading .env file: %v", err)
	}
}

// Load reads configuration from the environment. A missing database URI or
// signing key is an error.
func Load() (*Config, error) {
	cfg := &Config{
		MongoURI:      os.Getenv("MONGOURI"),
		DBName:        getEnvOrDefault("DB", "rishstay"),
		JWTKey:        os.Getenv("JWT_KEY"),
		Port:          getEnvOrDefault("PORT", "8080"),
		RedisAddr:     os.Getenv("REDIS_ADD"),
		RedisPassword: os.Getenv("REDIS_PASS"),
		ImageStore:    strings.ToLower(getEnvOrDefault("IMAGE_STORE", ImageStoreGridFS)),
		BucketName:    os.Getenv("BUCKET_NAME"),
		PublicBaseURL: os.Getenv("PUBLIC_BASE_URL"),
		CORSOrigins:   splitList(getEnvOrDefault("CORS_ORIGINS", "*")),
	}

	if cfg.MongoURI == "" {
		return nil, fmt.Errorf("MONGOURI not set in environment")
	}
	if cfg.JWTKey == "" {
		return nil, fmt.Errorf("JWT_KEY not set in environment")
	}

	var err error
	if cfg.JWTTTL, err = parseDuration("JWT_TTL", 72*time.Hour); err != nil {
		return nil, err
	}
	if cfg.CacheTTL, err = parseDuration("CACHE_TTL", 10*time.Minute); err != nil {
		return nil, err
	}
	if cfg.RequestTimeout, err = parseDuration("REQUEST_TIMEOUT", 2*time.Minute); err != nil {
		return nil, err
	}
	if cfg.RequestTimeout <= 0 {
		return nil, fmt.Errorf("REQUEST_TIMEOUT must be positive")
	}

	switch cfg.ImageStore {
	case ImageStoreGridFS:
	case ImageStoreS3:
		if cfg.BucketName == "" {
			return nil, fmt.Errorf("BUCKET_NAME is required when IMAGE_STORE=s3")
		}
	default:
		return nil, fmt.Errorf("unknown IMAGE_STORE %q", cfg.ImageStore)
	}

	return cfg, nil
}

func getEnvOrDefault(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func parseDuration(key string, def time.Duration) (time.Duration, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return def, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, raw, err)
	}
	return d, nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
