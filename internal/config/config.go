package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/harentsoaR/tienda-ropa/internal/models"
)

type Mongo struct {
	URI            string
	Database       string
	ConnectTimeout time.Duration
}

type API struct {
	Port           string
	AllowedOrigins []string
	JWTSecret      string
}

type Redis struct {
	Addr     string
	CacheTTL time.Duration
}

type Config struct {
	LogMode string
	Mongo   Mongo
	API     API
	Redis   Redis
}

// LoadDotEnv reads .env into the process environment. It reports whether a
// file was found; a missing file is not an error.
func LoadDotEnv(filenames ...string) bool {
	return godotenv.Load(filenames...) == nil
}

// Load reads the configuration from the environment. Call LoadDotEnv first
// if a .env file should be honoured.
func Load() Config {
	uri := os.Getenv("MONGODB_URI")
	if uri == "" {
		uri = os.Getenv("MONGO_URI")
	}
	return Config{
		LogMode: getEnv("LOG_MODE", "dev"),
		Mongo: Mongo{
			URI:            uri,
			Database:       getEnv("MONGO_DATABASE", models.DefaultDatabase),
			ConnectTimeout: time.Duration(getEnvAsInt("MONGO_CONNECT_TIMEOUT", 10)) * time.Second,
		},
		API: API{
			Port:           getEnv("API_PORT", "8080"),
			AllowedOrigins: splitList(getEnv("ALLOWED_ORIGINS", "http://localhost:3000")),
			JWTSecret:      os.Getenv("JWT_SECRET"),
		},
		Redis: Redis{
			Addr:     os.Getenv("REDIS_ADDR"),
			CacheTTL: time.Duration(getEnvAsInt("REPORT_CACHE_TTL", 60)) * time.Second,
		},
	}
}

func getEnv(name, def string) string {
	if v := strings.TrimSpace(os.Getenv(name)); v != "" {
		return v
	}
	return def
}

func getEnvAsInt(name string, def int) int {
	v := strings.TrimSpace(os.Getenv(name))
	if v == "" {
		return def
	}
	i, err := strconv.Atoi(v)
	if err != nil || i < 0 {
		return def
	}
	return i
}

func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
