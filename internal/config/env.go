package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"

	"jobboard/internal/storage"
)

type Env struct {
	AppAddr  string
	GinMode  string
	LogLevel string

	DBDSN   string
	Migrate bool

	JWTSecret      string
	JWTTTLHours    int
	CORSOrigins    []string
	UploadDir      string
	ImportMaxBytes int64
	ImportPerMin   int

	Minio storage.MinioConfig
}

const defaultDSN = "root:@tcp(127.0.0.1:3306)/jobboard?parseTime=true&loc=UTC&charset=utf8mb4&timeout=5s&readTimeout=30s&writeTimeout=30s"

// LoadEnv reads .env (when present) then the process environment.
func LoadEnv() Env {
	_ = godotenv.Load()

	return Env{
		AppAddr:  getEnv("APP_ADDR", ":8080"),
		GinMode:  getEnv("GIN_MODE", ""),
		LogLevel: getEnv("LOG_LEVEL", "info"),

		DBDSN:   getEnv("DB_DSN", defaultDSN),
		Migrate: getEnvBool("DB_MIGRATE", true),

		JWTSecret:      getEnv("JWT_SECRET", "super-secret-key-change-me"),
		JWTTTLHours:    int(getEnvInt64("JWT_TTL_HOURS", 24)),
		CORSOrigins:    getEnvList("CORS_ALLOWED_ORIGINS", []string{"http://localhost:3000", "http://127.0.0.1:3000", "http://localhost:5173", "http://127.0.0.1:5173"}),
		UploadDir:      getEnv("UPLOAD_DIR", os.TempDir()+"/jobboard-uploads"),
		ImportMaxBytes: getEnvInt64("IMPORT_MAX_MB", 5) << 20,
		ImportPerMin:   int(getEnvInt64("IMPORT_RATE_PER_MIN", 6)),

		Minio: storage.MinioConfig{
			Endpoint:  getEnv("MINIO_ENDPOINT", ""),
			AccessKey: getEnv("MINIO_ACCESS_KEY", ""),
			SecretKey: getEnv("MINIO_SECRET_KEY", ""),
			Bucket:    getEnv("MINIO_BUCKET", "jobboard-imports"),
			UseSSL:    getEnvBool("MINIO_USE_SSL", false),
		},
	}
}

func getEnv(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

func getEnvInt64(key string, def int64) int64 {
	v, err := strconv.ParseInt(strings.TrimSpace(os.Getenv(key)), 10, 64)
	if err != nil || v <= 0 {
		return def
	}
	return v
}

func getEnvBool(key string, def bool) bool {
	v, err := strconv.ParseBool(strings.TrimSpace(os.Getenv(key)))
	if err != nil {
		return def
	}
	return v
}

func getEnvList(key string, def []string) []string {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def
	}
	out := []string{}
	for _, p := range strings.Split(raw, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
