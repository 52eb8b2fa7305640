package config

import (
	"flag"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port    string
	APIKey  string
	Model   string
	RPS     float64
	Burst   int
	Timeout time.Duration

	CacheSize int
	CacheTTL  time.Duration

	History HistoryConfig
}

type HistoryConfig struct {
	Path string

	// Object-store slot; used instead of Path when Endpoint is set.
	Endpoint  string
	Region    string
	AccessKey string
	SecretKey string
	Bucket    string
	Object    string
	UseSSL    bool
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	port := flag.String("port", ":8080", "server port")
	flag.Parse()

	if envPort := os.Getenv("PORT"); envPort != "" {
		if strings.HasPrefix(envPort, ":") {
			*port = envPort
		} else {
			*port = ":" + envPort
		}
	}

	model := strings.TrimSpace(os.Getenv("GEMINI_MODEL"))
	if model == "" {
		model = "gemini-2.0-flash-exp"
	}

	return &Config{
		Port:      *port,
		APIKey:    strings.TrimSpace(os.Getenv("GOOGLE_GEMINI_API_KEY")),
		Model:     model,
		RPS:       envFloat("LLM_RPS"),
		Burst:     envInt("LLM_BURST"),
		Timeout:   time.Duration(envInt("LLM_TIMEOUT_SECONDS")) * time.Second,
		CacheSize: envInt("RESULT_CACHE_SIZE"),
		CacheTTL:  time.Duration(envInt("RESULT_CACHE_TTL_SECONDS")) * time.Second,
		History:   loadHistoryConfig(),
	}, nil
}

func loadHistoryConfig() HistoryConfig {
	return HistoryConfig{
		Path:      firstNonEmpty(strings.TrimSpace(os.Getenv("HISTORY_PATH")), "data/history.json"),
		Endpoint:  strings.TrimSpace(os.Getenv("HISTORY_S3_ENDPOINT")),
		Region:    firstNonEmpty(strings.TrimSpace(os.Getenv("HISTORY_S3_REGION")), "us-east-1"),
		AccessKey: firstNonEmpty(strings.TrimSpace(os.Getenv("HISTORY_S3_ACCESS_KEY")), strings.TrimSpace(os.Getenv("MINIO_ROOT_USER"))),
		SecretKey: firstNonEmpty(strings.TrimSpace(os.Getenv("HISTORY_S3_SECRET_KEY")), strings.TrimSpace(os.Getenv("MINIO_ROOT_PASSWORD"))),
		Bucket:    firstNonEmpty(strings.TrimSpace(os.Getenv("HISTORY_S3_BUCKET")), "socialforge-history"),
		Object:    firstNonEmpty(strings.TrimSpace(os.Getenv("HISTORY_S3_OBJECT")), "history.json"),
		UseSSL:    envBool("HISTORY_S3_USE_SSL", true),
	}
}

func envFloat(key string) float64 {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return 0
	}
	f, _ := strconv.ParseFloat(v, 64)
	return f
}

func envInt(key string) int {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return 0
	}
	n, _ := strconv.Atoi(v)
	return n
}

func envBool(key string, def bool) bool {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return def
	}
	return v
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
