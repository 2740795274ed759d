package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	SessionStoreMemory   = "memory"
	SessionStorePostgres = "postgres"
	SessionStoreRedis    = "redis"
)

// Configはアプリ全体の設定
type Config struct {
	Port string // BFFのポート（8080）

	APIBaseURL string        // 外部REST APIのベースURL
	APITimeout time.Duration // 1リクエストのタイムアウト

	SessionStore string        // memory / postgres / redis
	DatabaseURL  string        // postgres用（空なら POSTGRES_* から組み立てる）
	RedisAddr    string        // redis用
	RedisDB      int           // redis用
	SessionTTL   time.Duration // redisのキー寿命
	IdleTTL      time.Duration // 使われていない端末をメモリから外すまで（0で外さない）

	NoticeTTL time.Duration // 管理画面メッセージの自動消去（4秒）

	LogLevel     string // debug / info / warn / error
	GoEnv        string // dev/prod
	CookieSecure bool   // sid cookie に Secure を付けるか
}

// Loadは環境変数（.envがあれば先に読む）
func Load() (Config, error) {
	_ = godotenv.Load()

	apiTimeout, err := getEnvDuration("API_TIMEOUT", 15*time.Second)
	if err != nil {
		return Config{}, err
	}
	sessionTTL, err := getEnvDuration("SESSION_TTL", 30*24*time.Hour)
	if err != nil {
		return Config{}, err
	}
	idleTTL, err := getEnvDuration("SESSION_IDLE_TTL", 30*time.Minute)
	if err != nil {
		return Config{}, err
	}
	noticeTTL, err := getEnvDuration("NOTICE_TTL", 4*time.Second)
	if err != nil {
		return Config{}, err
	}
	redisDB, err := getEnvInt("REDIS_DB", 0)
	if err != nil {
		return Config{}, err
	}

	cfg := Config{
		Port: getEnv("PORT", "8080"),

		APIBaseURL: strings.TrimRight(getEnv("API_BASE_URL", "http://localhost:8081/api/v1"), "/"),
		APITimeout: apiTimeout,

		SessionStore: strings.ToLower(getEnv("SESSION_STORE", SessionStoreMemory)),
		DatabaseURL:  os.Getenv("DATABASE_URL"),
		RedisAddr:    os.Getenv("REDIS_ADDR"),
		RedisDB:      redisDB,
		SessionTTL:   sessionTTL,
		IdleTTL:      idleTTL,

		NoticeTTL: noticeTTL,

		LogLevel:     getEnv("LOG_LEVEL", "info"),
		GoEnv:        getEnv("GO_ENV", "dev"),
		CookieSecure: getEnv("COOKIE_SECURE", "false") == "true",
	}

	//必須チェック
	switch cfg.SessionStore {
	case SessionStoreMemory, SessionStorePostgres:
	case SessionStoreRedis:
		if cfg.RedisAddr == "" {
			return Config{}, fmt.Errorf("REDIS_ADDR is required when SESSION_STORE=redis")
		}
	default:
		return Config{}, fmt.Errorf("SESSION_STORE must be one of memory, postgres, redis: %q", cfg.SessionStore)
	}
	if !strings.HasPrefix(cfg.APIBaseURL, "http://") && !strings.HasPrefix(cfg.APIBaseURL, "https://") {
		return Config{}, fmt.Errorf("API_BASE_URL must be an http(s) URL: %q", cfg.APIBaseURL)
	}

	return cfg, nil
}

func getEnv(key string, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvInt(key string, def int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s must be number: %w", key, err)
	}
	return i, nil
}

func getEnvDuration(key string, def time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("%s must be duration: %w", key, err)
	}
	return d, nil
}
