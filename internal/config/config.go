// Package config 從環境變數（可選 .env）載入服務設定
package config

import (
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	_ "github.com/joho/godotenv/autoload" // 若存在 .env 先載入到環境變數
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/v2"
)

// Config 對應環境變數，例如 DATABASE_URL -> database_url
type Config struct {
	DatabaseURL        string        `koanf:"database_url" validate:"required"`
	HTTPAddr           string        `koanf:"http_addr" validate:"required"`
	LogLevel           string        `koanf:"log_level" validate:"oneof=trace debug info warn error"`
	LogPretty          bool          `koanf:"log_pretty"`
	DBStatementTimeout time.Duration `koanf:"db_statement_timeout" validate:"min=0"`
	// 開發用：啟動時先退回所有 migration 再重新建立
	DBResetOnStart     bool          `koanf:"db_reset_on_start"`
	ServerReadTimeout  time.Duration `koanf:"server_read_timeout" validate:"min=0"`
	ServerWriteTimeout time.Duration `koanf:"server_write_timeout" validate:"min=0"`

	// REDIS_ADDR 為空時停用快取
	RedisAddr     string        `koanf:"redis_addr"`
	RedisPassword string        `koanf:"redis_password"`
	RedisDB       int           `koanf:"redis_db" validate:"min=0"`
	CacheTTL      time.Duration `koanf:"cache_ttl" validate:"min=0"`
	WorkerCount   int           `koanf:"worker_count" validate:"min=1"`

	CORSAllowOrigins     []string `koanf:"cors_allow_origins" validate:"min=1"`
	CORSAllowCredentials bool     `koanf:"cors_allow_credentials"`
}

// Default 回傳除了 DATABASE_URL 以外的預設值
func Default() Config {
	return Config{
		HTTPAddr:             ":8080",
		LogLevel:             "info",
		DBStatementTimeout:   5 * time.Second,
		ServerReadTimeout:    10 * time.Second,
		ServerWriteTimeout:   10 * time.Second,
		CacheTTL:             30 * time.Second,
		WorkerCount:          1,
		CORSAllowOrigins:     []string{"*"},
		CORSAllowCredentials: true,
	}
}

// CacheEnabled 是否設定了 Redis
func (c Config) CacheEnabled() bool {
	return c.RedisAddr != ""
}

// 以逗號分隔的清單型設定
var listKeys = map[string]bool{
	"cors_allow_origins": true,
}

// knownKeys 收集 Config 的 koanf tag，只讀取這些環境變數
func knownKeys() map[string]bool {
	keys := map[string]bool{}
	t := reflect.TypeOf(Config{})
	for i := 0; i < t.NumField(); i++ {
		if tag := t.Field(i).Tag.Get("koanf"); tag != "" {
			keys[tag] = true
		}
	}
	return keys
}

// envValue 將環境變數對應到 koanf key；未知的變數回傳空 key 以略過
func envValue(known map[string]bool) func(key, value string) (string, interface{}) {
	return func(key, value string) (string, interface{}) {
		key = strings.ToLower(key)
		if !known[key] {
			return "", nil
		}
		if listKeys[key] {
			return key, splitList(value)
		}
		return key, value
	}
}

func splitList(value string) []string {
	out := []string{}
	for _, v := range strings.Split(value, ",") {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}

// Load 讀取環境變數並驗證，缺少 DATABASE_URL 時直接失敗
func Load() (*Config, error) {
	k := koanf.New(".")
	if err := k.Load(env.ProviderWithValue("", ".", envValue(knownKeys())), nil); err != nil {
		return nil, fmt.Errorf("load env: %w", err)
	}

	cfg := Default()
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := validator.New().Struct(&cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return &cfg, nil
}
