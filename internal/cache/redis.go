package cache

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// redisClient 多了啟動檢查用的 Ping
type redisClient interface {
	Cache
	Ping(ctx context.Context) *redis.StatusCmd
}

const dialTimeout = 5 * time.Second

// 測試覆寫以免真的連線
var redisNewClient = func(opt *redis.Options) redisClient {
	return redis.NewClient(opt)
}

// NewRedisClient 連上 REDIS_ADDR 指定的 Redis，dialTimeout 內 Ping 不通就關閉 client 並回傳錯誤
// 只在設定了 REDIS_ADDR 時由 run() 呼叫；未設定時整個服務不使用快取
func NewRedisClient(addr string, password string, db int) (Cache, error) {
	client := redisNewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), dialTimeout)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, err
	}
	return client, nil
}
