// 包 utils：外部连接（PostgreSQL / Redis）的环境变量装配
package utils

import (
	"os"
	"strconv"

	"agrimap/internal/logger"

	"github.com/redis/go-redis/v9"
)

// OpenRedisFromEnv：REDIS_HOST 未设置时返回 nil，调用方据此关闭载荷缓存
// 约束：REDIS_DB 解析失败回退到 0
func OpenRedisFromEnv() *redis.Client {
	host := os.Getenv("REDIS_HOST")
	if host == "" {
		return nil
	}
	addr := host + ":" + envOr("REDIS_PORT", "6379")
	db := 0
	if n, err := strconv.Atoi(os.Getenv("REDIS_DB")); err == nil && n >= 0 {
		db = n
	}
	logger.L().Debug("redis_env", "addr", addr, "db", db)
	return redis.NewClient(&redis.Options{Addr: addr, Password: os.Getenv("REDIS_PASS"), DB: db})
}
