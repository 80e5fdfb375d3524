package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"opsadmin/common/config"

	"github.com/redis/go-redis/v9"
)

var client *redis.Client

// ErrNil 键不存在
var ErrNil = redis.Nil

// Init 初始化Redis连接
func Init(ctx context.Context, cfg *config.RedisConfig) error {
	client = redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	// 测试连接
	return client.Ping(ctx).Err()
}

// GetClient 获取Redis客户端，未初始化时返回 nil
func GetClient() *redis.Client {
	return client
}

// SetClient 设置Redis客户端（测试使用）
func SetClient(c *redis.Client) {
	client = c
}

// Close 关闭Redis连接
func Close() error {
	if client != nil {
		return client.Close()
	}
	return nil
}

// URL 构建 redis://:password@host:port/db 形式的连接串
func URL(cfg *config.RedisConfig) string {
	if cfg.Password != "" {
		return fmt.Sprintf("redis://:%s@%s:%d/%d", cfg.Password, cfg.Host, cfg.Port, cfg.DB)
	}
	return fmt.Sprintf("redis://%s:%d/%d", cfg.Host, cfg.Port, cfg.DB)
}

// Set 设置键值
func Set(ctx context.Context, key string, value any, expiration time.Duration) error {
	if client == nil {
		return errors.New("redis 未初始化")
	}
	return client.Set(ctx, key, value, expiration).Err()
}

// Get 获取值
func Get(ctx context.Context, key string) (string, error) {
	if client == nil {
		return "", errors.New("redis 未初始化")
	}
	return client.Get(ctx, key).Result()
}

// Del 删除键
func Del(ctx context.Context, keys ...string) error {
	if client == nil {
		return errors.New("redis 未初始化")
	}
	return client.Del(ctx, keys...).Err()
}
