package storage

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"intern-match-go/internal/constants"

	"intern-match-go/internal/config"

	"github.com/redis/go-redis/extra/redisotel/v9"
	"github.com/redis/go-redis/v9"
)

// ErrNotFound is returned when a key is not found in Redis.
// It wraps the underlying redis.Nil error for abstraction.
var ErrNotFound = redis.Nil

// Redis wraps the Redis client
type Redis struct {
	Client *redis.Client
	config *config.RedisConfig
}

// NewRedisAdapter creates a new Redis client connection
func NewRedisAdapter(cfg *config.RedisConfig) (*Redis, error) {
	if cfg == nil {
		return nil, fmt.Errorf("redis config cannot be nil")
	}
	if cfg.Address == "" {
		return nil, fmt.Errorf("redis address is required")
	}

	opt := &redis.Options{
		Addr:     cfg.Address,
		Password: cfg.Password,
		DB:       cfg.DB,

		// 连接池设置
		PoolSize:     cfg.PoolSize,
		MinIdleConns: cfg.MinIdleConns,

		// 超时设置
		DialTimeout:  time.Duration(cfg.DialTimeoutSeconds) * time.Second,
		ReadTimeout:  time.Duration(cfg.ReadTimeoutSeconds) * time.Second,
		WriteTimeout: time.Duration(cfg.WriteTimeoutSeconds) * time.Second,

		// 重试设置
		MaxRetries:      cfg.MaxRetries,
		MinRetryBackoff: time.Duration(cfg.MinRetryBackoffMS) * time.Millisecond,
		MaxRetryBackoff: time.Duration(cfg.MaxRetryBackoffMS) * time.Millisecond,

		// 连接生命周期
		ConnMaxLifetime: time.Duration(cfg.ConnMaxLifetimeMinutes) * time.Minute,
		ConnMaxIdleTime: time.Duration(cfg.ConnMaxIdleTimeMinutes) * time.Minute,
	}

	client := redis.NewClient(opt)

	// 添加OpenTelemetry钩子, 记录所有Redis操作
	if err := redisotel.InstrumentTracing(client); err != nil {
		return nil, fmt.Errorf("failed to instrument Redis with OpenTelemetry: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if _, err := client.Ping(ctx).Result(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis at %s: %w", cfg.Address, err)
	}

	return &Redis{
		Client: client,
		config: cfg,
	}, nil
}

// Close closes the Redis client connection
func (r *Redis) Close() error {
	if r.Client != nil {
		return r.Client.Close()
	}
	return nil
}

// Ping checks the Redis connection
func (r *Redis) Ping(ctx context.Context) error {
	if r.Client == nil {
		return fmt.Errorf("redis client is not initialized")
	}
	return r.Client.Ping(ctx).Err()
}

// EmbeddingCacheTTL 返回配置的向量缓存过期时间
func (r *Redis) EmbeddingCacheTTL() time.Duration {
	hours := r.config.EmbeddingCacheExpireHours
	if hours <= 0 {
		return constants.DefaultEmbeddingCacheTTL
	}
	return time.Duration(hours) * time.Hour
}

// JobDedupTTL 返回已评估岗位去重记录的过期时间
func (r *Redis) JobDedupTTL() time.Duration {
	days := r.config.JobDedupExpireDays
	if days <= 0 {
		days = 30
	}
	return time.Duration(days) * 24 * time.Hour
}

// GetTextEmbedding 查询文本向量缓存，未命中返回 (nil, nil)
// 缓存按 provider+model 隔离，不同提供商的向量互不可见
func (r *Redis) GetTextEmbedding(ctx context.Context, provider, model, text string) ([]float64, error) {
	if r.Client == nil {
		return nil, fmt.Errorf("redis client is not initialized")
	}

	key := textEmbeddingKey(provider, model, text)
	raw, err := r.Client.Get(ctx, key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("查询向量缓存失败: %w", err)
	}

	var vector []float64
	if err := json.Unmarshal([]byte(raw), &vector); err != nil {
		// 缓存数据损坏：删掉这个key，按未命中处理
		r.Client.Del(ctx, key)
		return nil, nil
	}
	return vector, nil
}

// SetTextEmbedding 写入文本向量缓存
func (r *Redis) SetTextEmbedding(ctx context.Context, provider, model, text string, vector []float64) error {
	if r.Client == nil {
		return fmt.Errorf("redis client is not initialized")
	}
	if len(vector) == 0 {
		return nil
	}

	data, err := json.Marshal(vector)
	if err != nil {
		return fmt.Errorf("序列化向量失败: %w", err)
	}

	key := textEmbeddingKey(provider, model, text)
	if err := r.Client.Set(ctx, key, data, r.EmbeddingCacheTTL()).Err(); err != nil {
		return fmt.Errorf("写入向量缓存失败: %w", err)
	}
	return nil
}

// MarkJobEvaluated 标记岗位已评估，用于跨批次去重
// 岗位身份取 link 优先，link为空时取 title+company 的MD5
func (r *Redis) MarkJobEvaluated(ctx context.Context, jobIdentity string) error {
	if r.Client == nil {
		return fmt.Errorf("redis client is not initialized")
	}
	key := fmt.Sprintf(constants.KeyEvaluatedJobSet, MD5Hex(jobIdentity))
	return r.Client.Set(ctx, key, time.Now().Unix(), r.JobDedupTTL()).Err()
}

// IsJobEvaluated 检查岗位是否近期评估过
func (r *Redis) IsJobEvaluated(ctx context.Context, jobIdentity string) (bool, error) {
	if r.Client == nil {
		return false, fmt.Errorf("redis client is not initialized")
	}
	key := fmt.Sprintf(constants.KeyEvaluatedJobSet, MD5Hex(jobIdentity))
	count, err := r.Client.Exists(ctx, key).Result()
	if err != nil {
		return false, fmt.Errorf("查询岗位去重记录失败: %w", err)
	}
	return count > 0, nil
}

// CacheBatchReportKey 记录批次报告在对象存储中的键
func (r *Redis) CacheBatchReportKey(ctx context.Context, batchID, objectKey string, ttl time.Duration) error {
	if r.Client == nil {
		return fmt.Errorf("redis client is not initialized")
	}
	key := fmt.Sprintf(constants.KeyBatchReport, batchID)
	return r.Client.Set(ctx, key, objectKey, ttl).Err()
}

// GetBatchReportKey 查询批次报告对象键，未命中返回 ErrNotFound
func (r *Redis) GetBatchReportKey(ctx context.Context, batchID string) (string, error) {
	if r.Client == nil {
		return "", fmt.Errorf("redis client is not initialized")
	}
	key := fmt.Sprintf(constants.KeyBatchReport, batchID)
	return r.Client.Get(ctx, key).Result()
}

// textEmbeddingKey 拼接向量缓存key，文本部分用MD5避免超长key
func textEmbeddingKey(provider, model, text string) string {
	return fmt.Sprintf(constants.KeyTextEmbedding, provider, model, MD5Hex(text))
}

// MD5Hex 计算字符串的MD5十六进制摘要
func MD5Hex(s string) string {
	sum := md5.Sum([]byte(s))
	return hex.EncodeToString(sum[:])
}
