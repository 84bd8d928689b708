package redis

import (
	"context"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"sales-estimation/backend/config"
)

// Client Redis クライアントのラッパー
// 現在はログアウト済みセッションのブラックリストに使用する。
type Client struct {
	rdb    *goredis.Client
	logger *zap.Logger
}

// NewClient Redis へ接続し Ping でヘルスチェックする
func NewClient(cfg *config.RedisConfig, logger *zap.Logger) (*Client, error) {
	rdb := goredis.NewClient(&goredis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("Redis 接続に失敗: %w", err)
	}

	logger.Info("Redis 接続に成功", zap.String("addr", cfg.Addr))

	return &Client{rdb: rdb, logger: logger}, nil
}

// ── セッションブラックリスト ──

const blacklistPrefix = "session:blacklist:"

// BlacklistSession セッション ID をブラックリストに登録する
// TTL はトークンの残り有効期間と揃える。
func (c *Client) BlacklistSession(ctx context.Context, jti string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil // すでに期限切れのトークンは登録不要
	}
	return c.rdb.Set(ctx, blacklistPrefix+jti, "1", ttl).Err()
}

// IsBlacklisted セッション ID がブラックリストに含まれるかを返す
func (c *Client) IsBlacklisted(ctx context.Context, jti string) (bool, error) {
	n, err := c.rdb.Exists(ctx, blacklistPrefix+jti).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// Close 接続を閉じる
func (c *Client) Close() error {
	return c.rdb.Close()
}
