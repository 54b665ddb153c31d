// Package notify carries the Bucket service's best-effort
// report_chunk_uploaded notification to the Directory that issued the
// token, over Redis pub/sub rather than a direct synchronous RPC so a
// notification failure never blocks the put_chunk response that already
// succeeded.
package notify

import (
	"context"
	"encoding/json"

	"github.com/redis/go-redis/v9"
)

// Channel is the Redis pub/sub channel chunk-upload reports are published
// on. One channel serves every bucket; subscribers filter by DirectoryID.
const Channel = "vault:chunk-reports"

// ChunkReport is the payload a Bucket publishes after a successful
// put_chunk, identifying which Directory and session the chunk belongs to.
type ChunkReport struct {
	DirectoryID string `json:"directory_id"` // hex-encoded principal
	UploadID    string `json:"upload_id"`    // hex-encoded 16 bytes
	ChunkIndex  uint32 `json:"chunk_index"`
}

// Publisher sends a ChunkReport. Failures are the caller's to log and
// swallow; the protocol requires the notification never blocks or fails the
// RPC that triggered it.
type Publisher interface {
	Publish(ctx context.Context, report ChunkReport) error
}

// RedisPublisher is the production Publisher, backed by a go-redis client
// already connected and pinged by the caller.
type RedisPublisher struct {
	client *redis.Client
}

// NewRedisPublisher wraps an existing Redis client.
func NewRedisPublisher(client *redis.Client) *RedisPublisher {
	return &RedisPublisher{client: client}
}

func (p *RedisPublisher) Publish(ctx context.Context, report ChunkReport) error {
	payload, err := json.Marshal(report)
	if err != nil {
		return err
	}
	return p.client.Publish(ctx, Channel, payload).Err()
}

// NoopPublisher discards every report. Used when a Bucket runs without a
// Redis dependency (tests, single-node demos); put_chunk still succeeds
// since the notification is best-effort and report_chunk_uploaded remains
// reachable directly from the client.
type NoopPublisher struct{}

func (NoopPublisher) Publish(context.Context, ChunkReport) error { return nil }
