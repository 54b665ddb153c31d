// Package notify subscribes to the best-effort chunk-report channel a
// Bucket publishes to (internal/bucket/notify) and logs what it sees. It is
// deliberately not wired into ReportChunkUploaded: the client-issued RPC
// remains the only state transition that counts a chunk as uploaded, so a
// dropped or delayed pub/sub message can never desynchronize an upload
// session.
package notify

import (
	"context"
	"encoding/json"

	"github.com/AntonioVentilii/vault-core/internal/bucket/notify"
	"github.com/AntonioVentilii/vault-core/internal/logger"
	"github.com/redis/go-redis/v9"
)

// Subscriber consumes chunk-report messages from Redis for observability.
type Subscriber struct {
	client *redis.Client
}

// NewSubscriber constructs a Subscriber.
func NewSubscriber(client *redis.Client) *Subscriber {
	return &Subscriber{client: client}
}

// Run blocks, logging each chunk report it receives, until ctx is canceled.
func (s *Subscriber) Run(ctx context.Context) error {
	pubsub := s.client.Subscribe(ctx, notify.Channel)
	defer func() { _ = pubsub.Close() }()

	log := logger.FromContext(ctx)
	ch := pubsub.Channel()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case msg, ok := <-ch:
			if !ok {
				return nil
			}
			var report notify.ChunkReport
			if err := json.Unmarshal([]byte(msg.Payload), &report); err != nil {
				log.Warn("chunk report: malformed payload", "error", err)
				continue
			}
			log.Debug("chunk report received", "upload_id", report.UploadID, "chunk_index", report.ChunkIndex)
		}
	}
}
