package transcribe

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/redis/go-redis/v9"
)

const cacheTTL = 7 * 24 * time.Hour

// Cache keeps finished transcripts keyed by the platform's file unique
// id, so a re-sent or forwarded clip skips the backend call. Cache
// failures are logged and ignored; transcription never depends on
// Redis being up.
type Cache struct {
	rdb *redis.Client
}

func NewCache(addr string) *Cache {
	return &Cache{rdb: redis.NewClient(&redis.Options{Addr: addr})}
}

func (c *Cache) Get(ctx context.Context, fileUniqueID string) (string, bool) {
	if c == nil {
		return "", false
	}
	text, err := c.rdb.Get(ctx, "transcript:"+fileUniqueID).Result()
	if errors.Is(err, redis.Nil) {
		return "", false
	}
	if err != nil {
		log.Printf("transcript cache get %s: %v", fileUniqueID, err)
		return "", false
	}
	return text, true
}

func (c *Cache) Set(ctx context.Context, fileUniqueID, text string) {
	if c == nil {
		return
	}
	if err := c.rdb.Set(ctx, "transcript:"+fileUniqueID, text, cacheTTL).Err(); err != nil {
		log.Printf("transcript cache set %s: %v", fileUniqueID, err)
	}
}
