package dedup

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"course-nudge/internal/ports"
)

// Marker records already-nudged (course, user) pairs in Redis so a re-run of
// the same day window does not emit duplicate events. Entries expire after
// the retention window.
type Marker struct {
	client    *redis.Client
	retention time.Duration
}

var _ ports.NudgeMarker = (*Marker)(nil)

// NewMarker wires a Redis client with the given retention window.
func NewMarker(client *redis.Client, retention time.Duration) *Marker {
	if retention <= 0 {
		retention = 7 * 24 * time.Hour
	}
	return &Marker{client: client, retention: retention}
}

func key(courseKey string, userID int64) string {
	return fmt.Sprintf("nudge:%s:%d", courseKey, userID)
}

// AlreadyNudged reports whether the pair was marked inside the retention window.
func (m *Marker) AlreadyNudged(ctx context.Context, courseKey string, userID int64) (bool, error) {
	n, err := m.client.Exists(ctx, key(courseKey, userID)).Result()
	if err != nil {
		return false, fmt.Errorf("check nudge marker: %w", err)
	}
	return n > 0, nil
}

// MarkNudged records the pair with the configured expiry.
func (m *Marker) MarkNudged(ctx context.Context, courseKey string, userID int64) error {
	if err := m.client.SetNX(ctx, key(courseKey, userID), 1, m.retention).Err(); err != nil {
		return fmt.Errorf("set nudge marker: %w", err)
	}
	return nil
}
