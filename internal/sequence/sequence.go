package sequence

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// ErrUnavailable is returned when the counter store cannot be reached.
// Callers must fail the current operation rather than substitute a local
// fallback: a wall-clock number would reintroduce collision risk.
var ErrUnavailable = errors.New("sequence counter store unavailable")

// Counters reset daily, so ids stay legible; the epoch anchors the time
// component so the high bits keep increasing across days.
const (
	epoch     = 1640995200 // 2022-01-01T00:00:00Z
	keyFormat = "2006:01:02"
	bits      = 32
)

// Generator mints unique, strictly increasing int64 identifiers per
// namespace. The low 32 bits come from an atomic Redis INCR on a per-day key,
// the high bits from seconds since the epoch. Uniqueness and ordering derive
// solely from the INCR; the time component only keeps numbers human-legible.
type Generator struct {
	rdb redis.Cmdable
	now func() time.Time
}

func NewGenerator(rdb redis.Cmdable) *Generator {
	return &Generator{
		rdb: rdb,
		now: time.Now,
	}
}

// NextID returns a value strictly greater than every previously returned
// value for the same namespace, across all concurrent callers and process
// instances sharing the counter store.
func (g *Generator) NextID(ctx context.Context, namespace string) (int64, error) {
	now := g.now().UTC()

	key := fmt.Sprintf("icr:%s:%s", namespace, now.Format(keyFormat))
	count, err := g.rdb.Incr(ctx, key).Result()
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	ts := now.Unix() - epoch

	return ts<<bits | count, nil
}
