package sequence

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestGenerator(t *testing.T) (*Generator, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	return NewGenerator(rdb), mr
}

func TestNextIDLayout(t *testing.T) {
	g, mr := newTestGenerator(t)

	fixed := time.Date(2026, 3, 15, 10, 0, 0, 0, time.UTC)
	g.now = func() time.Time { return fixed }

	id, err := g.NextID(context.Background(), "order")
	require.NoError(t, err)

	ts := fixed.Unix() - epoch
	assert.Equal(t, ts<<bits|1, id)

	// The counter lives under a per-namespace, per-day key.
	assert.True(t, mr.Exists("icr:order:2026:03:15"))
}

func TestNextIDStrictlyIncreasing(t *testing.T) {
	g, _ := newTestGenerator(t)

	fixed := time.Date(2026, 3, 15, 10, 0, 0, 0, time.UTC)
	g.now = func() time.Time { return fixed }

	prev, err := g.NextID(context.Background(), "order")
	require.NoError(t, err)

	for i := 0; i < 100; i++ {
		id, err := g.NextID(context.Background(), "order")
		require.NoError(t, err)
		assert.Greater(t, id, prev)
		prev = id
	}
}

func TestNextIDUniqueUnderConcurrency(t *testing.T) {
	g, _ := newTestGenerator(t)

	const workers = 8
	const perWorker = 50

	var mu sync.Mutex
	seen := make(map[int64]bool, workers*perWorker)

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < perWorker; j++ {
				id, err := g.NextID(context.Background(), "order")
				assert.NoError(t, err)

				mu.Lock()
				assert.False(t, seen[id], "duplicate id %d", id)
				seen[id] = true
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Len(t, seen, workers*perWorker)
}

func TestNextIDNamespacesIndependent(t *testing.T) {
	g, _ := newTestGenerator(t)

	fixed := time.Date(2026, 3, 15, 10, 0, 0, 0, time.UTC)
	g.now = func() time.Time { return fixed }

	a, err := g.NextID(context.Background(), "order")
	require.NoError(t, err)
	b, err := g.NextID(context.Background(), "refund")
	require.NoError(t, err)

	// Both namespaces start their own counter at 1.
	assert.Equal(t, a, b)
}

func TestNextIDStoreDown(t *testing.T) {
	g, mr := newTestGenerator(t)
	mr.Close()

	_, err := g.NextID(context.Background(), "order")
	assert.ErrorIs(t, err, ErrUnavailable)
}
