package semantic

import (
	"context"
	"errors"
	"sync"

	"golang.org/x/sync/singleflight"

	"github.com/spigell/applicant-matcher/internal/metrics"
	"github.com/spigell/applicant-matcher/internal/similarity"
)

type memoEntry struct {
	vector []float32
	err    error
}

// Memo deduplicates embedding lookups within one ranking batch.
// Concurrent callers asking for the same normalized text share a single upstream call.
// Provider failures are remembered for the rest of the batch; context errors are not,
// and a caller never inherits the context error of another caller it joined.
type Memo struct {
	inner   Embedder
	metrics *metrics.Metrics

	mu      sync.RWMutex
	entries map[string]memoEntry
	group   singleflight.Group
}

// NewMemo wraps inner. Create one per batch and drop it afterwards.
func NewMemo(inner Embedder, m *metrics.Metrics) *Memo {
	return &Memo{
		inner:   inner,
		metrics: m,
		entries: make(map[string]memoEntry),
	}
}

func (m *Memo) Embed(ctx context.Context, text string) ([]float32, error) {
	key := similarity.Normalize(text)

	if entry, ok := m.lookup(key); ok {
		m.metrics.ObserveLookup(metrics.LookupHit)
		return entry.vector, entry.err
	}

	for {
		// led is only written by the closure of the caller whose call actually runs.
		led := false
		ch := m.group.DoChan(key, func() (any, error) {
			led = true
			if entry, ok := m.lookup(key); ok {
				return entry.vector, entry.err
			}

			m.metrics.ObserveLookup(metrics.LookupMiss)
			vector, err := m.inner.Embed(ctx, key)
			if err == nil || !isContextError(err) {
				m.store(key, memoEntry{vector: vector, err: err})
			}
			return vector, err
		})

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case res := <-ch:
			// A joined call may fail on the leader's deadline. Ours is still alive, so try again.
			if res.Err != nil && !led && isContextError(res.Err) && ctx.Err() == nil {
				continue
			}
			vector, _ := res.Val.([]float32)
			return vector, res.Err
		}
	}
}

// Len reports the number of remembered texts.
func (m *Memo) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.entries)
}

func (m *Memo) lookup(key string) (memoEntry, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	entry, ok := m.entries[key]
	return entry, ok
}

func (m *Memo) store(key string, entry memoEntry) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[key] = entry
}

func isContextError(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}
