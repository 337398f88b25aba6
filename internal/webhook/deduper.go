package webhook

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
)

// ErrDedupStoreUnavailable is returned under the fail-closed policy when
// the membership store cannot be reached.
var ErrDedupStoreUnavailable = errors.New("dedup store unavailable")

// DedupStore records processed deliveries. MarkSeen must be an atomic
// insert-if-absent: a separate check followed by a separate set would race
// under concurrent redelivery.
type DedupStore interface {
	// MarkSeen returns true iff (source, eventID) was not seen before.
	MarkSeen(ctx context.Context, source Source, eventID string) (bool, error)
}

// Policy decides what happens when the dedup store itself is unreachable.
// The provider material leaves this open, so it is an explicit integrator
// choice rather than a built-in default.
type Policy string

const (
	// FailClosed rejects the delivery with a retryable error; the
	// provider's retry loop redelivers once the store is back.
	FailClosed Policy = "fail_closed"
	// FailOpen processes the delivery anyway and logs a warning,
	// accepting a rare double-process in exchange for availability.
	FailOpen Policy = "fail_open"
)

// ParsePolicy validates a policy string from configuration.
func ParsePolicy(s string) (Policy, error) {
	switch Policy(s) {
	case FailClosed, FailOpen:
		return Policy(s), nil
	default:
		return "", fmt.Errorf("unknown dedup policy %q", s)
	}
}

// Deduper applies the outage policy on top of a DedupStore.
type Deduper struct {
	store  DedupStore
	policy Policy
}

func NewDeduper(store DedupStore, policy Policy) *Deduper {
	return &Deduper{store: store, policy: policy}
}

// FirstSeen reports whether this delivery is the first with its ID.
// Concurrent calls with the same ID yield exactly one true.
func (d *Deduper) FirstSeen(ctx context.Context, source Source, eventID string) (bool, error) {
	isNew, err := d.store.MarkSeen(ctx, source, eventID)
	if err != nil {
		if d.policy == FailOpen {
			slog.WarnContext(ctx, "dedup store error, processing anyway (fail-open)",
				"source", source,
				"event_id", eventID,
				slog.Any("error", err))
			return true, nil
		}
		return false, fmt.Errorf("%w: %w", ErrDedupStoreUnavailable, err)
	}
	return isNew, nil
}

// MemoryStore is an in-process DedupStore for tests and local runs.
type MemoryStore struct {
	mu   sync.Mutex
	seen map[string]struct{}
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{seen: make(map[string]struct{})}
}

func (s *MemoryStore) MarkSeen(_ context.Context, source Source, eventID string) (bool, error) {
	key := string(source) + ":" + eventID

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.seen[key]; ok {
		return false, nil
	}
	s.seen[key] = struct{}{}
	return true, nil
}
