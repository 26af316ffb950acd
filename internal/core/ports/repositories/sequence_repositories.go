package repositories

import (
	"context"

	"github.com/SscSPs/bizledger/internal/core/domain"
)

// SequenceRepository stores one counter row per (workplace, document type, period).
type SequenceRepository interface {
	SequenceExists(ctx context.Context, key domain.SequenceKey) (bool, error)

	// SeedSequence creates the counter with lastValue unless it already exists.
	SeedSequence(ctx context.Context, key domain.SequenceKey, lastValue int64) error

	// NextSequenceValue atomically increments the counter (creating it at 1) and returns the new value.
	NextSequenceValue(ctx context.Context, key domain.SequenceKey) (int64, error)
}
