package services

import (
	"context"

	"github.com/ascaixa/treasury-backend/internal/core/domain"
)

// DataSvc exposes store-wide maintenance operations.
type DataSvc interface {
	// Stats counts both collections in parallel.
	Stats(ctx context.Context) (*domain.StoreStats, error)

	// Export returns the full unfiltered ledger for dumping.
	Export(ctx context.Context) ([]domain.Transaction, error)
}
