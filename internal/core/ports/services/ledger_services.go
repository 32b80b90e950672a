package services

import (
	"context"

	"github.com/ascaixa/treasury-backend/internal/core/domain"
)

// LedgerSvc exposes the unified ledger: both collections merged into one
// chronologically ordered, filtered, pageable sequence.
type LedgerSvc interface {
	// List returns one stable page of the merged ledger. Pages past the end
	// yield empty data with truthful meta; they are not an error.
	List(ctx context.Context, filter domain.TransactionFilter, page, limit int) (*domain.TransactionPage, error)

	// Merged returns the full filtered ledger ordered by createdAt descending.
	Merged(ctx context.Context, filter domain.TransactionFilter) ([]domain.Transaction, error)
}
