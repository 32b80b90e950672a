package services

import (
	"context"
	"time"

	"github.com/ascaixa/treasury-backend/internal/core/domain"
)

// SummarySvc derives financial summaries with the same filter semantics as
// the ledger view.
type SummarySvc interface {
	// Summarize reduces the full filtered ledger in memory.
	Summarize(ctx context.Context, filter domain.TransactionFilter) (*domain.Summary, error)

	// SummarizeMonth combines server-side aggregates for the given calendar
	// month with the all-time completed balance.
	SummarizeMonth(ctx context.Context, year int, month time.Month) (*domain.MonthlySummary, error)
}
