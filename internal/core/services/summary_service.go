package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/ascaixa/treasury-backend/internal/apperrors"
	"github.com/ascaixa/treasury-backend/internal/core/domain"
	portsrepo "github.com/ascaixa/treasury-backend/internal/core/ports/repositories"
	portssvc "github.com/ascaixa/treasury-backend/internal/core/ports/services"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
)

// summaryService computes balance and summary statistics, either by reducing
// the merged ledger in memory or by fanning out server-side aggregates. Both
// strategies share domain.TransactionFilter, so their date-window semantics
// cannot diverge.
type summaryService struct {
	BaseService
	store  portsrepo.RecordStore
	ledger portssvc.LedgerSvc
}

// NewSummaryService creates the summary aggregator.
func NewSummaryService(store portsrepo.RecordStore, ledger portssvc.LedgerSvc) portssvc.SummarySvc {
	return &summaryService{store: store, ledger: ledger}
}

var _ portssvc.SummarySvc = (*summaryService)(nil)

// Summarize fetches the full filtered ledger and reduces it in memory with
// exact decimal arithmetic.
func (s *summaryService) Summarize(ctx context.Context, filter domain.TransactionFilter) (*domain.Summary, error) {
	merged, err := s.ledger.Merged(ctx, filter)
	if err != nil {
		return nil, err
	}
	summary := domain.Summarize(merged)
	return &summary, nil
}

// SummarizeMonth issues parallel server-side aggregates per collection and
// completion state for the month window, plus the all-time completed sums
// that back the running balance. Any constituent request failing aborts the
// whole summary.
func (s *summaryService) SummarizeMonth(ctx context.Context, year int, month time.Month) (*domain.MonthlySummary, error) {
	if month < time.January || month > time.December {
		return nil, fmt.Errorf("%w: month out of range", apperrors.ErrValidation)
	}

	completed := true
	pending := false

	monthCompleted := domain.MonthFilter(year, month)
	monthCompleted.Completed = &completed
	monthPending := domain.MonthFilter(year, month)
	monthPending.Completed = &pending
	allCompleted := domain.TransactionFilter{Completed: &completed}

	var (
		monthEntries, monthExits               decimal.Decimal
		monthPendingEntries, monthPendingExits decimal.Decimal
		allEntries, allExits                   decimal.Decimal
		entriesCount, exitsCount               int
		pendingEntriesCount, pendingExitsCount int
	)

	g, gctx := errgroup.WithContext(ctx)
	evalSum := func(dst *decimal.Decimal, collection string, filter domain.TransactionFilter) {
		g.Go(func() error {
			v, err := s.store.EvalRecords(gctx, collection, portsrepo.EvalSum, "amount", filter)
			if err != nil {
				return fmt.Errorf("sum %s: %w", collection, err)
			}
			*dst = v
			return nil
		})
	}
	count := func(dst *int, collection string, filter domain.TransactionFilter) {
		g.Go(func() error {
			n, err := s.store.CountRecords(gctx, collection, filter)
			if err != nil {
				return fmt.Errorf("count %s: %w", collection, err)
			}
			*dst = n
			return nil
		})
	}

	evalSum(&monthEntries, domain.CollectionEntries, monthCompleted)
	evalSum(&monthExits, domain.CollectionExits, monthCompleted)
	evalSum(&monthPendingEntries, domain.CollectionEntries, monthPending)
	evalSum(&monthPendingExits, domain.CollectionExits, monthPending)
	evalSum(&allEntries, domain.CollectionEntries, allCompleted)
	evalSum(&allExits, domain.CollectionExits, allCompleted)
	count(&entriesCount, domain.CollectionEntries, monthCompleted)
	count(&exitsCount, domain.CollectionExits, monthCompleted)
	count(&pendingEntriesCount, domain.CollectionEntries, monthPending)
	count(&pendingExitsCount, domain.CollectionExits, monthPending)

	if err := g.Wait(); err != nil {
		s.LogError(ctx, err, "Monthly summary aggregation failed",
			slog.Int("year", year),
			slog.Int("month", int(month)))
		return nil, errors.Join(apperrors.ErrPartialFailure, err)
	}

	summary := &domain.MonthlySummary{
		Year:                year,
		Month:               int(month),
		MonthEntries:        monthEntries,
		MonthExits:          monthExits,
		MonthPendingEntries: monthPendingEntries,
		MonthPendingExits:   monthPendingExits,
		AllTimeBalance:      allEntries.Sub(allExits),
		EntriesCount:        entriesCount,
		ExitsCount:          exitsCount,
		PendingEntriesCount: pendingEntriesCount,
		PendingExitsCount:   pendingExitsCount,
		TotalPendingCount:   pendingEntriesCount + pendingExitsCount,
	}

	s.LogInfo(ctx, "Monthly summary generated",
		slog.Int("year", year),
		slog.Int("month", int(month)),
		slog.String("all_time_balance", summary.AllTimeBalance.String()))
	return summary, nil
}
