package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"

	"github.com/ascaixa/treasury-backend/internal/apperrors"
	"github.com/ascaixa/treasury-backend/internal/core/domain"
	portsrepo "github.com/ascaixa/treasury-backend/internal/core/ports/repositories"
	portssvc "github.com/ascaixa/treasury-backend/internal/core/ports/services"
	"golang.org/x/sync/errgroup"
)

// ledgerService merges the two physical collections into one logical,
// time-ordered, filterable, paginated ledger.
type ledgerService struct {
	BaseService
	store portsrepo.RecordStore
}

// NewLedgerService creates the unified ledger view over the record store.
func NewLedgerService(store portsrepo.RecordStore) portssvc.LedgerSvc {
	return &ledgerService{store: store}
}

var _ portssvc.LedgerSvc = (*ledgerService)(nil)

// Merged fetches both collections concurrently under the same filter with
// store-side pagination disabled, fails fast if either leg fails, and
// returns the concatenation sorted by createdAt descending. Ties keep the
// concatenation order (entries before exits, store order within each), so
// the sequence is stable across calls.
func (s *ledgerService) Merged(ctx context.Context, filter domain.TransactionFilter) ([]domain.Transaction, error) {
	var entries, exits []domain.Transaction

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		entries, _, err = s.store.ListRecords(gctx, domain.CollectionEntries, filter, portsrepo.ListOptions{})
		if err != nil {
			return fmt.Errorf("fetching %s: %w", domain.CollectionEntries, err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		exits, _, err = s.store.ListRecords(gctx, domain.CollectionExits, filter, portsrepo.ListOptions{})
		if err != nil {
			return fmt.Errorf("fetching %s: %w", domain.CollectionExits, err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		s.LogError(ctx, err, "Ledger merge failed, discarding partial results")
		return nil, errors.Join(apperrors.ErrPartialFailure, err)
	}

	merged := make([]domain.Transaction, 0, len(entries)+len(exits))
	merged = append(merged, entries...)
	merged = append(merged, exits...)

	// Re-apply the canonical predicate client-side. The store already
	// applied it, so this is a no-op unless an adapter could not honor a
	// field server-side.
	if !filter.IsZero() {
		filtered := merged[:0]
		for _, t := range merged {
			if filter.Matches(t) {
				filtered = append(filtered, t)
			}
		}
		merged = filtered
	}

	sort.SliceStable(merged, func(i, j int) bool {
		return merged[i].CreatedAt.After(merged[j].CreatedAt)
	})

	return merged, nil
}

// List slices one page out of the merged ledger. The meta is computed from
// the post-filter, pre-slice total, never from either collection's own
// count. Requesting a page past the end yields empty data with truthful
// meta; callers decide whether to re-request a valid page.
func (s *ledgerService) List(ctx context.Context, filter domain.TransactionFilter, page, limit int) (*domain.TransactionPage, error) {
	if page < 1 {
		page = 1
	}

	merged, err := s.Merged(ctx, filter)
	if err != nil {
		return nil, err
	}

	meta := domain.NewPageMeta(page, limit, len(merged))

	data := []domain.Transaction{}
	if limit > 0 {
		lo := (page - 1) * limit
		hi := lo + limit
		if lo < len(merged) {
			if hi > len(merged) {
				hi = len(merged)
			}
			data = merged[lo:hi:hi]
		}
	}

	s.LogDebug(ctx, "Ledger page computed",
		slog.Int("page", page),
		slog.Int("limit", limit),
		slog.Int("total_count", meta.TotalCount),
		slog.Int("returned", len(data)),
	)

	return &domain.TransactionPage{Data: data, Meta: meta}, nil
}
