// Package memory provides a map-backed record store used by tests and the
// "memory" store backend. It applies filters through the same predicate as
// the client side, which keeps client-side re-filtering an exact no-op.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/ascaixa/treasury-backend/internal/apperrors"
	"github.com/ascaixa/treasury-backend/internal/core/domain"
	portsrepo "github.com/ascaixa/treasury-backend/internal/core/ports/repositories"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Store implements the RecordStore port in memory. Records keep insertion
// order per collection, so tie-breaking in the merged ledger is stable.
type Store struct {
	mu          sync.RWMutex
	collections map[string][]domain.Transaction
}

// NewStore creates an empty in-memory record store.
func NewStore() *Store {
	return &Store{collections: make(map[string][]domain.Transaction)}
}

var _ portsrepo.RecordStore = (*Store)(nil)

func (s *Store) ListRecords(ctx context.Context, collection string, filter domain.TransactionFilter, opts portsrepo.ListOptions) ([]domain.Transaction, *domain.PageMeta, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	matched := make([]domain.Transaction, 0)
	for _, t := range s.collections[collection] {
		if filter.Matches(t) {
			matched = append(matched, t)
		}
	}

	if !opts.Paged {
		return matched, nil, nil
	}

	sort.SliceStable(matched, func(i, j int) bool {
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})

	page := opts.Page
	if page < 1 {
		page = 1
	}
	meta := domain.NewPageMeta(page, opts.Limit, len(matched))

	data := []domain.Transaction{}
	if opts.Limit > 0 {
		lo := (page - 1) * opts.Limit
		hi := lo + opts.Limit
		if lo < len(matched) {
			if hi > len(matched) {
				hi = len(matched)
			}
			data = matched[lo:hi:hi]
		}
	}
	return data, &meta, nil
}

func (s *Store) GetRecord(ctx context.Context, collection string, id string) (*domain.Transaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, t := range s.collections[collection] {
		if t.ID == id {
			clone := t
			return &clone, nil
		}
	}
	return nil, fmt.Errorf("record %s in %s: %w", id, collection, apperrors.ErrNotFound)
}

func (s *Store) CountRecords(ctx context.Context, collection string, filter domain.TransactionFilter) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	count := 0
	for _, t := range s.collections[collection] {
		if filter.Matches(t) {
			count++
		}
	}
	return count, nil
}

func (s *Store) EvalRecords(ctx context.Context, collection string, op portsrepo.EvalOp, field string, filter domain.TransactionFilter) (decimal.Decimal, error) {
	if field != "amount" {
		return decimal.Zero, fmt.Errorf("%w: unsupported eval field %q", apperrors.ErrValidation, field)
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	values := make([]decimal.Decimal, 0)
	for _, t := range s.collections[collection] {
		if filter.Matches(t) {
			values = append(values, t.Amount)
		}
	}

	switch op {
	case portsrepo.EvalCount:
		return decimal.NewFromInt(int64(len(values))), nil
	case portsrepo.EvalSum, portsrepo.EvalAvg:
		sum := decimal.Zero
		for _, v := range values {
			sum = sum.Add(v)
		}
		if op == portsrepo.EvalAvg {
			if len(values) == 0 {
				return decimal.Zero, nil
			}
			return sum.Div(decimal.NewFromInt(int64(len(values)))), nil
		}
		return sum, nil
	case portsrepo.EvalMin, portsrepo.EvalMax:
		if len(values) == 0 {
			return decimal.Zero, nil
		}
		best := values[0]
		for _, v := range values[1:] {
			if (op == portsrepo.EvalMin && v.LessThan(best)) || (op == portsrepo.EvalMax && v.GreaterThan(best)) {
				best = v
			}
		}
		return best, nil
	default:
		return decimal.Zero, fmt.Errorf("%w: unsupported eval operation %q", apperrors.ErrValidation, op)
	}
}

func (s *Store) CreateRecord(ctx context.Context, collection string, txn domain.Transaction) (*domain.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if txn.ID == "" {
		txn.ID = uuid.NewString()
	}
	s.collections[collection] = append(s.collections[collection], txn)
	clone := txn
	return &clone, nil
}

func (s *Store) UpdateRecord(ctx context.Context, collection string, id string, txn domain.Transaction) (*domain.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	records := s.collections[collection]
	for i, t := range records {
		if t.ID == id {
			txn.ID = id
			records[i] = txn
			clone := txn
			return &clone, nil
		}
	}
	return nil, fmt.Errorf("record %s in %s: %w", id, collection, apperrors.ErrNotFound)
}

func (s *Store) DeleteRecord(ctx context.Context, collection string, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	records := s.collections[collection]
	for i, t := range records {
		if t.ID == id {
			s.collections[collection] = append(records[:i], records[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("record %s in %s: %w", id, collection, apperrors.ErrNotFound)
}
