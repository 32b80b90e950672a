package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/ascaixa/treasury-backend/internal/apperrors"
	"github.com/ascaixa/treasury-backend/internal/core/domain"
	portsrepo "github.com/ascaixa/treasury-backend/internal/core/ports/repositories"
	portssvc "github.com/ascaixa/treasury-backend/internal/core/ports/services"
	"golang.org/x/sync/errgroup"
)

// dataService exposes store-wide maintenance operations.
type dataService struct {
	BaseService
	store  portsrepo.RecordStore
	ledger portssvc.LedgerSvc
}

// NewDataService creates the data management service.
func NewDataService(store portsrepo.RecordStore, ledger portssvc.LedgerSvc) portssvc.DataSvc {
	return &dataService{store: store, ledger: ledger}
}

var _ portssvc.DataSvc = (*dataService)(nil)

func (s *dataService) Stats(ctx context.Context) (*domain.StoreStats, error) {
	var entriesCount, exitsCount int

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		entriesCount, err = s.store.CountRecords(gctx, domain.CollectionEntries, domain.TransactionFilter{})
		if err != nil {
			return fmt.Errorf("count %s: %w", domain.CollectionEntries, err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		exitsCount, err = s.store.CountRecords(gctx, domain.CollectionExits, domain.TransactionFilter{})
		if err != nil {
			return fmt.Errorf("count %s: %w", domain.CollectionExits, err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		s.LogError(ctx, err, "Store stats failed")
		return nil, errors.Join(apperrors.ErrPartialFailure, err)
	}

	return &domain.StoreStats{
		TotalTransactions: entriesCount + exitsCount,
		TotalEntries:      entriesCount,
		TotalExits:        exitsCount,
		CollectionsCount:  2,
	}, nil
}

func (s *dataService) Export(ctx context.Context) ([]domain.Transaction, error) {
	return s.ledger.Merged(ctx, domain.TransactionFilter{})
}
