package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/ascaixa/treasury-backend/internal/apperrors"
	"github.com/ascaixa/treasury-backend/internal/core/domain"
	portsrepo "github.com/ascaixa/treasury-backend/internal/core/ports/repositories"
	portssvc "github.com/ascaixa/treasury-backend/internal/core/ports/services"
	"github.com/ascaixa/treasury-backend/internal/dto"
	"github.com/shopspring/decimal"
)

// maxAmount caps a single transaction value.
var maxAmount = decimal.NewFromInt(1_000_000)

// transactionService orchestrates the write lifecycle over the record store.
// It never changes a record's kind; entries and exits are disjoint storage.
type transactionService struct {
	BaseService
	store portsrepo.RecordStore
	now   func() time.Time
}

// TransactionServiceOption is a functional option for the transaction service.
type TransactionServiceOption func(*transactionService)

// WithClock overrides the time source, for tests.
func WithClock(now func() time.Time) TransactionServiceOption {
	return func(s *transactionService) {
		s.now = now
	}
}

// NewTransactionService creates the transaction lifecycle service.
func NewTransactionService(store portsrepo.RecordStore, options ...TransactionServiceOption) portssvc.TransactionSvc {
	svc := &transactionService{store: store, now: time.Now}
	for _, option := range options {
		option(svc)
	}
	return svc
}

var _ portssvc.TransactionSvc = (*transactionService)(nil)

func (s *transactionService) Create(ctx context.Context, kind domain.Kind, req dto.CreateTransactionRequest) (*domain.Transaction, error) {
	if !kind.Valid() {
		return nil, fmt.Errorf("%w: unknown transaction kind %q", apperrors.ErrValidation, kind)
	}
	category := domain.Category(req.Category)
	if !domain.ValidCategory(kind, category) {
		return nil, fmt.Errorf("%w: category %q is not valid for %s transactions", apperrors.ErrValidation, req.Category, kind)
	}
	if err := validateAmount(req.Amount); err != nil {
		return nil, err
	}

	now := s.now()
	createdAt := now
	if req.CreatedAt != nil {
		createdAt = *req.CreatedAt
	}

	txn := domain.Transaction{
		Kind:       kind,
		Title:      req.Title,
		Amount:     req.Amount,
		Category:   category,
		Completed:  req.Completed,
		CreatedAt:  createdAt,
		DueDate:    req.DueDate,
		LastUpdate: now,
	}
	if req.Completed {
		confirmation := now
		if req.ConfirmationDate != nil {
			confirmation = *req.ConfirmationDate
		}
		txn.ConfirmationDate = &confirmation
	}

	created, err := s.store.CreateRecord(ctx, kind.Collection(), txn)
	if err != nil {
		s.LogError(ctx, err, "Failed to create transaction", slog.String("kind", string(kind)))
		return nil, fmt.Errorf("failed to create transaction: %w", err)
	}

	s.LogInfo(ctx, "Transaction created",
		slog.String("id", created.ID),
		slog.String("kind", string(kind)),
		slog.String("amount", created.Amount.String()))
	return created, nil
}

func (s *transactionService) Get(ctx context.Context, kind domain.Kind, id string) (*domain.Transaction, error) {
	if !kind.Valid() {
		return nil, fmt.Errorf("%w: unknown transaction kind %q", apperrors.ErrValidation, kind)
	}
	txn, err := s.store.GetRecord(ctx, kind.Collection(), id)
	if err != nil {
		return nil, fmt.Errorf("failed to get transaction %s: %w", id, err)
	}
	return txn, nil
}

// Update reads the current record, merges the provided fields and writes the
// full record back, bumping lastUpdate.
func (s *transactionService) Update(ctx context.Context, kind domain.Kind, id string, req dto.UpdateTransactionRequest) (*domain.Transaction, error) {
	existing, err := s.Get(ctx, kind, id)
	if err != nil {
		return nil, err
	}

	txn := *existing
	if req.Title != nil {
		txn.Title = *req.Title
	}
	if req.Amount != nil {
		if err := validateAmount(*req.Amount); err != nil {
			return nil, err
		}
		txn.Amount = *req.Amount
	}
	if req.Category != nil {
		category := domain.Category(*req.Category)
		if !domain.ValidCategory(kind, category) {
			return nil, fmt.Errorf("%w: category %q is not valid for %s transactions", apperrors.ErrValidation, *req.Category, kind)
		}
		txn.Category = category
	}
	if req.CreatedAt != nil {
		txn.CreatedAt = *req.CreatedAt
	}
	if req.DueDate != nil {
		txn.DueDate = req.DueDate
	}
	if req.Completed != nil {
		txn.Completed = *req.Completed
	}
	if req.ConfirmationDate != nil {
		txn.ConfirmationDate = req.ConfirmationDate
	}

	now := s.now()
	// Keep the completion invariant: completed records carry a confirmation
	// date, pending records never do.
	if txn.Completed && txn.ConfirmationDate == nil {
		txn.ConfirmationDate = &now
	}
	if !txn.Completed {
		txn.ConfirmationDate = nil
	}
	txn.LastUpdate = now

	updated, err := s.store.UpdateRecord(ctx, kind.Collection(), id, txn)
	if err != nil {
		s.LogError(ctx, err, "Failed to update transaction", slog.String("id", id))
		return nil, fmt.Errorf("failed to update transaction %s: %w", id, err)
	}
	return updated, nil
}

func (s *transactionService) Delete(ctx context.Context, kind domain.Kind, id string) error {
	if !kind.Valid() {
		return fmt.Errorf("%w: unknown transaction kind %q", apperrors.ErrValidation, kind)
	}
	if err := s.store.DeleteRecord(ctx, kind.Collection(), id); err != nil {
		s.LogError(ctx, err, "Failed to delete transaction", slog.String("id", id))
		return fmt.Errorf("failed to delete transaction %s: %w", id, err)
	}
	s.LogInfo(ctx, "Transaction deleted", slog.String("id", id), slog.String("kind", string(kind)))
	return nil
}

func (s *transactionService) MarkCompleted(ctx context.Context, kind domain.Kind, id string) (*domain.Transaction, error) {
	completed := true
	return s.Update(ctx, kind, id, dto.UpdateTransactionRequest{Completed: &completed})
}

func (s *transactionService) MarkPending(ctx context.Context, kind domain.Kind, id string) (*domain.Transaction, error) {
	completed := false
	return s.Update(ctx, kind, id, dto.UpdateTransactionRequest{Completed: &completed})
}

func validateAmount(amount decimal.Decimal) error {
	if amount.LessThanOrEqual(decimal.Zero) {
		return fmt.Errorf("%w: amount must be positive", apperrors.ErrValidation)
	}
	if amount.GreaterThan(maxAmount) {
		return fmt.Errorf("%w: amount exceeds the %s limit", apperrors.ErrValidation, maxAmount.String())
	}
	return nil
}
