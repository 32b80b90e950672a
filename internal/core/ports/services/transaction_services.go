package services

import (
	"context"

	"github.com/ascaixa/treasury-backend/internal/core/domain"
	"github.com/ascaixa/treasury-backend/internal/dto"
)

// TransactionSvc owns the write lifecycle of individual transactions.
type TransactionSvc interface {
	Create(ctx context.Context, kind domain.Kind, req dto.CreateTransactionRequest) (*domain.Transaction, error)
	Get(ctx context.Context, kind domain.Kind, id string) (*domain.Transaction, error)
	Update(ctx context.Context, kind domain.Kind, id string, req dto.UpdateTransactionRequest) (*domain.Transaction, error)
	Delete(ctx context.Context, kind domain.Kind, id string) error

	// MarkCompleted confirms a transaction, stamping its confirmation date.
	MarkCompleted(ctx context.Context, kind domain.Kind, id string) (*domain.Transaction, error)

	// MarkPending reverts a transaction to pending, clearing its confirmation date.
	MarkPending(ctx context.Context, kind domain.Kind, id string) (*domain.Transaction, error)
}
