package services_test

import (
	"context"

	"github.com/ascaixa/treasury-backend/internal/core/domain"
	portsrepo "github.com/ascaixa/treasury-backend/internal/core/ports/repositories"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
)

// MockRecordStore is a mock type for the RecordStore interface
type MockRecordStore struct {
	mock.Mock
}

func (m *MockRecordStore) ListRecords(ctx context.Context, collection string, filter domain.TransactionFilter, opts portsrepo.ListOptions) ([]domain.Transaction, *domain.PageMeta, error) {
	args := m.Called(ctx, collection, filter, opts)
	var txns []domain.Transaction
	if args.Get(0) != nil {
		txns = args.Get(0).([]domain.Transaction)
	}
	var meta *domain.PageMeta
	if args.Get(1) != nil {
		meta = args.Get(1).(*domain.PageMeta)
	}
	return txns, meta, args.Error(2)
}

func (m *MockRecordStore) GetRecord(ctx context.Context, collection string, id string) (*domain.Transaction, error) {
	args := m.Called(ctx, collection, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Transaction), args.Error(1)
}

func (m *MockRecordStore) CountRecords(ctx context.Context, collection string, filter domain.TransactionFilter) (int, error) {
	args := m.Called(ctx, collection, filter)
	return args.Int(0), args.Error(1)
}

func (m *MockRecordStore) EvalRecords(ctx context.Context, collection string, op portsrepo.EvalOp, field string, filter domain.TransactionFilter) (decimal.Decimal, error) {
	args := m.Called(ctx, collection, op, field, filter)
	if args.Get(0) == nil {
		return decimal.Zero, args.Error(1)
	}
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

func (m *MockRecordStore) CreateRecord(ctx context.Context, collection string, txn domain.Transaction) (*domain.Transaction, error) {
	args := m.Called(ctx, collection, txn)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Transaction), args.Error(1)
}

func (m *MockRecordStore) UpdateRecord(ctx context.Context, collection string, id string, txn domain.Transaction) (*domain.Transaction, error) {
	args := m.Called(ctx, collection, id, txn)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Transaction), args.Error(1)
}

func (m *MockRecordStore) DeleteRecord(ctx context.Context, collection string, id string) error {
	args := m.Called(ctx, collection, id)
	return args.Error(0)
}
