package repositories

import (
	"context"

	"github.com/ascaixa/treasury-backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// EvalOp is a server-side aggregate operation over a record field.
type EvalOp string

const (
	EvalSum   EvalOp = "sum"
	EvalAvg   EvalOp = "avg"
	EvalCount EvalOp = "count"
	EvalMin   EvalOp = "min"
	EvalMax   EvalOp = "max"
)

// ListOptions controls store-side pagination. When Paged is false the store
// returns the full filtered set and no meta.
type ListOptions struct {
	Paged bool
	Page  int
	Limit int
}

// RecordReader defines read operations against one physical collection of
// the record store. The store applies the filter with the same semantics as
// domain.TransactionFilter.Matches, so client-side re-filtering is idempotent.
type RecordReader interface {
	// ListRecords retrieves records from a collection. Meta is nil when
	// opts.Paged is false.
	ListRecords(ctx context.Context, collection string, filter domain.TransactionFilter, opts ListOptions) ([]domain.Transaction, *domain.PageMeta, error)

	// GetRecord retrieves a single record by ID.
	GetRecord(ctx context.Context, collection string, id string) (*domain.Transaction, error)

	// CountRecords counts records matching the filter.
	CountRecords(ctx context.Context, collection string, filter domain.TransactionFilter) (int, error)

	// EvalRecords runs a server-side aggregate over a numeric field of the
	// records matching the filter.
	EvalRecords(ctx context.Context, collection string, op EvalOp, field string, filter domain.TransactionFilter) (decimal.Decimal, error)
}

// RecordWriter defines write operations against one physical collection.
type RecordWriter interface {
	// CreateRecord persists a new record and returns it with its assigned ID.
	CreateRecord(ctx context.Context, collection string, txn domain.Transaction) (*domain.Transaction, error)

	// UpdateRecord replaces an existing record.
	UpdateRecord(ctx context.Context, collection string, id string, txn domain.Transaction) (*domain.Transaction, error)

	// DeleteRecord removes a record by ID.
	DeleteRecord(ctx context.Context, collection string, id string) error
}

// RecordStore combines read and write access to the record store. This is
// the boundary to the external persistence system; the core only reads and
// recombines records through it.
type RecordStore interface {
	RecordReader
	RecordWriter
}
