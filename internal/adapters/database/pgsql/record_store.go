package pgsql

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/ascaixa/treasury-backend/internal/apperrors"
	"github.com/ascaixa/treasury-backend/internal/core/domain"
	portsrepo "github.com/ascaixa/treasury-backend/internal/core/ports/repositories"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

// PgxRecordStore implements the RecordStore port on PostgreSQL. Collections
// live in one `records` table with the transaction payload as jsonb; filters
// compile to SQL with the same semantics as the client-side predicate
// (title matching uses ILIKE to stay case-insensitive on both sides).
type PgxRecordStore struct {
	pool *pgxpool.Pool
}

// NewPgxRecordStore creates a record store over the given connection pool.
func NewPgxRecordStore(pool *pgxpool.Pool) *PgxRecordStore {
	return &PgxRecordStore{pool: pool}
}

var _ portsrepo.RecordStore = (*PgxRecordStore)(nil)

// storeErr wraps database failures so callers can match ErrTransport while
// keeping the underlying driver error inspectable.
func storeErr(err error) error {
	return errors.Join(apperrors.ErrTransport, err)
}

// escapeLike escapes LIKE wildcards in user input.
func escapeLike(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `%`, `\%`)
	s = strings.ReplaceAll(s, `_`, `\_`)
	return s
}

// buildWhere compiles a filter into a WHERE clause and its arguments. The
// collection is always the first condition.
func buildWhere(collection string, f domain.TransactionFilter) (string, []any) {
	conds := []string{"collection = $1"}
	args := []any{collection}

	next := func() int { return len(args) + 1 }

	if f.Kind != nil {
		conds = append(conds, fmt.Sprintf("data->>'kind' = $%d", next()))
		args = append(args, string(*f.Kind))
	}
	if f.Category != nil {
		conds = append(conds, fmt.Sprintf("data->>'category' = $%d", next()))
		args = append(args, string(*f.Category))
	}
	if f.Completed != nil {
		conds = append(conds, fmt.Sprintf("(data->>'completed')::boolean = $%d", next()))
		args = append(args, *f.Completed)
	}
	if f.MinAmount != nil {
		conds = append(conds, fmt.Sprintf("(data->>'amount')::numeric >= $%d::numeric", next()))
		args = append(args, f.MinAmount.String())
	}
	if f.MaxAmount != nil {
		conds = append(conds, fmt.Sprintf("(data->>'amount')::numeric <= $%d::numeric", next()))
		args = append(args, f.MaxAmount.String())
	}
	if f.StartDate != nil {
		conds = append(conds, fmt.Sprintf("created_at >= $%d", next()))
		args = append(args, *f.StartDate)
	}
	if f.EndDate != nil {
		conds = append(conds, fmt.Sprintf("created_at <= $%d", next()))
		args = append(args, *f.EndDate)
	}
	if f.Title != "" {
		conds = append(conds, fmt.Sprintf("data->>'title' ILIKE $%d", next()))
		args = append(args, "%"+escapeLike(f.Title)+"%")
	}

	return strings.Join(conds, " AND "), args
}

func (r *PgxRecordStore) ListRecords(ctx context.Context, collection string, filter domain.TransactionFilter, opts portsrepo.ListOptions) ([]domain.Transaction, *domain.PageMeta, error) {
	where, args := buildWhere(collection, filter)

	query := fmt.Sprintf(`SELECT data FROM records WHERE %s ORDER BY created_at DESC`, where)
	if opts.Paged && opts.Limit > 0 {
		page := opts.Page
		if page < 1 {
			page = 1
		}
		query += fmt.Sprintf(" LIMIT %d OFFSET %d", opts.Limit, (page-1)*opts.Limit)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, nil, storeErr(fmt.Errorf("list %s: %w", collection, err))
	}
	defer rows.Close()

	txns := make([]domain.Transaction, 0)
	for rows.Next() {
		var raw []byte
		if err := rows.Scan(&raw); err != nil {
			return nil, nil, storeErr(fmt.Errorf("scan %s record: %w", collection, err))
		}
		var txn domain.Transaction
		if err := json.Unmarshal(raw, &txn); err != nil {
			return nil, nil, storeErr(fmt.Errorf("decode %s record: %w", collection, err))
		}
		txns = append(txns, txn)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, storeErr(fmt.Errorf("list %s: %w", collection, err))
	}

	if !opts.Paged {
		return txns, nil, nil
	}

	total, err := r.CountRecords(ctx, collection, filter)
	if err != nil {
		return nil, nil, err
	}
	page := opts.Page
	if page < 1 {
		page = 1
	}
	meta := domain.NewPageMeta(page, opts.Limit, total)
	return txns, &meta, nil
}

func (r *PgxRecordStore) GetRecord(ctx context.Context, collection string, id string) (*domain.Transaction, error) {
	var raw []byte
	err := r.pool.QueryRow(ctx,
		`SELECT data FROM records WHERE collection = $1 AND id = $2`, collection, id,
	).Scan(&raw)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("record %s in %s: %w", id, collection, apperrors.ErrNotFound)
	}
	if err != nil {
		return nil, storeErr(fmt.Errorf("get %s record: %w", collection, err))
	}

	var txn domain.Transaction
	if err := json.Unmarshal(raw, &txn); err != nil {
		return nil, storeErr(fmt.Errorf("decode %s record: %w", collection, err))
	}
	return &txn, nil
}

func (r *PgxRecordStore) CountRecords(ctx context.Context, collection string, filter domain.TransactionFilter) (int, error) {
	where, args := buildWhere(collection, filter)

	var count int
	err := r.pool.QueryRow(ctx,
		fmt.Sprintf(`SELECT COUNT(*) FROM records WHERE %s`, where), args...,
	).Scan(&count)
	if err != nil {
		return 0, storeErr(fmt.Errorf("count %s: %w", collection, err))
	}
	return count, nil
}

func (r *PgxRecordStore) EvalRecords(ctx context.Context, collection string, op portsrepo.EvalOp, field string, filter domain.TransactionFilter) (decimal.Decimal, error) {
	if field != "amount" {
		return decimal.Zero, fmt.Errorf("%w: unsupported eval field %q", apperrors.ErrValidation, field)
	}

	var agg string
	switch op {
	case portsrepo.EvalSum:
		agg = "COALESCE(SUM((data->>'amount')::numeric), 0)"
	case portsrepo.EvalAvg:
		agg = "COALESCE(AVG((data->>'amount')::numeric), 0)"
	case portsrepo.EvalMin:
		agg = "COALESCE(MIN((data->>'amount')::numeric), 0)"
	case portsrepo.EvalMax:
		agg = "COALESCE(MAX((data->>'amount')::numeric), 0)"
	case portsrepo.EvalCount:
		agg = "COUNT(*)"
	default:
		return decimal.Zero, fmt.Errorf("%w: unsupported eval operation %q", apperrors.ErrValidation, op)
	}

	where, args := buildWhere(collection, filter)

	var result string
	err := r.pool.QueryRow(ctx,
		fmt.Sprintf(`SELECT (%s)::text FROM records WHERE %s`, agg, where), args...,
	).Scan(&result)
	if err != nil {
		return decimal.Zero, storeErr(fmt.Errorf("eval %s on %s: %w", op, collection, err))
	}

	value, err := decimal.NewFromString(result)
	if err != nil {
		return decimal.Zero, storeErr(fmt.Errorf("parse eval result %q: %w", result, err))
	}
	return value, nil
}

func (r *PgxRecordStore) CreateRecord(ctx context.Context, collection string, txn domain.Transaction) (*domain.Transaction, error) {
	if txn.ID == "" {
		txn.ID = uuid.NewString()
	}
	raw, err := json.Marshal(txn)
	if err != nil {
		return nil, fmt.Errorf("encode %s record: %w", collection, err)
	}

	_, err = r.pool.Exec(ctx,
		`INSERT INTO records (id, collection, data, created_at, last_update) VALUES ($1, $2, $3, $4, $5)`,
		txn.ID, collection, raw, txn.CreatedAt, txn.LastUpdate,
	)
	if err != nil {
		return nil, storeErr(fmt.Errorf("insert %s record: %w", collection, err))
	}
	return &txn, nil
}

func (r *PgxRecordStore) UpdateRecord(ctx context.Context, collection string, id string, txn domain.Transaction) (*domain.Transaction, error) {
	txn.ID = id
	raw, err := json.Marshal(txn)
	if err != nil {
		return nil, fmt.Errorf("encode %s record: %w", collection, err)
	}

	tag, err := r.pool.Exec(ctx,
		`UPDATE records SET data = $3, created_at = $4, last_update = $5 WHERE collection = $1 AND id = $2`,
		collection, id, raw, txn.CreatedAt, txn.LastUpdate,
	)
	if err != nil {
		return nil, storeErr(fmt.Errorf("update %s record: %w", collection, err))
	}
	if tag.RowsAffected() == 0 {
		return nil, fmt.Errorf("record %s in %s: %w", id, collection, apperrors.ErrNotFound)
	}
	return &txn, nil
}

func (r *PgxRecordStore) DeleteRecord(ctx context.Context, collection string, id string) error {
	tag, err := r.pool.Exec(ctx,
		`DELETE FROM records WHERE collection = $1 AND id = $2`, collection, id,
	)
	if err != nil {
		return storeErr(fmt.Errorf("delete %s record: %w", collection, err))
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("record %s in %s: %w", id, collection, apperrors.ErrNotFound)
	}
	return nil
}
