// Package kvapi implements the RecordStore port against the external KV
// record API (`/kv/<collection>/...`). Transport failures map to
// apperrors.ErrTransport and are surfaced verbatim; the client never
// retries.
package kvapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/ascaixa/treasury-backend/internal/apperrors"
	"github.com/ascaixa/treasury-backend/internal/core/domain"
	portsrepo "github.com/ascaixa/treasury-backend/internal/core/ports/repositories"
	"github.com/shopspring/decimal"
)

// Client talks to the external record store.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// NewClient creates a record store client. baseURL is the API root without
// the /kv suffix.
func NewClient(baseURL, apiKey string, timeout time.Duration) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: timeout},
	}
}

var _ portsrepo.RecordStore = (*Client)(nil)

// wirePayload is the transaction document as stored under a record's data
// field. The wire format calls the kind discriminant "type".
type wirePayload struct {
	Type             string           `json:"type"`
	Title            string           `json:"title"`
	Amount           decimal.Decimal  `json:"amount"`
	Category         string           `json:"category"`
	Completed        bool             `json:"completed"`
	CreatedAt        time.Time        `json:"createdAt"`
	DueDate          *time.Time       `json:"dueDate,omitempty"`
	ConfirmationDate *time.Time       `json:"confirmationDate,omitempty"`
	LastUpdate       *time.Time       `json:"lastUpdate,omitempty"`
}

// wireRecord is the store's record envelope.
type wireRecord struct {
	ID   string      `json:"_id"`
	Data wirePayload `json:"data"`
}

func toDomain(r wireRecord) domain.Transaction {
	txn := domain.Transaction{
		ID:               r.ID,
		Kind:             domain.Kind(r.Data.Type),
		Title:            r.Data.Title,
		Amount:           r.Data.Amount,
		Category:         domain.Category(r.Data.Category),
		Completed:        r.Data.Completed,
		CreatedAt:        r.Data.CreatedAt,
		DueDate:          r.Data.DueDate,
		ConfirmationDate: r.Data.ConfirmationDate,
	}
	if r.Data.LastUpdate != nil {
		txn.LastUpdate = *r.Data.LastUpdate
	}
	return txn
}

func toWire(t domain.Transaction) wirePayload {
	lastUpdate := t.LastUpdate
	return wirePayload{
		Type:             string(t.Kind),
		Title:            t.Title,
		Amount:           t.Amount,
		Category:         string(t.Category),
		Completed:        t.Completed,
		CreatedAt:        t.CreatedAt,
		DueDate:          t.DueDate,
		ConfirmationDate: t.ConfirmationDate,
		LastUpdate:       &lastUpdate,
	}
}

// filterValues encodes the canonical filter as query parameters. Only
// present fields are emitted.
func filterValues(f domain.TransactionFilter) url.Values {
	values := url.Values{}
	if f.Kind != nil {
		values.Set("type", string(*f.Kind))
	}
	if f.Category != nil {
		values.Set("category", string(*f.Category))
	}
	if f.Completed != nil {
		values.Set("completed", strconv.FormatBool(*f.Completed))
	}
	if f.MinAmount != nil {
		values.Set("minAmount", f.MinAmount.String())
	}
	if f.MaxAmount != nil {
		values.Set("maxAmount", f.MaxAmount.String())
	}
	if f.StartDate != nil {
		values.Set("startDate", f.StartDate.Format(time.RFC3339Nano))
	}
	if f.EndDate != nil {
		values.Set("endDate", f.EndDate.Format(time.RFC3339Nano))
	}
	if f.Title != "" {
		values.Set("title", f.Title)
	}
	return values
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, body any, out any) error {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request body: %w", err)
		}
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.apiKey != "" {
		req.Header.Set("X-API-Key", c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return errors.Join(apperrors.ErrTransport, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return fmt.Errorf("%s: %w", path, apperrors.ErrNotFound)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var apiErr struct {
			Error string `json:"error"`
		}
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		msg := strings.TrimSpace(string(raw))
		if json.Unmarshal(raw, &apiErr) == nil && apiErr.Error != "" {
			msg = apiErr.Error
		}
		return errors.Join(apperrors.ErrTransport, fmt.Errorf("%s returned %d: %s", path, resp.StatusCode, msg))
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return errors.Join(apperrors.ErrTransport, fmt.Errorf("decode %s response: %w", path, err))
	}
	return nil
}

func (c *Client) ListRecords(ctx context.Context, collection string, filter domain.TransactionFilter, opts portsrepo.ListOptions) ([]domain.Transaction, *domain.PageMeta, error) {
	query := filterValues(filter)
	if opts.Paged {
		query.Set("page", strconv.Itoa(opts.Page))
		query.Set("limit", strconv.Itoa(opts.Limit))
	} else {
		query.Set("pagination", "false")
	}

	var payload struct {
		Data       []wireRecord     `json:"data"`
		Pagination *domain.PageMeta `json:"pagination"`
	}
	if err := c.do(ctx, http.MethodGet, "/kv/"+collection+"/get-all", query, nil, &payload); err != nil {
		return nil, nil, err
	}

	txns := make([]domain.Transaction, len(payload.Data))
	for i, r := range payload.Data {
		txns[i] = toDomain(r)
	}
	return txns, payload.Pagination, nil
}

func (c *Client) GetRecord(ctx context.Context, collection string, id string) (*domain.Transaction, error) {
	var record wireRecord
	if err := c.do(ctx, http.MethodGet, "/kv/"+collection+"/get/"+id, nil, nil, &record); err != nil {
		return nil, err
	}
	txn := toDomain(record)
	return &txn, nil
}

func (c *Client) CountRecords(ctx context.Context, collection string, filter domain.TransactionFilter) (int, error) {
	var payload struct {
		Count int `json:"count"`
	}
	if err := c.do(ctx, http.MethodGet, "/kv/"+collection+"/count", filterValues(filter), nil, &payload); err != nil {
		return 0, err
	}
	return payload.Count, nil
}

func (c *Client) EvalRecords(ctx context.Context, collection string, op portsrepo.EvalOp, field string, filter domain.TransactionFilter) (decimal.Decimal, error) {
	filters := map[string]string{}
	for key, vals := range filterValues(filter) {
		filters[key] = vals[0]
	}
	body := map[string]any{
		"operation": string(op),
		"field":     field,
		"filters":   filters,
	}

	var payload struct {
		Operation string          `json:"operation"`
		Field     string          `json:"field"`
		Result    decimal.Decimal `json:"result"`
	}
	if err := c.do(ctx, http.MethodPost, "/kv/"+collection+"/eval", nil, body, &payload); err != nil {
		return decimal.Zero, err
	}
	return payload.Result, nil
}

func (c *Client) CreateRecord(ctx context.Context, collection string, txn domain.Transaction) (*domain.Transaction, error) {
	var record wireRecord
	body := map[string]any{"data": toWire(txn)}
	if err := c.do(ctx, http.MethodPost, "/kv/"+collection+"/create", nil, body, &record); err != nil {
		return nil, err
	}
	created := toDomain(record)
	return &created, nil
}

func (c *Client) UpdateRecord(ctx context.Context, collection string, id string, txn domain.Transaction) (*domain.Transaction, error) {
	var record wireRecord
	body := map[string]any{"data": toWire(txn)}
	if err := c.do(ctx, http.MethodPatch, "/kv/"+collection+"/update/"+id, nil, body, &record); err != nil {
		return nil, err
	}
	updated := toDomain(record)
	return &updated, nil
}

func (c *Client) DeleteRecord(ctx context.Context, collection string, id string) error {
	return c.do(ctx, http.MethodDelete, "/kv/"+collection+"/delete/"+id, nil, nil, nil)
}
