package dto

import (
	"strings"
	"time"

	"github.com/ascaixa/treasury-backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateTransactionRequest defines the data needed to record a transaction.
type CreateTransactionRequest struct {
	Kind             string          `json:"kind" binding:"required,oneof=entry exit"`
	Title            string          `json:"title" binding:"required,min=3,max=100"`
	Amount           decimal.Decimal `json:"amount" binding:"required"`
	Category         string          `json:"category" binding:"required"`
	Completed        bool            `json:"completed"`
	CreatedAt        *time.Time      `json:"createdAt"` // Optional: effective date, defaults to now
	DueDate          *time.Time      `json:"dueDate"`
	ConfirmationDate *time.Time      `json:"confirmationDate"`
}

// UpdateTransactionRequest defines the fields allowed for a partial update.
// Pointers distinguish zero-value updates from fields not provided. Kind is
// immutable and therefore absent.
type UpdateTransactionRequest struct {
	Title            *string          `json:"title" binding:"omitempty,min=3,max=100"`
	Amount           *decimal.Decimal `json:"amount"`
	Category         *string          `json:"category"`
	Completed        *bool            `json:"completed"`
	CreatedAt        *time.Time       `json:"createdAt"`
	DueDate          *time.Time       `json:"dueDate"`
	ConfirmationDate *time.Time       `json:"confirmationDate"`
}

// TransactionResponse mirrors domain.Transaction.
type TransactionResponse struct {
	ID               string          `json:"id"`
	Kind             domain.Kind     `json:"kind"`
	Title            string          `json:"title"`
	Amount           decimal.Decimal `json:"amount"`
	Category         domain.Category `json:"category"`
	Completed        bool            `json:"completed"`
	CreatedAt        time.Time       `json:"createdAt"`
	DueDate          *time.Time      `json:"dueDate,omitempty"`
	ConfirmationDate *time.Time      `json:"confirmationDate,omitempty"`
	LastUpdate       time.Time       `json:"lastUpdate"`
}

// ToTransactionResponse converts a domain.Transaction to its response DTO.
func ToTransactionResponse(t *domain.Transaction) TransactionResponse {
	return TransactionResponse{
		ID:               t.ID,
		Kind:             t.Kind,
		Title:            t.Title,
		Amount:           t.Amount,
		Category:         t.Category,
		Completed:        t.Completed,
		CreatedAt:        t.CreatedAt,
		DueDate:          t.DueDate,
		ConfirmationDate: t.ConfirmationDate,
		LastUpdate:       t.LastUpdate,
	}
}

// ToListTransactionResponse converts a slice of transactions.
func ToListTransactionResponse(txns []domain.Transaction) []TransactionResponse {
	res := make([]TransactionResponse, len(txns))
	for i := range txns {
		res[i] = ToTransactionResponse(&txns[i])
	}
	return res
}

// TransactionPageResponse carries a page and its meta as one value.
type TransactionPageResponse struct {
	Data       []TransactionResponse `json:"data"`
	Pagination domain.PageMeta       `json:"pagination"`
}

// ToTransactionPageResponse converts a domain page.
func ToTransactionPageResponse(p *domain.TransactionPage) TransactionPageResponse {
	return TransactionPageResponse{
		Data:       ToListTransactionResponse(p.Data),
		Pagination: p.Meta,
	}
}

// TransactionFilterRequest is the sparse, user-shaped filter as it arrives
// from UI widgets: everything is a string and any field may be absent.
type TransactionFilterRequest struct {
	Kind      string `form:"type"`
	Category  string `form:"category"`
	Completed string `form:"completed"` // "all", "true" or "false"
	Title     string `form:"title"`
	MinAmount string `form:"minAmount"`
	MaxAmount string `form:"maxAmount"`
	StartDate string `form:"startDate"`
	EndDate   string `form:"endDate"`
}

// Normalize turns the user-shaped filter into the canonical typed predicate.
// Malformed input never fails the call: an unparsable field simply imposes
// no constraint, so the UI stays usable with partial input. The "all"
// completion value omits the field entirely.
func (r TransactionFilterRequest) Normalize() domain.TransactionFilter {
	f := domain.TransactionFilter{}

	switch domain.Kind(strings.ToLower(strings.TrimSpace(r.Kind))) {
	case domain.KindEntry:
		k := domain.KindEntry
		f.Kind = &k
	case domain.KindExit:
		k := domain.KindExit
		f.Kind = &k
	}

	if c := strings.TrimSpace(r.Category); c != "" {
		cat := domain.Category(c)
		if domain.ValidCategory(domain.KindEntry, cat) || domain.ValidCategory(domain.KindExit, cat) {
			f.Category = &cat
		}
	}

	switch strings.ToLower(strings.TrimSpace(r.Completed)) {
	case "true":
		v := true
		f.Completed = &v
	case "false":
		v := false
		f.Completed = &v
	}

	if d, ok := parseAmount(r.MinAmount); ok {
		f.MinAmount = &d
	}
	if d, ok := parseAmount(r.MaxAmount); ok {
		f.MaxAmount = &d
	}

	if t, ok := parseDate(r.StartDate); ok {
		start := domain.StartOfDay(t)
		f.StartDate = &start
	}
	if t, ok := parseDate(r.EndDate); ok {
		end := domain.EndOfDay(t)
		f.EndDate = &end
	}

	f.Title = strings.TrimSpace(r.Title)
	return f
}

func parseAmount(s string) (decimal.Decimal, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Decimal{}, false
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Decimal{}, false
	}
	return d, true
}

// parseDate accepts ISO dates with or without a time component.
func parseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
