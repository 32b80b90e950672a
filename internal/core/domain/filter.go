package domain

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// TransactionFilter is the canonical, fully typed filter predicate. Absent
// fields are nil (or empty for Title) and impose no constraint; present
// fields compose with logical AND.
//
// The same value drives both the store-side query (adapters translate it)
// and the client-side re-filter via Matches, so re-applying it to an
// already-filtered result set is a no-op.
type TransactionFilter struct {
	Kind      *Kind
	Category  *Category
	Completed *bool
	MinAmount *decimal.Decimal
	MaxAmount *decimal.Decimal
	StartDate *time.Time // inclusive, normalized to start of day
	EndDate   *time.Time // inclusive, normalized to end of day
	Title     string     // case-insensitive substring match; empty = no constraint
}

// IsZero reports whether the filter imposes no constraint at all.
func (f TransactionFilter) IsZero() bool {
	return f.Kind == nil && f.Category == nil && f.Completed == nil &&
		f.MinAmount == nil && f.MaxAmount == nil &&
		f.StartDate == nil && f.EndDate == nil && f.Title == ""
}

// Matches is the pure client-side predicate over a single transaction.
// Title matching is case-insensitive; the store adapters implement the same
// semantics so both sides agree.
func (f TransactionFilter) Matches(t Transaction) bool {
	if f.Kind != nil && t.Kind != *f.Kind {
		return false
	}
	if f.Category != nil && t.Category != *f.Category {
		return false
	}
	if f.Completed != nil && t.Completed != *f.Completed {
		return false
	}
	if f.MinAmount != nil && t.Amount.LessThan(*f.MinAmount) {
		return false
	}
	if f.MaxAmount != nil && t.Amount.GreaterThan(*f.MaxAmount) {
		return false
	}
	if f.StartDate != nil && t.CreatedAt.Before(*f.StartDate) {
		return false
	}
	if f.EndDate != nil && t.CreatedAt.After(*f.EndDate) {
		return false
	}
	if f.Title != "" && !strings.Contains(strings.ToLower(t.Title), strings.ToLower(f.Title)) {
		return false
	}
	return true
}

// StartOfDay truncates t to midnight in its own location.
func StartOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// EndOfDay returns the last representable instant of t's day.
func EndOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 23, 59, 59, int(time.Second-time.Nanosecond), t.Location())
}

// MonthWindow returns the inclusive [start, end] bounds of a calendar month
// in UTC: first day 00:00:00 through last day 23:59:59.999999999. This is
// the single authoritative month boundary used by every summary strategy.
func MonthWindow(year int, month time.Month) (time.Time, time.Time) {
	start := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 1, 0).Add(-time.Nanosecond)
	return start, end
}

// MonthFilter builds a filter constrained to the given month window.
func MonthFilter(year int, month time.Month) TransactionFilter {
	start, end := MonthWindow(year, month)
	return TransactionFilter{StartDate: &start, EndDate: &end}
}
