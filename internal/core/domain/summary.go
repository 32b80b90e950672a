package domain

import "github.com/shopspring/decimal"

// Summary aggregates a (possibly filtered) set of transactions: per-kind
// totals split by completion state, counts, and the derived balances.
type Summary struct {
	TotalEntries          decimal.Decimal `json:"totalEntries"`
	TotalExits            decimal.Decimal `json:"totalExits"`
	Balance               decimal.Decimal `json:"balance"`
	TotalCompletedEntries decimal.Decimal `json:"totalCompletedEntries"`
	TotalCompletedExits   decimal.Decimal `json:"totalCompletedExits"`
	TotalPendingEntries   decimal.Decimal `json:"totalPendingEntries"`
	TotalPendingExits     decimal.Decimal `json:"totalPendingExits"`
	CompletedBalance      decimal.Decimal `json:"completedBalance"`
	PendingBalance        decimal.Decimal `json:"pendingBalance"`
	EntriesCount          int             `json:"entriesCount"`
	ExitsCount            int             `json:"exitsCount"`
	CompletedEntriesCount int             `json:"completedEntriesCount"`
	CompletedExitsCount   int             `json:"completedExitsCount"`
	PendingEntriesCount   int             `json:"pendingEntriesCount"`
	PendingExitsCount     int             `json:"pendingExitsCount"`
}

// Summarize reduces a transaction set into a Summary using exact decimal
// arithmetic. It is the single client-side aggregation path; the server-side
// eval strategy must agree with it for equivalent filters.
func Summarize(transactions []Transaction) Summary {
	s := Summary{
		TotalEntries:          decimal.Zero,
		TotalExits:            decimal.Zero,
		TotalCompletedEntries: decimal.Zero,
		TotalCompletedExits:   decimal.Zero,
		TotalPendingEntries:   decimal.Zero,
		TotalPendingExits:     decimal.Zero,
	}
	for _, t := range transactions {
		switch t.Kind {
		case KindEntry:
			s.EntriesCount++
			s.TotalEntries = s.TotalEntries.Add(t.Amount)
			if t.Completed {
				s.CompletedEntriesCount++
				s.TotalCompletedEntries = s.TotalCompletedEntries.Add(t.Amount)
			} else {
				s.PendingEntriesCount++
				s.TotalPendingEntries = s.TotalPendingEntries.Add(t.Amount)
			}
		case KindExit:
			s.ExitsCount++
			s.TotalExits = s.TotalExits.Add(t.Amount)
			if t.Completed {
				s.CompletedExitsCount++
				s.TotalCompletedExits = s.TotalCompletedExits.Add(t.Amount)
			} else {
				s.PendingExitsCount++
				s.TotalPendingExits = s.TotalPendingExits.Add(t.Amount)
			}
		}
	}
	s.Balance = s.TotalEntries.Sub(s.TotalExits)
	s.CompletedBalance = s.TotalCompletedEntries.Sub(s.TotalCompletedExits)
	s.PendingBalance = s.TotalPendingEntries.Sub(s.TotalPendingExits)
	return s
}

// MonthlySummary mixes month-scoped and all-time fields on purpose: the
// realized month activity and pending backlog are scoped to the selected
// month, while AllTimeBalance is the running balance over all completed
// transactions regardless of month. Field names carry the scope.
type MonthlySummary struct {
	Year                int             `json:"year"`
	Month               int             `json:"month"`
	MonthEntries        decimal.Decimal `json:"monthEntries"`        // completed entries in month
	MonthExits          decimal.Decimal `json:"monthExits"`          // completed exits in month
	MonthPendingEntries decimal.Decimal `json:"monthPendingEntries"` // pending entries in month
	MonthPendingExits   decimal.Decimal `json:"monthPendingExits"`   // pending exits in month
	AllTimeBalance      decimal.Decimal `json:"allTimeBalance"`      // completed balance, not month-scoped
	EntriesCount        int             `json:"entriesCount"`        // completed entries in month
	ExitsCount          int             `json:"exitsCount"`          // completed exits in month
	PendingEntriesCount int             `json:"pendingEntriesCount"`
	PendingExitsCount   int             `json:"pendingExitsCount"`
	TotalPendingCount   int             `json:"totalPendingCount"`
}

// StoreStats reports per-collection record counts for the data management view.
type StoreStats struct {
	TotalTransactions int `json:"totalTransactions"`
	TotalEntries      int `json:"totalEntries"`
	TotalExits        int `json:"totalExits"`
	CollectionsCount  int `json:"collectionsCount"`
}
