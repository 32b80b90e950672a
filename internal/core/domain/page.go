package domain

// PageMeta is the pagination bookkeeping that accompanies a page of the
// ledger. It is always recomputed from the post-filter total of the merged
// set, never from either collection's own count.
type PageMeta struct {
	CurrentPage int  `json:"currentPage"`
	TotalPages  int  `json:"totalPages"`
	TotalCount  int  `json:"totalCount"`
	Limit       int  `json:"limit"`
	HasNext     bool `json:"hasNext"`
	HasPrev     bool `json:"hasPrev"`
}

// NewPageMeta derives the full meta from a page, limit and total count.
func NewPageMeta(page, limit, totalCount int) PageMeta {
	totalPages := 0
	if limit > 0 {
		totalPages = (totalCount + limit - 1) / limit
	}
	return PageMeta{
		CurrentPage: page,
		TotalPages:  totalPages,
		TotalCount:  totalCount,
		Limit:       limit,
		HasNext:     page < totalPages,
		HasPrev:     page > 1,
	}
}

// ZeroPageMeta is the shape-valid meta used after a failed fetch: counts are
// zeroed while the requested page and limit are preserved.
func ZeroPageMeta(page, limit int) PageMeta {
	return PageMeta{CurrentPage: page, Limit: limit}
}

// TransactionPage is a bounded slice of the unified ledger plus its meta.
// Data and Meta travel as one value so they are always replaced atomically.
type TransactionPage struct {
	Data []Transaction `json:"data"`
	Meta PageMeta      `json:"pagination"`
}
