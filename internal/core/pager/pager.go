// Package pager owns the page, limit and filter state of one ledger view
// and turns state changes into asynchronous fetches with last-request-wins
// commit semantics.
package pager

import (
	"context"
	"sync"
	"time"

	"github.com/ascaixa/treasury-backend/internal/core/domain"
	portssvc "github.com/ascaixa/treasury-backend/internal/core/ports/services"
	"github.com/ascaixa/treasury-backend/internal/platform/config"
)

// FetchFunc loads one page of the ledger for the given filter.
type FetchFunc func(ctx context.Context, filter domain.TransactionFilter, page, limit int) (*domain.TransactionPage, error)

// State models the fetch lifecycle of the controller.
type State int

const (
	Idle State = iota
	Loading
	Loaded
	Failed
)

// Snapshot is the consistent view exposed upward: data and meta always
// belong to the same fetch.
type Snapshot struct {
	Data    []domain.Transaction
	Meta    domain.PageMeta
	State   State
	Loading bool
	Err     string // error message for display, empty when none
}

const (
	defaultLimit    = 30
	defaultDebounce = 500 * time.Millisecond
)

// Pager is the pagination controller. All mutators re-enter Loading and
// dispatch a fetch tagged with a generation number; a response belonging to
// a superseded generation never overwrites fresher state. Free-text search
// is debounced at the trigger boundary instead of cancelling in-flight
// requests.
type Pager struct {
	mu sync.Mutex

	ctx      context.Context
	fetch    FetchFunc
	onChange func(Snapshot)

	filter   domain.TransactionFilter
	search   string
	page     int
	limit    int
	debounce time.Duration
	timer    *time.Timer

	generation uint64
	state      State
	data       []domain.Transaction
	meta       domain.PageMeta
	errMsg     string
}

// Option configures a Pager.
type Option func(*Pager)

// WithLimit sets the initial page size.
func WithLimit(limit int) Option {
	return func(p *Pager) {
		if limit > 0 {
			p.limit = limit
		}
	}
}

// WithDebounce sets the free-text search debounce interval.
func WithDebounce(d time.Duration) Option {
	return func(p *Pager) {
		p.debounce = d
	}
}

// WithOnChange registers a callback invoked after every state transition
// with the fresh snapshot. It is called outside the pager lock.
func WithOnChange(fn func(Snapshot)) Option {
	return func(p *Pager) {
		p.onChange = fn
	}
}

// New creates a pager over the fetch function. The first page is not loaded
// until Refresh or any mutator is called.
func New(ctx context.Context, fetch FetchFunc, options ...Option) *Pager {
	p := &Pager{
		ctx:      ctx,
		fetch:    fetch,
		page:     1,
		limit:    defaultLimit,
		debounce: defaultDebounce,
		state:    Idle,
		meta:     domain.ZeroPageMeta(1, defaultLimit),
	}
	for _, option := range options {
		option(p)
	}
	p.meta = domain.ZeroPageMeta(p.page, p.limit)
	return p
}

// NewLedgerPager binds a pager to the unified ledger view, taking its page
// size and search debounce from the application config. Later options
// override the configured values.
func NewLedgerPager(ctx context.Context, ledger portssvc.LedgerSvc, cfg *config.Config, options ...Option) *Pager {
	configured := []Option{WithLimit(cfg.DefaultPageLimit), WithDebounce(cfg.SearchDebounce)}
	return New(ctx, ledger.List, append(configured, options...)...)
}

// SetPage requests another page. The page is not clamped: a page past the
// end legally yields an empty page with accurate meta.
func (p *Pager) SetPage(page int) {
	p.mu.Lock()
	if page < 1 {
		page = 1
	}
	p.page = page
	p.reloadLocked()
	p.mu.Unlock()
}

// SetLimit changes the page size and always resets to page 1, since a new
// page size invalidates prior page offsets.
func (p *Pager) SetLimit(limit int) {
	if limit <= 0 {
		return
	}
	p.mu.Lock()
	p.limit = limit
	p.page = 1
	p.reloadLocked()
	p.mu.Unlock()
}

// SetFilter replaces the structured filter (the debounced search text is
// kept) and refetches.
func (p *Pager) SetFilter(filter domain.TransactionFilter) {
	p.mu.Lock()
	filter.Title = p.filter.Title
	p.filter = filter
	p.reloadLocked()
	p.mu.Unlock()
}

// SetMonth constrains the view to a calendar month and refetches.
func (p *Pager) SetMonth(year int, month time.Month) {
	p.mu.Lock()
	start, end := domain.MonthWindow(year, month)
	p.filter.StartDate = &start
	p.filter.EndDate = &end
	p.reloadLocked()
	p.mu.Unlock()
}

// SetSearch updates the free-text filter after the debounce interval of
// input inactivity. Each keystroke restarts the interval.
func (p *Pager) SetSearch(query string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.search = query
	if p.timer != nil {
		p.timer.Stop()
	}
	if p.debounce <= 0 {
		p.commitSearchLocked(query)
		return
	}
	p.timer = time.AfterFunc(p.debounce, func() {
		p.mu.Lock()
		// A later keystroke may have superseded this one.
		if p.search == query {
			p.commitSearchLocked(query)
		}
		p.mu.Unlock()
	})
}

func (p *Pager) commitSearchLocked(query string) {
	p.filter.Title = query
	p.reloadLocked()
}

// Refresh refetches the current page with the current filter.
func (p *Pager) Refresh() {
	p.mu.Lock()
	p.reloadLocked()
	p.mu.Unlock()
}

// Close stops any pending debounce timer.
func (p *Pager) Close() {
	p.mu.Lock()
	if p.timer != nil {
		p.timer.Stop()
	}
	p.mu.Unlock()
}

// Snapshot returns a copy of the current view state.
func (p *Pager) Snapshot() Snapshot {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.snapshotLocked()
}

func (p *Pager) snapshotLocked() Snapshot {
	data := make([]domain.Transaction, len(p.data))
	copy(data, p.data)
	return Snapshot{
		Data:    data,
		Meta:    p.meta,
		State:   p.state,
		Loading: p.state == Loading,
		Err:     p.errMsg,
	}
}

// reloadLocked bumps the generation, enters Loading and dispatches the
// fetch. The goroutine captures the generation at dispatch time and commits
// only if it still matches when the response arrives.
func (p *Pager) reloadLocked() {
	p.generation++
	generation := p.generation
	p.state = Loading
	p.errMsg = ""
	filter, page, limit := p.filter, p.page, p.limit
	p.notifyLocked()

	go func() {
		result, err := p.fetch(p.ctx, filter, page, limit)

		p.mu.Lock()
		if generation != p.generation {
			// A newer request was issued; this response is stale.
			p.mu.Unlock()
			return
		}
		if err != nil {
			p.state = Failed
			p.data = nil
			p.meta = domain.ZeroPageMeta(page, limit)
			p.errMsg = err.Error()
		} else {
			// Data and meta swap together; they are never replaced independently.
			p.state = Loaded
			p.data = result.Data
			p.meta = result.Meta
			p.errMsg = ""
		}
		p.notifyLocked()
		p.mu.Unlock()
	}()
}

func (p *Pager) notifyLocked() {
	if p.onChange == nil {
		return
	}
	snapshot := p.snapshotLocked()
	go p.onChange(snapshot)
}
