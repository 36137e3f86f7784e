// Package dataprovider adapts the paged Query/Result contract of backend
// services to a grid's pull-based data access: the grid asks for a window
// (filter, sort, offset, limit) and gets rows plus a total count back.
//
// It is a read path. Service failures degrade to an empty page or a zero
// count and are logged; nothing here returns an error to the grid.
package dataprovider

import (
	"context"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/dalemusser/adminhub/internal/app/system/paging"
	"go.uber.org/zap"
)

// MinFilterLength is the shortest filter accepted by providers that refuse
// empty filters.
const MinFilterLength = 3

// FetchFunc retrieves one page for a query. Implementations report transport
// problems through Result.Success rather than panicking.
type FetchFunc[T any] func(ctx context.Context, q paging.Query) paging.Result[paging.Page[T]]

// CountFunc counts the rows matching a filter.
type CountFunc func(ctx context.Context, q paging.CountQuery) paging.Result[int64]

// Refresher is the widget side of the provider: it drops cached rows so the
// next read goes back to the provider.
type Refresher[T any] interface {
	RefreshAll()
	RefreshItem(item T)
}

// Options configures a Provider.
type Options[T any] struct {
	// Name identifies the provider in logs.
	Name string

	// DefaultSort is applied when the grid supplies no sort orders.
	DefaultSort []paging.SortOrder

	// GuardShortFilter enables the external-directory guard: blank filters
	// and filters shorter than MinFilterLength return no rows without a
	// service call. AllowEmptyFilter lets blank filters through; one or two
	// characters stay guarded.
	GuardShortFilter bool
	AllowEmptyFilter bool

	// OnPage, when set, is called with every fetched page. It is best effort:
	// a panic inside it is recovered and logged.
	OnPage func(paging.Page[T])
}

// Provider is a filterable, paged data provider bound to one backend.
type Provider[T any] struct {
	fetch FetchFunc[T]
	count CountFunc
	opts  Options[T]
	log   *zap.Logger

	mu           sync.Mutex
	filterText   *string
	showInactive *bool
	widget       Refresher[T]
}

// New builds a Provider over the given fetch and count functions.
func New[T any](fetch FetchFunc[T], count CountFunc, opts Options[T], logger *zap.Logger) *Provider[T] {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Provider[T]{
		fetch: fetch,
		count: count,
		opts:  opts,
		log:   logger.With(zap.String("provider", opts.Name)),
	}
}

// Attach connects the widget that SetFilter and the refresh methods notify.
func (p *Provider[T]) Attach(w Refresher[T]) {
	p.mu.Lock()
	p.widget = w
	p.mu.Unlock()
}

// FetchPage builds a Query from its inputs, calls the backend, and unwraps
// the result. Failures and missing data both yield an empty page.
func (p *Provider[T]) FetchPage(ctx context.Context, filterText *string, showInactive *bool, sort []paging.SortOrder, offset, limit int) paging.Page[T] {
	if len(sort) == 0 {
		sort = p.opts.DefaultSort
	}
	q := paging.NewQuery(filterText, showInactive, sort, offset, limit)
	if err := q.Validate(); err != nil {
		p.log.Warn("rejected page request", zap.Error(err))
		return paging.EmptyPage[T]()
	}
	if p.guarded(q.Filter()) {
		return paging.EmptyPage[T]()
	}

	res := p.callFetch(ctx, q)
	page := paging.EmptyPage[T]()
	if !res.Success {
		p.log.Warn("page fetch failed; showing no rows",
			zap.String("message", res.Message),
			zap.Int("offset", offset),
			zap.Int("limit", limit))
	} else if res.Data != nil {
		page = *res.Data
		if page.Content == nil {
			page.Content = []T{}
		}
	}

	p.notify(page)
	return page
}

// CountMatching returns the number of rows matching the filter, or 0 when
// the backend fails or the short-filter guard applies.
func (p *Provider[T]) CountMatching(ctx context.Context, filterText *string, showInactive *bool) int64 {
	q := paging.CountQuery{FilterText: filterText, ShowInactive: showInactive}
	if p.guarded(q.Filter()) {
		return 0
	}
	if p.count == nil {
		return 0
	}

	res := p.callCount(ctx, q)
	n, ok := res.Value()
	if !ok {
		if !res.Success {
			p.log.Warn("count failed; reporting zero", zap.String("message", res.Message))
		}
		return 0
	}
	return n
}

// Fetch reads a window using the provider's current filter.
func (p *Provider[T]) Fetch(ctx context.Context, sort []paging.SortOrder, offset, limit int) paging.Page[T] {
	ft, si := p.Filter()
	return p.FetchPage(ctx, ft, si, sort, offset, limit)
}

// Count counts rows using the provider's current filter.
func (p *Provider[T]) Count(ctx context.Context) int64 {
	ft, si := p.Filter()
	return p.CountMatching(ctx, ft, si)
}

// SetFilter replaces the active filter and asks the attached widget to
// re-read from the first row.
func (p *Provider[T]) SetFilter(filterText *string, showInactive *bool) {
	p.mu.Lock()
	p.filterText = filterText
	p.showInactive = showInactive
	w := p.widget
	p.mu.Unlock()

	if w != nil {
		w.RefreshAll()
	}
}

// Filter returns the active filter.
func (p *Provider[T]) Filter() (filterText *string, showInactive *bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.filterText, p.showInactive
}

// RefreshAll invalidates every cached row in the attached widget.
func (p *Provider[T]) RefreshAll() {
	if w := p.attached(); w != nil {
		w.RefreshAll()
	}
}

// RefreshItem invalidates one cached row in the attached widget.
func (p *Provider[T]) RefreshItem(item T) {
	if w := p.attached(); w != nil {
		w.RefreshItem(item)
	}
}

func (p *Provider[T]) attached() Refresher[T] {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.widget
}

// guarded reports whether the short-filter guard suppresses this filter.
func (p *Provider[T]) guarded(filter string) bool {
	if !p.opts.GuardShortFilter {
		return false
	}
	n := utf8.RuneCountInString(strings.TrimSpace(filter))
	if n == 0 {
		return !p.opts.AllowEmptyFilter
	}
	return n < MinFilterLength
}

func (p *Provider[T]) callFetch(ctx context.Context, q paging.Query) (res paging.Result[paging.Page[T]]) {
	defer func() {
		if rec := recover(); rec != nil {
			p.log.Error("fetch function panicked", zap.Any("panic", rec))
			res = paging.Fail[paging.Page[T]]("fetch failed")
		}
	}()
	return p.fetch(ctx, q)
}

func (p *Provider[T]) callCount(ctx context.Context, q paging.CountQuery) (res paging.Result[int64]) {
	defer func() {
		if rec := recover(); rec != nil {
			p.log.Error("count function panicked", zap.Any("panic", rec))
			res = paging.Fail[int64]("count failed")
		}
	}()
	return p.count(ctx, q)
}

func (p *Provider[T]) notify(page paging.Page[T]) {
	if p.opts.OnPage == nil {
		return
	}
	defer func() {
		if rec := recover(); rec != nil {
			p.log.Warn("page observer panicked", zap.Any("panic", rec))
		}
	}()
	p.opts.OnPage(page)
}
