// Package session owns the filter, search and pagination state of one list
// view. It keeps the current page inside the valid window as result counts
// move, debounces keystroke-level search input, and hands out generation
// numbers so stale responses can be discarded.
package session

import (
	"sync"
	"time"
)

// DefaultPageSize matches the dashboard's standard table page.
const DefaultPageSize = 25

// Filters are the list-view query parameters understood by the remote
// boundary.
type Filters struct {
	Search    string
	Status    string
	Warehouse string
	CargoType string
	Ordering  string
}

// FilterPatch updates a subset of the filters; nil fields are untouched.
type FilterPatch struct {
	Search    *string
	Status    *string
	Warehouse *string
	CargoType *string
	Ordering  *string
}

// Session is owned by a single view. All methods are safe for use from the
// debounce timer goroutine.
type Session struct {
	mu         sync.Mutex
	filters    Filters
	page       int
	pageSize   int
	total      int // -1 until the first result count arrives
	generation uint64
	debounce   time.Duration
	timer      *time.Timer
	pending    string
	closed     bool
	onChange   func(generation uint64, filters Filters, page int)
}

// New creates a session starting on page 1. onChange fires whenever the
// active query state changes and a refetch is needed; it may be nil.
func New(pageSize int, onChange func(generation uint64, filters Filters, page int)) *Session {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	return &Session{
		page:     1,
		pageSize: pageSize,
		total:    -1,
		debounce: 300 * time.Millisecond,
		onChange: onChange,
	}
}

// SetDebounce overrides the search input debounce interval.
func (s *Session) SetDebounce(d time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.debounce = d
}

// Filters returns a copy of the active filters.
func (s *Session) Filters() Filters {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.filters
}

// CurrentPage returns the active page, always >= 1.
func (s *Session) CurrentPage() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.page
}

// PageSize returns the active page size.
func (s *Session) PageSize() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pageSize
}

// Generation returns the number identifying the current query state.
func (s *Session) Generation() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.generation
}

// IsCurrent reports whether a response tagged with gen still matches the
// active query state. Stale responses must not be applied.
func (s *Session) IsCurrent(gen uint64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return gen == s.generation
}

// SetFilters applies a partial filter update, resets to page 1 and starts a
// new generation.
func (s *Session) SetFilters(patch FilterPatch) {
	s.mu.Lock()
	if patch.Search != nil {
		s.filters.Search = *patch.Search
	}
	if patch.Status != nil {
		s.filters.Status = *patch.Status
	}
	if patch.Warehouse != nil {
		s.filters.Warehouse = *patch.Warehouse
	}
	if patch.CargoType != nil {
		s.filters.CargoType = *patch.CargoType
	}
	if patch.Ordering != nil {
		s.filters.Ordering = *patch.Ordering
	}
	s.page = 1
	s.total = -1
	s.advanceLocked()
}

// SetPage moves to the requested page, clamped into the valid window.
func (s *Session) SetPage(page int) {
	s.mu.Lock()
	s.page = s.clampLocked(page)
	s.advanceLocked()
}

// SetPageSize changes the page size and re-clamps the current page.
func (s *Session) SetPageSize(size int) {
	s.mu.Lock()
	if size <= 0 {
		size = DefaultPageSize
	}
	s.pageSize = size
	s.page = s.clampLocked(s.page)
	s.advanceLocked()
}

// OnResultCountChanged records the total reported by the latest fetch.
// When the count shrinks below the current window the page clamps to the
// last valid one and the caller must refetch at the returned page.
func (s *Session) OnResultCountChanged(total int) (page int, refetch bool) {
	s.mu.Lock()
	if total < 0 {
		total = 0
	}
	s.total = total
	clamped := s.clampLocked(s.page)
	if clamped == s.page {
		page = s.page
		s.mu.Unlock()
		return page, false
	}
	s.page = clamped
	s.advanceLocked()
	return clamped, true
}

// SearchInput feeds keystroke-level input. The active search term only
// updates after the debounce interval elapses with no further input.
func (s *Session) SearchInput(term string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.pending = term
	if s.timer != nil {
		s.timer.Stop()
	}
	s.timer = time.AfterFunc(s.debounce, func() {
		s.mu.Lock()
		if s.closed || s.pending == s.filters.Search {
			s.mu.Unlock()
			return
		}
		s.filters.Search = s.pending
		s.page = 1
		s.total = -1
		s.advanceLocked()
	})
}

// Close cancels any pending debounce timer and stops onChange from firing
// again. A view tears its session down with Close when it goes away.
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	s.onChange = nil
}

// SubmitSearch updates the active search term immediately, for the
// search-on-Enter mode, decoupled from whatever input is pending.
func (s *Session) SubmitSearch(term string) {
	s.mu.Lock()
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	s.pending = term
	if term == s.filters.Search {
		s.mu.Unlock()
		return
	}
	s.filters.Search = term
	s.page = 1
	s.total = -1
	s.advanceLocked()
}

// clampLocked keeps the page inside 1..max(1, ceil(total/pageSize)).
func (s *Session) clampLocked(page int) int {
	if page < 1 {
		return 1
	}
	if s.total < 0 {
		return page
	}
	maxPage := (s.total + s.pageSize - 1) / s.pageSize
	if maxPage < 1 {
		maxPage = 1
	}
	if page > maxPage {
		return maxPage
	}
	return page
}

// advanceLocked bumps the generation and fires onChange. It releases the
// lock before the callback so handlers can call back into the session.
func (s *Session) advanceLocked() {
	s.generation++
	gen := s.generation
	filters := s.filters
	page := s.page
	fn := s.onChange
	s.mu.Unlock()
	if fn != nil {
		fn(gen, filters, page)
	}
}
