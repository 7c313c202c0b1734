// Package pagination tracks cursor state for date-ordered transaction pages.
//
// Cursors are relative: they are derived from the boundary dates of the page
// currently on screen, not from absolute offsets. That keeps pages stable
// when transactions are inserted or deleted concurrently, at the cost of only
// supporting strictly sequential navigation.
package pagination

import (
	"time"

	"bujet/internal/api"
	"bujet/internal/core"
)

// Cursor positions the next fetch. At most one bound is set; the empty
// cursor denotes page 1, the canonical most-recent window.
type Cursor struct {
	Before *time.Time
	After  *time.Time
}

func (c Cursor) IsEmpty() bool {
	return c.Before == nil && c.After == nil
}

// Engine derives the next listing query from the current cursor state and a
// requested navigation move. It performs no fetching itself.
type Engine struct {
	limit       int
	currentPage int
	cursor      Cursor
}

func New(limit int) *Engine {
	if limit < 1 {
		limit = 1
	}
	return &Engine{limit: limit, currentPage: 1}
}

func (e *Engine) Limit() int       { return e.limit }
func (e *Engine) CurrentPage() int { return e.currentPage }
func (e *Engine) Cursor() Cursor   { return e.cursor }

// Query returns the listing query for the engine's current position.
func (e *Engine) Query() api.ListQuery {
	return api.ListQuery{
		Limit:  e.limit,
		Before: e.cursor.Before,
		After:  e.cursor.After,
	}
}

// Next advances one page. The caller passes the page currently displayed
// (newest first) and the total page count derived from a count query. The
// move is refused on an empty page or on the last page.
func (e *Engine) Next(page []core.Transaction, totalPages int) bool {
	if len(page) == 0 {
		return false
	}
	if e.currentPage >= totalPages {
		return false
	}

	// The chronologically oldest item on screen bounds the next window.
	oldest := page[len(page)-1].Date
	e.cursor = Cursor{Before: &oldest}
	e.currentPage++
	return true
}

// Previous steps back one page. A no-op on page 1. Stepping from page 2 to
// page 1 resets the cursor entirely: page 1 is always the plain most-recent
// window, never a cursor-bounded one.
func (e *Engine) Previous(page []core.Transaction) bool {
	if e.currentPage == 1 {
		return false
	}
	if len(page) == 0 || e.currentPage == 2 {
		e.Reset()
		return true
	}

	newest := page[0].Date
	e.cursor = Cursor{After: &newest}
	e.currentPage--
	return true
}

// GoTo moves to page n. Only page 1 and pages adjacent to the current one
// are reachable: boundary cursors cannot express arbitrary jumps, so
// anything else is refused.
func (e *Engine) GoTo(n int, page []core.Transaction, totalPages int) bool {
	switch {
	case n == e.currentPage:
		return false
	case n < 1 || n > totalPages:
		return false
	case n == 1:
		e.Reset()
		return true
	case n == e.currentPage+1:
		return e.Next(page, totalPages)
	case n == e.currentPage-1:
		return e.Previous(page)
	default:
		return false
	}
}

// SetLimit changes the page size. Cursor bounds are defined relative to a
// fixed window size, so any outstanding cursor is invalidated and the engine
// returns to page 1.
func (e *Engine) SetLimit(limit int) {
	if limit < 1 {
		limit = 1
	}
	e.limit = limit
	e.Reset()
}

// Reset returns to page 1 with an empty cursor.
func (e *Engine) Reset() {
	e.cursor = Cursor{}
	e.currentPage = 1
}
