// internal/app/system/paging/paging.go
package paging

import (
	"net/http"
	"strconv"

	"github.com/dalemusser/waffle/pantry/query"
)

// DefaultPageSize is the number of rows returned by list endpoints when
// the caller does not ask for a specific limit.
const DefaultPageSize = 20

// MaxPageSize caps the per-request limit so a single call cannot pull an
// unbounded result set.
const MaxPageSize = 100

// Page holds the parsed pagination parameters of a list request.
type Page struct {
	Number int // 1-based
	Limit  int
}

// Skip returns the number of documents to skip for this page.
func (p Page) Skip() int64 { return int64((p.Number - 1) * p.Limit) }

// Parse extracts "page" and "limit" query parameters. Missing or invalid
// values fall back to page 1 and DefaultPageSize; limit is clamped to
// MaxPageSize.
func Parse(r *http.Request) Page {
	p := Page{Number: 1, Limit: DefaultPageSize}

	if s := query.Get(r, "page"); s != "" {
		if n, err := strconv.Atoi(s); err == nil && n >= 1 {
			p.Number = n
		}
	}
	if s := query.Get(r, "limit"); s != "" {
		if n, err := strconv.Atoi(s); err == nil && n >= 1 {
			p.Limit = n
		}
	}
	if p.Limit > MaxPageSize {
		p.Limit = MaxPageSize
	}
	return p
}

// Pages returns the total page count for a result set of total rows.
func (p Page) Pages(total int64) int64 {
	if total == 0 {
		return 0
	}
	return (total + int64(p.Limit) - 1) / int64(p.Limit)
}
