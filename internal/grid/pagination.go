package grid

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// UnlimitedKeyword is the textual form of the unlimited page size.
const UnlimitedKeyword = "unlimited"

var ErrInvalidPageSize = errors.New("invalid page size")

// PageSize is a rows-per-page setting: a positive row count or Unlimited,
// which collapses every record onto a single page.
type PageSize struct {
	rows      int
	unlimited bool
}

// Unlimited is the page size that shows every record on one page.
var Unlimited = PageSize{unlimited: true}

// Rows returns a page size of n rows.
func Rows(n int) PageSize {
	return PageSize{rows: n}
}

// ParsePageSize accepts a positive integer or "unlimited" (also "all").
func ParsePageSize(s string) (PageSize, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	switch s {
	case UnlimitedKeyword, "all":
		return Unlimited, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 1 {
		return PageSize{}, fmt.Errorf("%w %q, must be a positive integer or %q", ErrInvalidPageSize, s, UnlimitedKeyword)
	}
	return Rows(n), nil
}

// IsUnlimited reports whether p is the unlimited page size.
func (p PageSize) IsUnlimited() bool { return p.unlimited }

// Rows returns the row count of a limited page size and 0 for Unlimited.
func (p PageSize) Rows() int {
	if p.unlimited {
		return 0
	}
	return p.rows
}

// Valid reports whether p is Unlimited or at least one row.
func (p PageSize) Valid() bool {
	return p.unlimited || p.rows >= 1
}

func (p PageSize) String() string {
	if p.unlimited {
		return UnlimitedKeyword
	}
	return strconv.Itoa(p.rows)
}

// Set implements pflag.Value.
func (p *PageSize) Set(s string) error {
	parsed, err := ParsePageSize(s)
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}

// Type implements pflag.Value.
func (p *PageSize) Type() string {
	return "int|unlimited"
}

func (p PageSize) MarshalJSON() ([]byte, error) {
	if p.unlimited {
		return json.Marshal(UnlimitedKeyword)
	}
	return json.Marshal(p.rows)
}

func (p *PageSize) UnmarshalJSON(data []byte) error {
	var n int
	if err := json.Unmarshal(data, &n); err == nil {
		return p.Set(strconv.Itoa(n))
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidPageSize, string(data))
	}
	return p.Set(s)
}

// ParsePageSizes parses a list of rows-per-page options, skipping blanks.
func ParsePageSizes(values []string) ([]PageSize, error) {
	out := make([]PageSize, 0, len(values))
	for _, v := range values {
		if strings.TrimSpace(v) == "" {
			continue
		}
		p, err := ParsePageSize(v)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, nil
}

// DefaultPageSizes are the rows-per-page options offered when none are
// configured.
var DefaultPageSizes = []PageSize{Rows(10), Rows(25), Rows(50), Unlimited}

// ServerPage is the pagination metadata reported by a paginating server.
type ServerPage struct {
	Total      int
	TotalPages int
}

// Pagination is the reconciled pagination of one rendered page. Page never
// exceeds TotalPages and TotalPages is at least 1.
type Pagination struct {
	Page        int      `json:"page"`
	RowsPerPage PageSize `json:"rowsPerPage"`
	PerPage     int      `json:"perPage"`
	TotalItems  int      `json:"totalItems"`
	TotalPages  int      `json:"totalPages"`
	Start       int      `json:"start"`
	End         int      `json:"end"`
	// Requested is the page asked for before clamping.
	Requested int `json:"-"`
}

// Paginate computes client-side pagination for totalItems locally held
// records.
func Paginate(page int, size PageSize, totalItems int) Pagination {
	totalItems = max(totalItems, 0)
	perPage := size.Rows()
	totalPages := 1
	if size.IsUnlimited() || perPage < 1 {
		size = Unlimited
		perPage = max(totalItems, 1)
	} else {
		totalPages = max(1, (totalItems+perPage-1)/perPage)
	}
	return finish(page, size, perPage, totalItems, totalPages)
}

// Reconcile computes pagination for a server-paginated response. The server
// totals are authoritative, except that TotalPages never falls below what
// Total needs at this page size. The requested page is still clamped into
// range.
func Reconcile(page int, size PageSize, server ServerPage) Pagination {
	totalItems := max(server.Total, 0)
	perPage := size.Rows()
	totalPages := max(server.TotalPages, 1)
	if perPage > 0 {
		totalPages = max(totalPages, (totalItems+perPage-1)/perPage)
	}
	if size.IsUnlimited() || perPage < 1 {
		size = Unlimited
		perPage = max(totalItems, 1)
		totalPages = 1
	}
	return finish(page, size, perPage, totalItems, totalPages)
}

func finish(page int, size PageSize, perPage, totalItems, totalPages int) Pagination {
	safe := min(max(page, 1), totalPages)
	p := Pagination{
		Page:        safe,
		RowsPerPage: size,
		PerPage:     perPage,
		TotalItems:  totalItems,
		TotalPages:  totalPages,
		End:         min(safe*perPage, totalItems),
		Requested:   page,
	}
	if totalItems > 0 {
		p.Start = (safe-1)*perPage + 1
	}
	return p
}

// Clamped reports whether the requested page was out of range and was
// moved onto the last page.
func (p Pagination) Clamped() bool {
	return p.Requested > p.Page
}

// Offset is the zero-based index of the first row of the page.
func (p Pagination) Offset() int {
	return (p.Page - 1) * p.PerPage
}

// CanPrev reports whether a previous page exists.
func (p Pagination) CanPrev() bool {
	return p.Page > 1
}

// CanNext reports whether a next page exists.
func (p Pagination) CanNext() bool {
	return p.Page < p.TotalPages
}

// PageNumbers lists the page buttons to render. Unlimited mode renders none.
func (p Pagination) PageNumbers() []int {
	if p.RowsPerPage.IsUnlimited() {
		return nil
	}
	pages := make([]int, p.TotalPages)
	for i := range pages {
		pages[i] = i + 1
	}
	return pages
}

// RangeText renders the displayed index range, e.g. "11–20 of 25". An empty
// set renders as "0 of 0".
func (p Pagination) RangeText() string {
	if p.TotalItems == 0 {
		return "0 of 0"
	}
	return fmt.Sprintf("%d–%d of %d", p.Start, p.End, p.TotalItems)
}

// SliceRows returns the rows of the page described by p.
func SliceRows[R any](records []R, p Pagination) []R {
	if p.RowsPerPage.IsUnlimited() {
		return records
	}
	start := p.Offset()
	if start >= len(records) || start < 0 {
		return nil
	}
	end := min(start+p.PerPage, len(records))
	return records[start:end]
}
