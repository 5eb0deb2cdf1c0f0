// Package collection loads records for a table: the fetcher contract, the
// response schema, an HTTP fetcher and the session tying fetches to grid
// state.
package collection

import (
	"context"
	"encoding/json"
	"maps"
	"strconv"

	"github.com/leadops/leadctl/internal/grid"
)

// Record is one row of a collection. Fields holds the decoded JSON object,
// id included; ID is its normalized string form.
type Record struct {
	ID     string
	Fields map[string]any
}

// Get returns a top-level field.
func (r Record) Get(key string) any {
	return r.Fields[key]
}

func (r Record) MarshalJSON() ([]byte, error) {
	if r.Fields == nil {
		return json.Marshal(map[string]any{"id": r.ID})
	}
	return json.Marshal(r.Fields)
}

// IDOf returns the record id. It is the ID func of every record table.
func IDOf(r Record) string {
	return r.ID
}

// Params are the inputs of one fetch.
type Params struct {
	Page    int
	Limit   grid.PageSize
	Search  string
	Filters map[string]string
}

// ParamsFromState builds the fetch parameters for a view state.
func ParamsFromState(s grid.State) Params {
	return Params{
		Page:    max(s.Page, 1),
		Limit:   s.RowsPerPage,
		Search:  s.Search,
		Filters: maps.Clone(s.Filters),
	}
}

// PageMeta is the pagination block of a server-paginated response.
type PageMeta struct {
	Total      int `json:"total"`
	TotalPages int `json:"totalPages"`
}

// ServerPage converts the metadata for the pagination reconciler.
func (m *PageMeta) ServerPage() *grid.ServerPage {
	if m == nil {
		return nil
	}
	return &grid.ServerPage{Total: m.Total, TotalPages: m.TotalPages}
}

// Result is one decoded response. A nil Pagination means the items are the
// complete record set and paging happens locally.
type Result struct {
	Items      []Record  `json:"items"`
	Pagination *PageMeta `json:"pagination,omitempty"`
}

// Fetcher loads records.
type Fetcher interface {
	Fetch(ctx context.Context, p Params) (Result, error)
}

// FetcherFunc adapts a function to Fetcher.
type FetcherFunc func(ctx context.Context, p Params) (Result, error)

func (f FetcherFunc) Fetch(ctx context.Context, p Params) (Result, error) {
	return f(ctx, p)
}

// StaticFetcher serves a fixed record set without server pagination.
func StaticFetcher(records []Record) Fetcher {
	return FetcherFunc(func(ctx context.Context, _ Params) (Result, error) {
		if err := ctx.Err(); err != nil {
			return Result{}, err
		}
		return Result{Items: records}, nil
	})
}

func idString(v any) (string, bool) {
	switch id := v.(type) {
	case string:
		return id, id != ""
	case json.Number:
		return id.String(), true
	case float64:
		return strconv.FormatFloat(id, 'f', -1, 64), true
	case int:
		return strconv.Itoa(id), true
	case int64:
		return strconv.FormatInt(id, 10), true
	default:
		return "", false
	}
}
