package collection

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
)

// SchemaError reports a response that does not match the collection schema:
//
//	{"items": [{"id": string|number, ...}], "pagination"?: {"total": int, "totalPages": int}}
type SchemaError struct {
	// Path locates the offending value, e.g. "items[3].id".
	Path   string
	Reason string
}

func (e *SchemaError) Error() string {
	if e.Path == "" {
		return "invalid response: " + e.Reason
	}
	return fmt.Sprintf("invalid response: %s: %s", e.Path, e.Reason)
}

// IsSchemaError reports whether err is or wraps a *SchemaError.
func IsSchemaError(err error) bool {
	var se *SchemaError
	return errors.As(err, &se)
}

type wireResponse struct {
	Items      *[]json.RawMessage `json:"items"`
	Pagination *wirePagination    `json:"pagination"`
}

type wirePagination struct {
	Total      *json.Number `json:"total"`
	TotalPages *json.Number `json:"totalPages"`
}

// Decode reads and validates one collection response. Numbers inside items
// are kept as json.Number.
func Decode(r io.Reader) (Result, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return Result{}, fmt.Errorf("reading response: %w", err)
	}

	var wire wireResponse
	if err := json.Unmarshal(data, &wire); err != nil {
		return Result{}, &SchemaError{Reason: err.Error()}
	}
	if wire.Items == nil {
		return Result{}, &SchemaError{Path: "items", Reason: "missing"}
	}

	items := make([]Record, 0, len(*wire.Items))
	seen := make(map[string]int, len(*wire.Items))
	for i, raw := range *wire.Items {
		path := fmt.Sprintf("items[%d]", i)

		dec := json.NewDecoder(bytes.NewReader(raw))
		dec.UseNumber()
		var fields map[string]any
		if err := dec.Decode(&fields); err != nil || fields == nil {
			return Result{}, &SchemaError{Path: path, Reason: "not an object"}
		}

		rawID, ok := fields["id"]
		if !ok || rawID == nil {
			return Result{}, &SchemaError{Path: path + ".id", Reason: "missing"}
		}
		id, ok := idString(rawID)
		if !ok {
			return Result{}, &SchemaError{
				Path:   path + ".id",
				Reason: fmt.Sprintf("must be a non-empty string or a number, got %v", rawID),
			}
		}
		if first, dup := seen[id]; dup {
			return Result{}, &SchemaError{
				Path:   path + ".id",
				Reason: fmt.Sprintf("duplicate id %q, first seen at items[%d]", id, first),
			}
		}
		seen[id] = i
		items = append(items, Record{ID: id, Fields: fields})
	}

	res := Result{Items: items}
	if wire.Pagination != nil {
		total, err := nonNegative("pagination.total", wire.Pagination.Total, true)
		if err != nil {
			return Result{}, err
		}
		pages, err := nonNegative("pagination.totalPages", wire.Pagination.TotalPages, false)
		if err != nil {
			return Result{}, err
		}
		res.Pagination = &PageMeta{Total: total, TotalPages: max(pages, 1)}
	}
	return res, nil
}

func nonNegative(path string, n *json.Number, required bool) (int, error) {
	if n == nil {
		if required {
			return 0, &SchemaError{Path: path, Reason: "missing"}
		}
		return 0, nil
	}
	v, err := n.Int64()
	if err != nil {
		return 0, &SchemaError{Path: path, Reason: fmt.Sprintf("must be an integer, got %s", n.String())}
	}
	if v < 0 {
		return 0, &SchemaError{Path: path, Reason: fmt.Sprintf("must not be negative, got %d", v)}
	}
	return int(v), nil
}
