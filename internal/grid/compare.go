package grid

import (
	"cmp"
	"encoding/json"
	"fmt"
	"math"
	"reflect"
	"strconv"
	"strings"
	"sync"
	"time"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// dateLayouts are tried in order when a column declares date-like values.
var dateLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
	time.RFC1123Z,
	time.RFC1123,
}

// Comparator orders two arbitrary field values. The zero value is not usable,
// build one with NewComparator.
//
// Values are compared in tiers: nulls first, then timestamps (only when
// dates are requested), then numbers, then a collated string comparison that
// ignores case and orders digit runs numerically. Compare never panics.
type Comparator struct {
	mu       sync.Mutex
	collator *collate.Collator
}

// NewComparator returns a Comparator whose string tier follows the collation
// rules of the given locale. An empty or unparsable tag falls back to the
// root locale.
func NewComparator(locale string) *Comparator {
	tag := language.Und
	if strings.TrimSpace(locale) != "" {
		if parsed, err := language.Parse(locale); err == nil {
			tag = parsed
		}
	}
	return &Comparator{
		collator: collate.New(tag, collate.IgnoreCase, collate.Numeric),
	}
}

var (
	defaultComparatorOnce sync.Once
	defaultComparator     *Comparator
)

// DefaultComparator returns the shared root-locale Comparator.
func DefaultComparator() *Comparator {
	defaultComparatorOnce.Do(func() {
		defaultComparator = NewComparator("")
	})
	return defaultComparator
}

// Compare orders a and b with the default comparator and no date tier.
func Compare(a, b any) int {
	return DefaultComparator().Compare(a, b, false)
}

// Compare returns a negative number when a sorts before b, a positive number
// when it sorts after and zero when they are equivalent. When dates is true
// both values are first tried as timestamps.
func (c *Comparator) Compare(a, b any, dates bool) int {
	aNull, bNull := isNull(a), isNull(b)
	switch {
	case aNull && bNull:
		return 0
	case aNull:
		return -1
	case bNull:
		return 1
	}

	if dates {
		if ta, ok := asTime(a); ok {
			if tb, ok := asTime(b); ok {
				return ta.Compare(tb)
			}
		}
	}

	if fa, ok := asNumber(a); ok {
		if fb, ok := asNumber(b); ok {
			return cmp.Compare(fa, fb)
		}
	}

	return c.compareStrings(stringOf(a), stringOf(b))
}

func (c *Comparator) compareStrings(a, b string) int {
	// collate.Collator keeps internal buffers and is not safe for concurrent use
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.collator.CompareString(a, b)
}

func isNull(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	//nolint: exhaustive
	switch rv.Kind() {
	case reflect.Ptr, reflect.Interface, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan:
		return rv.IsNil()
	default:
		return false
	}
}

func deref(v any) any {
	rv := reflect.ValueOf(v)
	if !rv.IsValid() {
		return nil
	}
	for rv.Kind() == reflect.Ptr || rv.Kind() == reflect.Interface {
		if rv.IsNil() {
			return nil
		}
		rv = rv.Elem()
	}
	return rv.Interface()
}

func asTime(v any) (time.Time, bool) {
	switch t := deref(v).(type) {
	case time.Time:
		return t, true
	case string:
		s := strings.TrimSpace(t)
		if s == "" {
			return time.Time{}, false
		}
		for _, layout := range dateLayouts {
			if parsed, err := time.Parse(layout, s); err == nil {
				return parsed, true
			}
		}
	}
	return time.Time{}, false
}

func asNumber(v any) (float64, bool) {
	var f float64
	switch n := deref(v).(type) {
	case int:
		f = float64(n)
	case int8:
		f = float64(n)
	case int16:
		f = float64(n)
	case int32:
		f = float64(n)
	case int64:
		f = float64(n)
	case uint:
		f = float64(n)
	case uint8:
		f = float64(n)
	case uint16:
		f = float64(n)
	case uint32:
		f = float64(n)
	case uint64:
		f = float64(n)
	case float32:
		f = float64(n)
	case float64:
		f = n
	case bool:
		if n {
			f = 1
		}
	case json.Number:
		parsed, err := n.Float64()
		if err != nil {
			return 0, false
		}
		f = parsed
	case string:
		s := strings.TrimSpace(n)
		if s == "" {
			return 0, false
		}
		parsed, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0, false
		}
		f = parsed
	default:
		return 0, false
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

func stringOf(v any) string {
	switch s := deref(v).(type) {
	case string:
		return s
	case time.Time:
		return s.Format(time.RFC3339Nano)
	case fmt.Stringer:
		return s.String()
	default:
		return fmt.Sprint(s)
	}
}
