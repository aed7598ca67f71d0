// Package listview derives the visible page of an admin list (filter,
// search, sort, paginate) and holds the list state a binding reads from.
package listview

import (
	"errors"
	"slices"
	"strings"

	"golang.org/x/text/cases"
)

var (
	ErrUnknownFilter   = errors.New("unknown filter")
	ErrUnknownSort     = errors.New("unknown sort")
	ErrInvalidPageSize = errors.New("invalid page size")
)

// Filter is a named predicate. A nil Match accepts every record.
type Filter[T any] struct {
	Key   string
	Label string
	Match func(T) bool
}

// Sort is a named three-way comparator ordering records ascending.
type Sort[T any] struct {
	Key     string
	Label   string
	Compare func(a, b T) int
}

// Config describes one record kind.
type Config[T any] struct {
	Name         string
	ID           func(T) string
	SearchFields func(T) []string
	Filters      []Filter[T]
	Sorts        []Sort[T]

	DefaultFilter   string
	DefaultSort     string
	DefaultDesc     bool
	DefaultPageSize int
	PageSizes       []int
}

// DefaultParams returns the initial list parameters for c.
func (c Config[T]) DefaultParams() Params {
	return Params{
		Filter:   c.DefaultFilter,
		Sort:     c.DefaultSort,
		Desc:     c.DefaultDesc,
		Page:     1,
		PageSize: c.DefaultPageSize,
	}
}

func (c Config[T]) filter(key string) (Filter[T], bool) {
	for _, f := range c.Filters {
		if f.Key == key {
			return f, true
		}
	}
	return Filter[T]{}, false
}

func (c Config[T]) sort(key string) (Sort[T], bool) {
	for _, s := range c.Sorts {
		if s.Key == key {
			return s, true
		}
	}
	return Sort[T]{}, false
}

func (c Config[T]) validPageSize(n int) bool {
	return slices.Contains(c.PageSizes, n)
}

// FilterKeys returns filter keys in display order.
func (c Config[T]) FilterKeys() []string {
	keys := make([]string, len(c.Filters))
	for i, f := range c.Filters {
		keys[i] = f.Key
	}
	return keys
}

// SortKeys returns sort keys in display order.
func (c Config[T]) SortKeys() []string {
	keys := make([]string, len(c.Sorts))
	for i, s := range c.Sorts {
		keys[i] = s.Key
	}
	return keys
}

// Params are the user-controlled list parameters.
type Params struct {
	Filter   string
	Query    string
	Sort     string
	Desc     bool
	Page     int
	PageSize int
}

// View is one derived page.
type View[T any] struct {
	Items      []T
	Matched    int
	Total      int
	Page       int
	PageSize   int
	TotalPages int
}

// Derive computes the visible page for records under p. It does not modify
// records. Unknown filter or sort keys fall back to no filtering and input
// order respectively; the page is clamped to [1, TotalPages].
func Derive[T any](records []T, p Params, cfg Config[T]) View[T] {
	matched := make([]T, 0, len(records))

	f, _ := cfg.filter(p.Filter)
	q := strings.TrimSpace(p.Query)
	folder := cases.Fold()
	if q != "" {
		q = folder.String(q)
	}

	for _, r := range records {
		if f.Match != nil && !f.Match(r) {
			continue
		}
		if q != "" && !matchesQuery(folder, cfg.SearchFields(r), q) {
			continue
		}
		matched = append(matched, r)
	}

	if s, ok := cfg.sort(p.Sort); ok && s.Compare != nil {
		cmp := s.Compare
		if p.Desc {
			cmp = func(a, b T) int { return s.Compare(b, a) }
		}
		slices.SortStableFunc(matched, cmp)
	}

	size := p.PageSize
	if size <= 0 {
		size = cfg.DefaultPageSize
	}
	if size <= 0 {
		size = 10
	}
	total := totalPages(len(matched), size)
	page := clamp(p.Page, 1, total)

	start := min((page-1)*size, len(matched))
	end := min(start+size, len(matched))

	return View[T]{
		Items:      matched[start:end],
		Matched:    len(matched),
		Total:      len(records),
		Page:       page,
		PageSize:   size,
		TotalPages: total,
	}
}

func matchesQuery(folder cases.Caser, fields []string, q string) bool {
	for _, field := range fields {
		if strings.Contains(folder.String(field), q) {
			return true
		}
	}
	return false
}

func totalPages(n, size int) int {
	if n == 0 {
		return 1
	}
	return (n + size - 1) / size
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
