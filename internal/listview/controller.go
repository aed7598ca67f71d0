package listview

import (
	"fmt"
	"slices"
	"sync"
)

// Controller owns the cached records of one kind together with the list
// parameters and the current selection. It is safe for concurrent use.
type Controller[T any] struct {
	mu       sync.RWMutex
	cfg      Config[T]
	records  []T
	params   Params
	selected string
}

// NewController creates an empty controller using cfg's defaults.
func NewController[T any](cfg Config[T]) *Controller[T] {
	return &Controller[T]{
		cfg:    cfg,
		params: cfg.DefaultParams(),
	}
}

// Config returns the controller's record configuration.
func (c *Controller[T]) Config() Config[T] {
	return c.cfg
}

// Params returns the current list parameters.
func (c *Controller[T]) Params() Params {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.params
}

// Records returns a copy of the full cached record set.
func (c *Controller[T]) Records() []T {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return slices.Clone(c.records)
}

// Len returns the number of cached records.
func (c *Controller[T]) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.records)
}

// View derives the current page.
func (c *Controller[T]) View() View[T] {
	c.mu.RLock()
	defer c.mu.RUnlock()
	v := Derive(c.records, c.params, c.cfg)
	v.Items = slices.Clone(v.Items)
	return v
}

// SetRecords replaces the cache. The page is clamped and a selection whose
// record is gone is dropped.
func (c *Controller[T]) SetRecords(records []T) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.records = slices.Clone(records)
	if c.selected != "" && c.indexLocked(c.selected) < 0 {
		c.selected = ""
	}
	c.clampPageLocked()
}

// Update applies fn to the cached record with the given id. It reports
// whether the record was found.
func (c *Controller[T]) Update(id string, fn func(*T)) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	i := c.indexLocked(id)
	if i < 0 {
		return false
	}
	fn(&c.records[i])
	c.clampPageLocked()
	return true
}

// Remove drops the cached record with the given id and clears the
// selection if it pointed at it.
func (c *Controller[T]) Remove(id string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	i := c.indexLocked(id)
	if i < 0 {
		return false
	}
	c.records = slices.Delete(c.records, i, i+1)
	if c.selected == id {
		c.selected = ""
	}
	c.clampPageLocked()
	return true
}

// Find returns the cached record with the given id.
func (c *Controller[T]) Find(id string) (T, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	i := c.indexLocked(id)
	if i < 0 {
		var zero T
		return zero, false
	}
	return c.records[i], true
}

// Select marks id as the selected record. Unknown ids are rejected.
func (c *Controller[T]) Select(id string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.indexLocked(id) < 0 {
		return false
	}
	c.selected = id
	return true
}

// Selected returns the current state of the selected record.
func (c *Controller[T]) Selected() (T, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	var zero T
	if c.selected == "" {
		return zero, false
	}
	i := c.indexLocked(c.selected)
	if i < 0 {
		return zero, false
	}
	return c.records[i], true
}

// ClearSelection drops the selection.
func (c *Controller[T]) ClearSelection() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.selected = ""
}

// SetFilter switches the active filter and returns to page 1.
func (c *Controller[T]) SetFilter(key string) error {
	if _, ok := c.cfg.filter(key); !ok {
		return fmt.Errorf("%w: %q", ErrUnknownFilter, key)
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.params.Filter = key
	c.params.Page = 1
	return nil
}

// SetQuery changes the search text and returns to page 1.
func (c *Controller[T]) SetQuery(q string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.params.Query = q
	c.params.Page = 1
}

// SetSort changes the sort key and direction. The page is kept.
func (c *Controller[T]) SetSort(key string, desc bool) error {
	if _, ok := c.cfg.sort(key); !ok {
		return fmt.Errorf("%w: %q", ErrUnknownSort, key)
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.params.Sort = key
	c.params.Desc = desc
	return nil
}

// ToggleDirection reverses the sort direction.
func (c *Controller[T]) ToggleDirection() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.params.Desc = !c.params.Desc
}

// SetPageSize changes the page size and returns to page 1.
func (c *Controller[T]) SetPageSize(n int) error {
	if !c.cfg.validPageSize(n) {
		return fmt.Errorf("%w: %d", ErrInvalidPageSize, n)
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.params.PageSize = n
	c.params.Page = 1
	return nil
}

// SetPage moves to page n, clamped to the available pages.
func (c *Controller[T]) SetPage(n int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.params.Page = n
	c.clampPageLocked()
}

func (c *Controller[T]) NextPage() { c.step(1) }
func (c *Controller[T]) PrevPage() { c.step(-1) }

func (c *Controller[T]) FirstPage() { c.SetPage(1) }

func (c *Controller[T]) LastPage() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.params.Page = c.totalPagesLocked()
}

func (c *Controller[T]) step(delta int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.params.Page += delta
	c.clampPageLocked()
}

func (c *Controller[T]) totalPagesLocked() int {
	return Derive(c.records, c.params, c.cfg).TotalPages
}

func (c *Controller[T]) clampPageLocked() {
	c.params.Page = clamp(c.params.Page, 1, c.totalPagesLocked())
}

func (c *Controller[T]) indexLocked(id string) int {
	return slices.IndexFunc(c.records, func(r T) bool { return c.cfg.ID(r) == id })
}
