// Package present turns list state into display-ready values shared by the
// terminal UI and the CLI.
package present

import (
	"fmt"

	"github.com/meridianclub/backend/internal/listview"
)

// fullWindow is the largest page count shown without ellipses.
const fullWindow = 5

// PageItem is one entry in the page selector: a page number or an ellipsis.
type PageItem struct {
	Page     int
	Ellipsis bool
}

// PageWindow returns the page selector for current of total pages. All pages
// are listed when total <= 5; otherwise the first and last pages plus the
// pages adjacent to current, with ellipses bridging the gaps.
func PageWindow(current, total int) []PageItem {
	if total < 1 {
		total = 1
	}
	current = max(1, min(current, total))

	if total <= fullWindow {
		items := make([]PageItem, 0, total)
		for p := 1; p <= total; p++ {
			items = append(items, PageItem{Page: p})
		}
		return items
	}

	lo := max(2, current-1)
	hi := min(total-1, current+1)

	items := []PageItem{{Page: 1}}
	if lo > 2 {
		items = append(items, PageItem{Ellipsis: true})
	}
	for p := lo; p <= hi; p++ {
		items = append(items, PageItem{Page: p})
	}
	if hi < total-1 {
		items = append(items, PageItem{Ellipsis: true})
	}
	return append(items, PageItem{Page: total})
}

// Pager describes the pagination controls for one derived view.
type Pager struct {
	Page       int
	TotalPages int
	PageSize   int
	Matched    int
	HasPrev    bool
	HasNext    bool
	Items      []PageItem
}

// NewPager builds the pagination controls for v.
func NewPager[T any](v listview.View[T]) Pager {
	return Pager{
		Page:       v.Page,
		TotalPages: v.TotalPages,
		PageSize:   v.PageSize,
		Matched:    v.Matched,
		HasPrev:    v.Page > 1,
		HasNext:    v.Page < v.TotalPages,
		Items:      PageWindow(v.Page, v.TotalPages),
	}
}

// Range returns the 1-based bounds of the visible rows; both are 0 when
// nothing matched.
func (p Pager) Range() (from, to int) {
	if p.Matched == 0 {
		return 0, 0
	}
	from = (p.Page-1)*p.PageSize + 1
	to = min(p.Page*p.PageSize, p.Matched)
	return from, to
}

// Summary renders "Showing a-b of n".
func (p Pager) Summary() string {
	from, to := p.Range()
	return fmt.Sprintf("Showing %d-%d of %d", from, to, p.Matched)
}

// PageSizeChoices lists the selectable page sizes.
func PageSizeChoices() []int {
	return append([]int(nil), listview.DefaultPageSizes...)
}
