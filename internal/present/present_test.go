package present

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/meridianclub/backend/internal/listview"
	"github.com/meridianclub/backend/internal/model"
)

func pages(ps ...int) []PageItem {
	var out []PageItem
	for _, p := range ps {
		if p == 0 {
			out = append(out, PageItem{Ellipsis: true})
		} else {
			out = append(out, PageItem{Page: p})
		}
	}
	return out
}

func TestPageWindow(t *testing.T) {
	tests := []struct {
		name           string
		current, total int
		want           []PageItem
	}{
		{"single", 1, 1, pages(1)},
		{"all five", 3, 5, pages(1, 2, 3, 4, 5)},
		{"start", 1, 10, pages(1, 2, 0, 10)},
		{"second", 2, 10, pages(1, 2, 3, 0, 10)},
		{"middle", 5, 10, pages(1, 0, 4, 5, 6, 0, 10)},
		{"near end", 9, 10, pages(1, 0, 8, 9, 10)},
		{"end", 10, 10, pages(1, 0, 9, 10)},
		{"no gap at 3", 3, 6, pages(1, 2, 3, 4, 0, 6)},
		{"clamped", 40, 7, pages(1, 0, 6, 7)},
		{"zero total", 1, 0, pages(1)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if diff := cmp.Diff(tt.want, PageWindow(tt.current, tt.total)); diff != "" {
				t.Errorf("PageWindow(%d, %d) (-want +got):\n%s", tt.current, tt.total, diff)
			}
		})
	}
}

func TestNewPager(t *testing.T) {
	v := listview.View[int]{Page: 2, TotalPages: 3, PageSize: 10, Matched: 23}
	p := NewPager(v)
	if !p.HasPrev || !p.HasNext {
		t.Errorf("expected prev and next, got %+v", p)
	}
	if got := p.Summary(); got != "Showing 11-20 of 23" {
		t.Errorf("unexpected summary %q", got)
	}

	v.Page = 3
	p = NewPager(v)
	if p.HasNext {
		t.Error("last page should have no next")
	}
	if got := p.Summary(); got != "Showing 21-23 of 23" {
		t.Errorf("unexpected summary %q", got)
	}

	p = NewPager(listview.View[int]{Page: 1, TotalPages: 1, PageSize: 10})
	if p.HasPrev || p.HasNext {
		t.Error("empty view should have no navigation")
	}
	if got := p.Summary(); got != "Showing 0-0 of 0" {
		t.Errorf("unexpected summary %q", got)
	}
}

func TestPageSizeChoices(t *testing.T) {
	got := PageSizeChoices()
	if diff := cmp.Diff([]int{5, 10, 25, 50}, got); diff != "" {
		t.Errorf("(-want +got):\n%s", diff)
	}
	got[0] = 99
	if listview.DefaultPageSizes[0] == 99 {
		t.Error("PageSizeChoices must return a copy")
	}
}

func TestContactStats(t *testing.T) {
	now := time.Date(2026, 8, 10, 12, 0, 0, 0, time.UTC)
	records := []model.ContactSubmission{
		{ID: "a", CreatedAt: now.Add(-time.Hour)},
		{ID: "b", IsRead: true, CreatedAt: now.Add(-30 * time.Hour)},
		{ID: "c", IsRead: true, CreatedAt: now.Add(-10 * 24 * time.Hour)},
		{ID: "d", IsRead: true, CreatedAt: now.Add(-24 * time.Hour)},
	}
	got := ContactStats(records, now)
	want := Stats{
		Total: 4,
		Breakdown: []Share{
			{Label: "Unread", Count: 1, Percent: 25},
			{Label: "Read", Count: 3, Percent: 75},
		},
		// Exactly 24h old is outside the last-24h window.
		Last24h: 1,
		Last7d:  3,
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("(-want +got):\n%s", diff)
	}
}

func TestMembershipStats_Empty(t *testing.T) {
	got := MembershipStats(nil, time.Now())
	if got.Total != 0 || len(got.Breakdown) != 4 {
		t.Fatalf("unexpected stats %+v", got)
	}
	for _, s := range got.Breakdown {
		if s.Count != 0 || s.Percent != 0 {
			t.Errorf("expected zero share, got %+v", s)
		}
	}
}
