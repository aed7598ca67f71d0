package present

import (
	"time"

	"github.com/meridianclub/backend/internal/model"
)

// Share is one bucket of a breakdown.
type Share struct {
	Label   string
	Count   int
	Percent float64
}

// Stats summarizes a full, unfiltered record set.
type Stats struct {
	Total     int
	Breakdown []Share
	Last24h   int
	Last7d    int
}

const (
	day  = 24 * time.Hour
	week = 7 * day
)

// ContactStats counts submissions by read state and recency.
func ContactStats(records []model.ContactSubmission, now time.Time) Stats {
	var unread int
	created := make([]time.Time, len(records))
	for i, r := range records {
		if !r.IsRead {
			unread++
		}
		created[i] = r.CreatedAt
	}
	s := Stats{
		Total: len(records),
		Breakdown: []Share{
			share("Unread", unread, len(records)),
			share("Read", len(records)-unread, len(records)),
		},
	}
	s.Last24h, s.Last7d = recent(created, now)
	return s
}

// MembershipStats counts requests by status and recency.
func MembershipStats(records []model.MembershipRequest, now time.Time) Stats {
	counts := make(map[model.MembershipStatus]int)
	created := make([]time.Time, len(records))
	for i, r := range records {
		counts[r.Status]++
		created[i] = r.CreatedAt
	}
	s := Stats{Total: len(records)}
	for _, st := range model.MembershipStatuses() {
		s.Breakdown = append(s.Breakdown, share(st.Label(), counts[st], len(records)))
	}
	s.Last24h, s.Last7d = recent(created, now)
	return s
}

func share(label string, n, total int) Share {
	sh := Share{Label: label, Count: n}
	if total > 0 {
		sh.Percent = float64(n) * 100 / float64(total)
	}
	return sh
}

func recent(created []time.Time, now time.Time) (last24h, last7d int) {
	dayAgo := now.Add(-day)
	weekAgo := now.Add(-week)
	for _, t := range created {
		if t.After(dayAgo) {
			last24h++
		}
		if t.After(weekAgo) {
			last7d++
		}
	}
	return last24h, last7d
}
