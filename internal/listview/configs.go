package listview

import (
	"strings"

	"github.com/meridianclub/backend/internal/model"
)

// DefaultPageSizes are the page sizes offered by both lists.
var DefaultPageSizes = []int{5, 10, 25, 50}

// ContactConfig returns the list configuration for contact submissions.
func ContactConfig() Config[model.ContactSubmission] {
	return Config[model.ContactSubmission]{
		Name: "contacts",
		ID:   func(c model.ContactSubmission) string { return c.ID },
		SearchFields: func(c model.ContactSubmission) []string {
			return []string{c.Name, c.Email, c.Subject, c.Message}
		},
		Filters: []Filter[model.ContactSubmission]{
			{Key: "all", Label: "All"},
			{Key: "unread", Label: "Unread", Match: func(c model.ContactSubmission) bool { return !c.IsRead }},
			{Key: "read", Label: "Read", Match: func(c model.ContactSubmission) bool { return c.IsRead }},
		},
		Sorts: []Sort[model.ContactSubmission]{
			{Key: "date", Label: "Date", Compare: func(a, b model.ContactSubmission) int { return a.CreatedAt.Compare(b.CreatedAt) }},
			{Key: "name", Label: "Name", Compare: func(a, b model.ContactSubmission) int { return compareText(a.Name, b.Name) }},
			{Key: "email", Label: "Email", Compare: func(a, b model.ContactSubmission) int { return compareText(a.Email, b.Email) }},
			{Key: "subject", Label: "Subject", Compare: func(a, b model.ContactSubmission) int { return compareText(a.Subject, b.Subject) }},
			{Key: "status", Label: "Status", Compare: func(a, b model.ContactSubmission) int { return compareBool(a.IsRead, b.IsRead) }},
		},
		DefaultFilter:   "all",
		DefaultSort:     "date",
		DefaultDesc:     true,
		DefaultPageSize: 10,
		PageSizes:       DefaultPageSizes,
	}
}

// MembershipConfig returns the list configuration for membership requests.
func MembershipConfig() Config[model.MembershipRequest] {
	filters := []Filter[model.MembershipRequest]{{Key: "all", Label: "All"}}
	for _, st := range model.MembershipStatuses() {
		filters = append(filters, Filter[model.MembershipRequest]{
			Key:   string(st),
			Label: st.Label(),
			Match: func(m model.MembershipRequest) bool { return m.Status == st },
		})
	}

	return Config[model.MembershipRequest]{
		Name: "memberships",
		ID:   func(m model.MembershipRequest) string { return m.ID },
		SearchFields: func(m model.MembershipRequest) []string {
			return []string{m.Name, m.Email, m.City, m.Country, m.Notes}
		},
		Filters: filters,
		Sorts: []Sort[model.MembershipRequest]{
			{Key: "date", Label: "Date", Compare: func(a, b model.MembershipRequest) int { return a.CreatedAt.Compare(b.CreatedAt) }},
			{Key: "name", Label: "Name", Compare: func(a, b model.MembershipRequest) int { return compareText(a.Name, b.Name) }},
			{Key: "email", Label: "Email", Compare: func(a, b model.MembershipRequest) int { return compareText(a.Email, b.Email) }},
			{Key: "city", Label: "City", Compare: func(a, b model.MembershipRequest) int { return compareText(a.City, b.City) }},
			{Key: "country", Label: "Country", Compare: func(a, b model.MembershipRequest) int { return compareText(a.Country, b.Country) }},
			{Key: "status", Label: "Status", Compare: func(a, b model.MembershipRequest) int { return a.Status.Rank() - b.Status.Rank() }},
		},
		DefaultFilter:   "all",
		DefaultSort:     "date",
		DefaultDesc:     true,
		DefaultPageSize: 10,
		PageSizes:       DefaultPageSizes,
	}
}

// compareText orders case-insensitively, breaking ties on the raw bytes.
func compareText(a, b string) int {
	if c := strings.Compare(strings.ToLower(a), strings.ToLower(b)); c != 0 {
		return c
	}
	return strings.Compare(a, b)
}

// compareBool orders false before true.
func compareBool(a, b bool) int {
	switch {
	case a == b:
		return 0
	case !a:
		return -1
	default:
		return 1
	}
}
