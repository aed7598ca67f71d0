package model

import (
	"fmt"
	"slices"
	"strings"
	"time"
)

// MembershipStatus is the review state of a membership request.
type MembershipStatus string

const (
	StatusNew      MembershipStatus = "new"
	StatusPending  MembershipStatus = "pending"
	StatusApproved MembershipStatus = "approved"
	StatusRejected MembershipStatus = "rejected"
)

// MembershipStatuses returns every status in display order.
func MembershipStatuses() []MembershipStatus {
	return []MembershipStatus{StatusNew, StatusPending, StatusApproved, StatusRejected}
}

// Valid reports whether s is one of the known statuses.
func (s MembershipStatus) Valid() bool {
	switch s {
	case StatusNew, StatusPending, StatusApproved, StatusRejected:
		return true
	}
	return false
}

// Label returns the capitalised status name.
func (s MembershipStatus) Label() string {
	if s == "" {
		return ""
	}
	return strings.ToUpper(string(s[:1])) + string(s[1:])
}

// Rank is the position of s in workflow order, or -1 if s is unknown.
func (s MembershipStatus) Rank() int {
	return slices.Index(MembershipStatuses(), s)
}

// Next returns the status following s in workflow order, wrapping around.
func (s MembershipStatus) Next() MembershipStatus {
	all := MembershipStatuses()
	return all[(s.Rank()+1)%len(all)]
}

// ParseMembershipStatus converts user input into a MembershipStatus.
func ParseMembershipStatus(s string) (MembershipStatus, error) {
	status := MembershipStatus(strings.ToLower(strings.TrimSpace(s)))
	if !status.Valid() {
		return "", fmt.Errorf("invalid membership status %q", s)
	}
	return status, nil
}

// MembershipRequest is an application submitted via the membership form.
// Requests are created with StatusNew and afterwards only change through
// admin actions. Any status may move to any other status.
type MembershipRequest struct {
	ID        string           `json:"id"`
	Name      string           `json:"name"`
	Email     string           `json:"email"`
	City      string           `json:"city"`
	Country   string           `json:"country"`
	Status    MembershipStatus `json:"status"`
	Notes     string           `json:"notes"`
	CreatedAt time.Time        `json:"created_at"`
}
