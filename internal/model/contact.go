package model

import "time"

// ContactSubmission represents a message submitted via the contact form.
type ContactSubmission struct {
	ID        string     `json:"id"`
	Name      string     `json:"name"`
	Email     string     `json:"email"`
	Subject   string     `json:"subject"`
	Message   string     `json:"message"`
	IsRead    bool       `json:"is_read"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt *time.Time `json:"updated_at,omitempty"`
}

// MarkRead sets the read flag and stamps UpdatedAt.
func (c *ContactSubmission) MarkRead(read bool, at time.Time) {
	c.IsRead = read
	c.UpdatedAt = &at
}
