package model

import "time"

// LeadStatus tracks how far a contact-form lead has progressed.
type LeadStatus string

const (
	LeadNew       LeadStatus = "new"
	LeadContacted LeadStatus = "contacted"
	LeadConverted LeadStatus = "converted"
	LeadClosed    LeadStatus = "closed"
)

// ParseLeadStatus validates a lead status string.
func ParseLeadStatus(s string) (LeadStatus, bool) {
	switch LeadStatus(s) {
	case LeadNew, LeadContacted, LeadConverted, LeadClosed:
		return LeadStatus(s), true
	}
	return "", false
}

// Lead mirrors the `leads` table: a contact request submitted from the
// public site. Notes are internal and only visible to admins.
type Lead struct {
	ID        uint64     `json:"id"`
	Name      string     `json:"name"`
	Email     string     `json:"email"`
	Phone     string     `json:"phone,omitempty"`
	Topic     string     `json:"topic,omitempty"`
	Message   string     `json:"message"`
	Status    LeadStatus `json:"status"`
	Source    string     `json:"source"`
	Notes     string     `json:"notes,omitempty"`
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt time.Time  `json:"updatedAt"`
}
