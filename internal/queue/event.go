// Package queue defines message payloads exchanged over the message broker.
package queue

// LeadCreatedEvent is published when a contact lead is submitted from the
// public site. It carries enough for downstream consumers (notification
// mail, CRM sync, audit log) without querying the primary database.
type LeadCreatedEvent struct {
	LeadID    uint64 `json:"lead_id"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	Topic     string `json:"topic"`
	Source    string `json:"source"`
	CreatedAt string `json:"created_at"`
}
