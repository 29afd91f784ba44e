package model

import "time"

// Lawyer mirrors the `lawyers` table: a public profile shown on the site
// and referenced by posts as an author.
type Lawyer struct {
	ID        uint64    `json:"id"`
	Name      string    `json:"name"`
	Slug      string    `json:"slug"`
	Title     string    `json:"title"`
	Bio       string    `json:"bio"`
	PhotoURL  string    `json:"photoUrl,omitempty"`
	Phone     string    `json:"phone,omitempty"`
	Email     string    `json:"email,omitempty"`
	LinkedIn  string    `json:"linkedin,omitempty"`
	IsActive  bool      `json:"isActive"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
