package model

import "time"

// PostStatus is the publication state of an article.
type PostStatus string

const (
	PostDraft           PostStatus = "draft"
	PostPendingApproval PostStatus = "pendingApproval"
	PostPublished       PostStatus = "published"
)

// ParsePostStatus validates a stored or submitted post status string.
func ParsePostStatus(s string) (PostStatus, bool) {
	switch PostStatus(s) {
	case PostDraft, PostPendingApproval, PostPublished:
		return PostStatus(s), true
	}
	return "", false
}

// Post mirrors the `posts` table. Categories are attached through the
// post_categories join table and loaded separately.
type Post struct {
	ID             uint64     // posts.id
	Title          string     // posts.title
	Slug           string     // posts.slug (unique)
	Summary        string     // posts.summary
	Content        string     // posts.content
	WhatWeLearned  string     // posts.what_we_learned (optional)
	AuthorUserID   uint64     // posts.author_user_id
	AuthorLawyerID *uint64    // posts.author_lawyer_id (nullable)
	Status         PostStatus // posts.status
	CommentsLocked bool       // posts.comments_locked
	Views          uint64     // posts.views
	CategoryIDs    []uint64   // from post_categories
	CreatedAt      time.Time  // posts.created_at
	UpdatedAt      time.Time  // posts.updated_at
}

// Category mirrors the `categories` table. Slug is unique.
type Category struct {
	ID          uint64    `json:"id"`
	Name        string    `json:"name"`
	Slug        string    `json:"slug"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}
