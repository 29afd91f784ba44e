package model

import "time"

// CommentStatus is the moderation state of a comment. New comments start
// as pending and only approved ones are shown publicly.
type CommentStatus string

const (
	CommentPending  CommentStatus = "pending"
	CommentApproved CommentStatus = "approved"
	CommentRejected CommentStatus = "rejected"
)

// ParseCommentStatus validates a moderation status string.
func ParseCommentStatus(s string) (CommentStatus, bool) {
	switch CommentStatus(s) {
	case CommentPending, CommentApproved, CommentRejected:
		return CommentStatus(s), true
	}
	return "", false
}

// Comment mirrors the `comments` table.
type Comment struct {
	ID            uint64        `json:"id"`
	PostID        uint64        `json:"postId"`
	UserID        *uint64       `json:"userId,omitempty"`
	Content       string        `json:"content"`
	Status        CommentStatus `json:"status"`
	IsLawyerReply bool          `json:"isLawyerReply"`
	CreatedAt     time.Time     `json:"createdAt"`
	UpdatedAt     time.Time     `json:"updatedAt"`
}
