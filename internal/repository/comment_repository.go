package repository

import (
	"context"
	"database/sql"

	"github.com/keshetlaw/keshet-cms/internal/model"
)

// CommentRepo provides comment persistence and moderation.
type CommentRepo struct{ DB *sql.DB }

func NewCommentRepo(db *sql.DB) *CommentRepo { return &CommentRepo{DB: db} }

const commentColumns = "id,post_id,user_id,content,status,is_lawyer_reply,created_at,updated_at"

// Create inserts a comment in pending state and returns its ID. userID may
// be nil for anonymous comments.
func (r *CommentRepo) Create(ctx context.Context, postID uint64, userID *uint64, content string) (uint64, error) {
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO comments (post_id, user_id, content, status) VALUES (?,?,?,?)",
		postID, userID, content, string(model.CommentPending))
	if err != nil {
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return uint64(id), nil
}

// ListApprovedForPost returns approved comments for public display, oldest
// first.
func (r *CommentRepo) ListApprovedForPost(ctx context.Context, postID uint64) ([]model.Comment, error) {
	return r.scanMany(ctx,
		"SELECT "+commentColumns+" FROM comments WHERE post_id=? AND status=? ORDER BY created_at",
		postID, string(model.CommentApproved))
}

// ListByStatus returns comments for the moderation queue, newest first. An
// empty status lists everything.
func (r *CommentRepo) ListByStatus(ctx context.Context, status model.CommentStatus, limit, offset int) ([]model.Comment, error) {
	if status == "" {
		return r.scanMany(ctx,
			"SELECT "+commentColumns+" FROM comments ORDER BY created_at DESC LIMIT ? OFFSET ?",
			limit, offset)
	}
	return r.scanMany(ctx,
		"SELECT "+commentColumns+" FROM comments WHERE status=? ORDER BY created_at DESC LIMIT ? OFFSET ?",
		string(status), limit, offset)
}

// Moderate sets a comment's status and lawyer-reply flag.
func (r *CommentRepo) Moderate(ctx context.Context, id uint64, status model.CommentStatus, isLawyerReply bool) error {
	res, err := r.DB.ExecContext(ctx,
		"UPDATE comments SET status=?, is_lawyer_reply=? WHERE id=?",
		string(status), isLawyerReply, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes a comment.
func (r *CommentRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.DB.ExecContext(ctx, "DELETE FROM comments WHERE id=?", id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *CommentRepo) scanMany(ctx context.Context, query string, args ...interface{}) ([]model.Comment, error) {
	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []model.Comment
	for rows.Next() {
		var c model.Comment
		var status string
		var userID sql.NullInt64
		if err := rows.Scan(&c.ID, &c.PostID, &userID, &c.Content, &status,
			&c.IsLawyerReply, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, err
		}
		if userID.Valid {
			v := uint64(userID.Int64)
			c.UserID = &v
		}
		c.Status, _ = model.ParseCommentStatus(status)
		out = append(out, c)
	}
	return out, rows.Err()
}
