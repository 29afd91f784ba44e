package repository

import (
	"context"
	"database/sql"

	"github.com/keshetlaw/keshet-cms/internal/model"
)

// PostRepo provides article persistence over the 'posts' and
// 'post_categories' tables.
type PostRepo struct{ DB *sql.DB }

func NewPostRepo(db *sql.DB) *PostRepo { return &PostRepo{DB: db} }

const postColumns = `id,title,slug,summary,content,what_we_learned,author_user_id,
	author_lawyer_id,status,comments_locked,views,created_at,updated_at`

// Create inserts a post and its category links in one transaction.
func (r *PostRepo) Create(ctx context.Context, p *model.Post) (uint64, error) {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer func() { _ = tx.Rollback() }()

	res, err := tx.ExecContext(ctx,
		`INSERT INTO posts (title, slug, summary, content, what_we_learned,
		 author_user_id, author_lawyer_id, status, comments_locked)
		 VALUES (?,?,?,?,?,?,?,?,?)`,
		p.Title, p.Slug, p.Summary, p.Content, p.WhatWeLearned,
		p.AuthorUserID, p.AuthorLawyerID, string(p.Status), p.CommentsLocked)
	if err != nil {
		if isDuplicate(err) {
			return 0, ErrSlugExists
		}
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	if err := replaceCategories(ctx, tx, uint64(id), p.CategoryIDs); err != nil {
		return 0, err
	}
	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return uint64(id), nil
}

// Update rewrites a post's fields and category links.
func (r *PostRepo) Update(ctx context.Context, p *model.Post) error {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	res, err := tx.ExecContext(ctx,
		`UPDATE posts SET title=?, slug=?, summary=?, content=?, what_we_learned=?,
		 author_lawyer_id=?, status=?, comments_locked=? WHERE id=?`,
		p.Title, p.Slug, p.Summary, p.Content, p.WhatWeLearned,
		p.AuthorLawyerID, string(p.Status), p.CommentsLocked, p.ID)
	if err != nil {
		if isDuplicate(err) {
			return ErrSlugExists
		}
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	if err := replaceCategories(ctx, tx, p.ID, p.CategoryIDs); err != nil {
		return err
	}
	return tx.Commit()
}

// Delete removes a post, its category links, and its comments.
func (r *PostRepo) Delete(ctx context.Context, id uint64) error {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, "DELETE FROM post_categories WHERE post_id=?", id); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, "DELETE FROM comments WHERE post_id=?", id); err != nil {
		return err
	}
	res, err := tx.ExecContext(ctx, "DELETE FROM posts WHERE id=?", id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return tx.Commit()
}

// GetByID fetches a post regardless of status (admin view).
func (r *PostRepo) GetByID(ctx context.Context, id uint64) (model.Post, error) {
	return r.scanOne(ctx, "SELECT "+postColumns+" FROM posts WHERE id=? LIMIT 1", id)
}

// GetPublishedBySlug fetches a published post for the public site.
func (r *PostRepo) GetPublishedBySlug(ctx context.Context, slug string) (model.Post, error) {
	return r.scanOne(ctx,
		"SELECT "+postColumns+" FROM posts WHERE slug=? AND status=? LIMIT 1",
		slug, string(model.PostPublished))
}

// ListPublished returns published posts, newest first, with limit/offset
// paging. A zero categoryID means no category filter.
func (r *PostRepo) ListPublished(ctx context.Context, categoryID uint64, limit, offset int) ([]model.Post, error) {
	q := "SELECT " + postColumns + " FROM posts WHERE status=?"
	args := []interface{}{string(model.PostPublished)}
	if categoryID != 0 {
		q = "SELECT " + postColumns + ` FROM posts
			WHERE status=? AND id IN (SELECT post_id FROM post_categories WHERE category_id=?)`
		args = append(args, categoryID)
	}
	q += " ORDER BY created_at DESC LIMIT ? OFFSET ?"
	args = append(args, limit, offset)
	return r.scanMany(ctx, q, args...)
}

// ListAll returns every post for the admin area, newest first.
func (r *PostRepo) ListAll(ctx context.Context, limit, offset int) ([]model.Post, error) {
	return r.scanMany(ctx,
		"SELECT "+postColumns+" FROM posts ORDER BY created_at DESC LIMIT ? OFFSET ?",
		limit, offset)
}

// Search matches published posts whose title, summary or content contain
// the query term.
func (r *PostRepo) Search(ctx context.Context, term string, limit int) ([]model.Post, error) {
	like := "%" + term + "%"
	return r.scanMany(ctx,
		"SELECT "+postColumns+` FROM posts
		 WHERE status=? AND (title LIKE ? OR summary LIKE ? OR content LIKE ?)
		 ORDER BY created_at DESC LIMIT ?`,
		string(model.PostPublished), like, like, like, limit)
}

// IncrementViews bumps the public view counter. Best effort; errors are
// returned but callers may ignore them.
func (r *PostRepo) IncrementViews(ctx context.Context, id uint64) error {
	_, err := r.DB.ExecContext(ctx, "UPDATE posts SET views = views + 1 WHERE id=?", id)
	return err
}

// CategoryIDs loads the category links for a post.
func (r *PostRepo) CategoryIDs(ctx context.Context, postID uint64) ([]uint64, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT category_id FROM post_categories WHERE post_id=? ORDER BY category_id", postID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var ids []uint64
	for rows.Next() {
		var id uint64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func replaceCategories(ctx context.Context, tx *sql.Tx, postID uint64, categoryIDs []uint64) error {
	if _, err := tx.ExecContext(ctx, "DELETE FROM post_categories WHERE post_id=?", postID); err != nil {
		return err
	}
	for _, cid := range categoryIDs {
		if _, err := tx.ExecContext(ctx,
			"INSERT INTO post_categories (post_id, category_id) VALUES (?,?)", postID, cid); err != nil {
			return err
		}
	}
	return nil
}

func (r *PostRepo) scanOne(ctx context.Context, query string, args ...interface{}) (model.Post, error) {
	var p model.Post
	var status string
	var lawyerID sql.NullInt64
	err := r.DB.QueryRowContext(ctx, query, args...).Scan(
		&p.ID, &p.Title, &p.Slug, &p.Summary, &p.Content, &p.WhatWeLearned,
		&p.AuthorUserID, &lawyerID, &status, &p.CommentsLocked, &p.Views,
		&p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return model.Post{}, err
	}
	if lawyerID.Valid {
		v := uint64(lawyerID.Int64)
		p.AuthorLawyerID = &v
	}
	p.Status, _ = model.ParsePostStatus(status)
	return p, nil
}

func (r *PostRepo) scanMany(ctx context.Context, query string, args ...interface{}) ([]model.Post, error) {
	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []model.Post
	for rows.Next() {
		var p model.Post
		var status string
		var lawyerID sql.NullInt64
		if err := rows.Scan(
			&p.ID, &p.Title, &p.Slug, &p.Summary, &p.Content, &p.WhatWeLearned,
			&p.AuthorUserID, &lawyerID, &status, &p.CommentsLocked, &p.Views,
			&p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, err
		}
		if lawyerID.Valid {
			v := uint64(lawyerID.Int64)
			p.AuthorLawyerID = &v
		}
		p.Status, _ = model.ParsePostStatus(status)
		out = append(out, p)
	}
	return out, rows.Err()
}
