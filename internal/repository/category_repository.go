package repository

import (
	"context"
	"database/sql"

	"github.com/keshetlaw/keshet-cms/internal/model"
)

// CategoryRepo provides category persistence.
type CategoryRepo struct{ DB *sql.DB }

func NewCategoryRepo(db *sql.DB) *CategoryRepo { return &CategoryRepo{DB: db} }

const categoryColumns = "id,name,slug,description,created_at,updated_at"

// Create inserts a category and returns its ID.
func (r *CategoryRepo) Create(ctx context.Context, name, slug, description string) (uint64, error) {
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO categories (name, slug, description) VALUES (?,?,?)",
		name, slug, description)
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
	return uint64(id), nil
}

// Update rewrites a category.
func (r *CategoryRepo) Update(ctx context.Context, id uint64, name, slug, description string) error {
	res, err := r.DB.ExecContext(ctx,
		"UPDATE categories SET name=?, slug=?, description=? WHERE id=?",
		name, slug, description, id)
	if err != nil {
		if isDuplicate(err) {
			return ErrSlugExists
		}
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes a category. Categories still referenced by posts cannot
// be deleted and report ErrConflict.
func (r *CategoryRepo) Delete(ctx context.Context, id uint64) error {
	var n int
	if err := r.DB.QueryRowContext(ctx,
		"SELECT COUNT(1) FROM post_categories WHERE category_id=?", id).Scan(&n); err != nil {
		return err
	}
	if n > 0 {
		return ErrConflict
	}
	res, err := r.DB.ExecContext(ctx, "DELETE FROM categories WHERE id=?", id)
	if err != nil {
		return err
	}
	if affected, _ := res.RowsAffected(); affected == 0 {
		return ErrNotFound
	}
	return nil
}

// GetByID fetches a category by id.
func (r *CategoryRepo) GetByID(ctx context.Context, id uint64) (model.Category, error) {
	return r.scanOne(ctx, "SELECT "+categoryColumns+" FROM categories WHERE id=? LIMIT 1", id)
}

// GetBySlug fetches a category by its unique slug.
func (r *CategoryRepo) GetBySlug(ctx context.Context, slug string) (model.Category, error) {
	return r.scanOne(ctx, "SELECT "+categoryColumns+" FROM categories WHERE slug=? LIMIT 1", slug)
}

// List returns all categories ordered by name.
func (r *CategoryRepo) List(ctx context.Context) ([]model.Category, error) {
	rows, err := r.DB.QueryContext(ctx, "SELECT "+categoryColumns+" FROM categories ORDER BY name")
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []model.Category
	for rows.Next() {
		var c model.Category
		if err := rows.Scan(&c.ID, &c.Name, &c.Slug, &c.Description, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (r *CategoryRepo) scanOne(ctx context.Context, query string, arg interface{}) (model.Category, error) {
	var c model.Category
	err := r.DB.QueryRowContext(ctx, query, arg).
		Scan(&c.ID, &c.Name, &c.Slug, &c.Description, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return model.Category{}, err
	}
	return c, nil
}
