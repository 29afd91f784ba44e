package repository

import (
	"context"
	"database/sql"

	"github.com/keshetlaw/keshet-cms/internal/model"
)

// LawyerRepo provides lawyer profile persistence.
type LawyerRepo struct{ DB *sql.DB }

func NewLawyerRepo(db *sql.DB) *LawyerRepo { return &LawyerRepo{DB: db} }

const lawyerColumns = "id,name,slug,title,bio,photo_url,phone,email,linkedin,is_active,created_at,updated_at"

// Create inserts a lawyer profile and returns its ID.
func (r *LawyerRepo) Create(ctx context.Context, l *model.Lawyer) (uint64, error) {
	res, err := r.DB.ExecContext(ctx,
		`INSERT INTO lawyers (name, slug, title, bio, photo_url, phone, email, linkedin, is_active)
		 VALUES (?,?,?,?,?,?,?,?,?)`,
		l.Name, l.Slug, l.Title, l.Bio, l.PhotoURL, l.Phone, l.Email, l.LinkedIn, l.IsActive)
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

// Update rewrites a lawyer profile.
func (r *LawyerRepo) Update(ctx context.Context, l *model.Lawyer) error {
	res, err := r.DB.ExecContext(ctx,
		`UPDATE lawyers SET name=?, slug=?, title=?, bio=?, photo_url=?, phone=?,
		 email=?, linkedin=?, is_active=? WHERE id=?`,
		l.Name, l.Slug, l.Title, l.Bio, l.PhotoURL, l.Phone, l.Email, l.LinkedIn, l.IsActive, l.ID)
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

// Delete removes a lawyer profile. Posts keep their nullable author link;
// the FK is set NULL first so authored articles survive the profile.
func (r *LawyerRepo) Delete(ctx context.Context, id uint64) error {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx,
		"UPDATE posts SET author_lawyer_id=NULL WHERE author_lawyer_id=?", id); err != nil {
		return err
	}
	res, err := tx.ExecContext(ctx, "DELETE FROM lawyers WHERE id=?", id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return tx.Commit()
}

// GetByID fetches a profile by id (admin view, active or not).
func (r *LawyerRepo) GetByID(ctx context.Context, id uint64) (model.Lawyer, error) {
	return r.scanOne(ctx, "SELECT "+lawyerColumns+" FROM lawyers WHERE id=? LIMIT 1", id)
}

// GetActiveBySlug fetches an active profile for the public site.
func (r *LawyerRepo) GetActiveBySlug(ctx context.Context, slug string) (model.Lawyer, error) {
	return r.scanOne(ctx,
		"SELECT "+lawyerColumns+" FROM lawyers WHERE slug=? AND is_active=1 LIMIT 1", slug)
}

// List returns profiles ordered by name. activeOnly restricts to public
// profiles.
func (r *LawyerRepo) List(ctx context.Context, activeOnly bool) ([]model.Lawyer, error) {
	q := "SELECT " + lawyerColumns + " FROM lawyers"
	if activeOnly {
		q += " WHERE is_active=1"
	}
	q += " ORDER BY name"
	rows, err := r.DB.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []model.Lawyer
	for rows.Next() {
		var l model.Lawyer
		if err := rows.Scan(&l.ID, &l.Name, &l.Slug, &l.Title, &l.Bio, &l.PhotoURL,
			&l.Phone, &l.Email, &l.LinkedIn, &l.IsActive, &l.CreatedAt, &l.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, l)
	}
	return out, rows.Err()
}

func (r *LawyerRepo) scanOne(ctx context.Context, query string, args ...interface{}) (model.Lawyer, error) {
	var l model.Lawyer
	err := r.DB.QueryRowContext(ctx, query, args...).Scan(
		&l.ID, &l.Name, &l.Slug, &l.Title, &l.Bio, &l.PhotoURL,
		&l.Phone, &l.Email, &l.LinkedIn, &l.IsActive, &l.CreatedAt, &l.UpdatedAt)
	if err != nil {
		return model.Lawyer{}, err
	}
	return l, nil
}
