package repository

import (
	"context"
	"database/sql"

	"github.com/keshetlaw/keshet-cms/internal/model"
)

// LeadRepo provides contact-lead persistence.
type LeadRepo struct{ DB *sql.DB }

func NewLeadRepo(db *sql.DB) *LeadRepo { return &LeadRepo{DB: db} }

const leadColumns = "id,name,email,phone,topic,message,status,source,notes,created_at,updated_at"

// Create inserts a lead in "new" state and returns its ID.
func (r *LeadRepo) Create(ctx context.Context, l *model.Lead) (uint64, error) {
	source := l.Source
	if source == "" {
		source = "website"
	}
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO leads (name, email, phone, topic, message, status, source) VALUES (?,?,?,?,?,?,?)",
		l.Name, l.Email, l.Phone, l.Topic, l.Message, string(model.LeadNew), source)
	if err != nil {
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return uint64(id), nil
}

// List returns leads newest first, optionally filtered by status.
func (r *LeadRepo) List(ctx context.Context, status model.LeadStatus, limit, offset int) ([]model.Lead, error) {
	q := "SELECT " + leadColumns + " FROM leads"
	args := []interface{}{}
	if status != "" {
		q += " WHERE status=?"
		args = append(args, string(status))
	}
	q += " ORDER BY created_at DESC LIMIT ? OFFSET ?"
	args = append(args, limit, offset)

	rows, err := r.DB.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []model.Lead
	for rows.Next() {
		var l model.Lead
		var status string
		if err := rows.Scan(&l.ID, &l.Name, &l.Email, &l.Phone, &l.Topic, &l.Message,
			&status, &l.Source, &l.Notes, &l.CreatedAt, &l.UpdatedAt); err != nil {
			return nil, err
		}
		l.Status, _ = model.ParseLeadStatus(status)
		out = append(out, l)
	}
	return out, rows.Err()
}

// GetByID fetches a lead by id.
func (r *LeadRepo) GetByID(ctx context.Context, id uint64) (model.Lead, error) {
	var l model.Lead
	var status string
	err := r.DB.QueryRowContext(ctx,
		"SELECT "+leadColumns+" FROM leads WHERE id=? LIMIT 1", id).
		Scan(&l.ID, &l.Name, &l.Email, &l.Phone, &l.Topic, &l.Message,
			&status, &l.Source, &l.Notes, &l.CreatedAt, &l.UpdatedAt)
	if err != nil {
		return model.Lead{}, err
	}
	l.Status, _ = model.ParseLeadStatus(status)
	return l, nil
}

// Update sets a lead's status and internal notes.
func (r *LeadRepo) Update(ctx context.Context, id uint64, status model.LeadStatus, notes string) error {
	res, err := r.DB.ExecContext(ctx,
		"UPDATE leads SET status=?, notes=? WHERE id=?", string(status), notes, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes a lead.
func (r *LeadRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.DB.ExecContext(ctx, "DELETE FROM leads WHERE id=?", id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}
