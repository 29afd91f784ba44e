package repository

import (
	"context"
	"database/sql"

	"github.com/keshetlaw/keshet-cms/internal/model"
)

// DocumentRepo provides document persistence. Listings never load the blob
// column; GetWithData is the only path that does.
type DocumentRepo struct{ DB *sql.DB }

func NewDocumentRepo(db *sql.DB) *DocumentRepo { return &DocumentRepo{DB: db} }

const documentMetaColumns = `id,title,category_id,original_filename,mime_type,
	file_size,uploaded_by,is_public,created_at,updated_at`

// Create inserts a document with its file bytes and returns its ID.
func (r *DocumentRepo) Create(ctx context.Context, d *model.Document) (uint64, error) {
	res, err := r.DB.ExecContext(ctx,
		`INSERT INTO documents (title, category_id, original_filename, mime_type,
		 file_size, file_data, uploaded_by, is_public) VALUES (?,?,?,?,?,?,?,?)`,
		d.Title, d.CategoryID, d.OriginalFilename, d.MimeType,
		d.FileSize, d.FileData, d.UploadedBy, d.IsPublic)
	if err != nil {
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return uint64(id), nil
}

// UpdateMeta rewrites a document's metadata without touching the file.
func (r *DocumentRepo) UpdateMeta(ctx context.Context, id uint64, title string, categoryID *uint64, isPublic bool) error {
	res, err := r.DB.ExecContext(ctx,
		"UPDATE documents SET title=?, category_id=?, is_public=? WHERE id=?",
		title, categoryID, isPublic, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes a document and its file bytes.
func (r *DocumentRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.DB.ExecContext(ctx, "DELETE FROM documents WHERE id=?", id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// GetMeta fetches document metadata by id, without file bytes.
func (r *DocumentRepo) GetMeta(ctx context.Context, id uint64) (model.Document, error) {
	row := r.DB.QueryRowContext(ctx,
		"SELECT "+documentMetaColumns+" FROM documents WHERE id=? LIMIT 1", id)
	return scanDocumentMeta(row)
}

// GetWithData fetches a document including the blob for a download.
func (r *DocumentRepo) GetWithData(ctx context.Context, id uint64) (model.Document, error) {
	var d model.Document
	var categoryID sql.NullInt64
	err := r.DB.QueryRowContext(ctx,
		`SELECT id,title,category_id,original_filename,mime_type,file_size,file_data,
		 uploaded_by,is_public,created_at,updated_at FROM documents WHERE id=? LIMIT 1`, id).
		Scan(&d.ID, &d.Title, &categoryID, &d.OriginalFilename, &d.MimeType, &d.FileSize,
			&d.FileData, &d.UploadedBy, &d.IsPublic, &d.CreatedAt, &d.UpdatedAt)
	if err != nil {
		return model.Document{}, err
	}
	if categoryID.Valid {
		v := uint64(categoryID.Int64)
		d.CategoryID = &v
	}
	return d, nil
}

// List returns document metadata, newest first. publicOnly restricts to
// documents exposed on the public downloads page.
func (r *DocumentRepo) List(ctx context.Context, publicOnly bool, limit, offset int) ([]model.Document, error) {
	q := "SELECT " + documentMetaColumns + " FROM documents"
	if publicOnly {
		q += " WHERE is_public=1"
	}
	q += " ORDER BY created_at DESC LIMIT ? OFFSET ?"
	rows, err := r.DB.QueryContext(ctx, q, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []model.Document
	for rows.Next() {
		d, err := scanDocumentMeta(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

type rowScanner interface{ Scan(dest ...interface{}) error }

func scanDocumentMeta(row rowScanner) (model.Document, error) {
	var d model.Document
	var categoryID sql.NullInt64
	err := row.Scan(&d.ID, &d.Title, &categoryID, &d.OriginalFilename, &d.MimeType,
		&d.FileSize, &d.UploadedBy, &d.IsPublic, &d.CreatedAt, &d.UpdatedAt)
	if err != nil {
		return model.Document{}, err
	}
	if categoryID.Valid {
		v := uint64(categoryID.Int64)
		d.CategoryID = &v
	}
	return d, nil
}
