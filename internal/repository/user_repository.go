package repository

import (
	"context"
	"database/sql"
	"strings"

	"github.com/keshetlaw/keshet-cms/internal/model"
)

// UserRepo is the credential store over the 'users' table.
type UserRepo struct{ DB *sql.DB }

func NewUserRepo(db *sql.DB) *UserRepo { return &UserRepo{DB: db} }

const userColumns = "id,name,email,password_hash,role,status,created_at,updated_at"

// Create inserts a user and returns its ID. Email is normalized to
// lowercase so the unique index enforces case-insensitive uniqueness.
func (r *UserRepo) Create(ctx context.Context, name, email, passwordHash string, role model.Role) (uint64, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO users (name, email, password_hash, role, status) VALUES (?,?,?,?,?)",
		name, email, passwordHash, string(role), string(model.StatusActive))
	if err != nil {
		if isDuplicate(err) {
			return 0, ErrEmailExists
		}
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return uint64(id), nil
}

// GetByEmail fetches a user by normalized email.
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (model.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	return r.scanOne(ctx, "SELECT "+userColumns+" FROM users WHERE email=? LIMIT 1", email)
}

// GetByID fetches a user by id.
func (r *UserRepo) GetByID(ctx context.Context, id uint64) (model.User, error) {
	return r.scanOne(ctx, "SELECT "+userColumns+" FROM users WHERE id=? LIMIT 1", id)
}

// List returns all users, newest first. Intended for the admin area; the
// user base of a CMS is small so no pagination is applied here.
func (r *UserRepo) List(ctx context.Context) ([]model.User, error) {
	rows, err := r.DB.QueryContext(ctx, "SELECT "+userColumns+" FROM users ORDER BY created_at DESC")
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []model.User
	for rows.Next() {
		var u model.User
		var role, status string
		if err := rows.Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &role, &status, &u.CreatedAt, &u.UpdatedAt); err != nil {
			return nil, err
		}
		u.Role, _ = model.ParseRole(role)
		u.Status, _ = model.ParseStatus(status)
		out = append(out, u)
	}
	return out, rows.Err()
}

// HasAdmin reports whether any user with the admin role exists.
func (r *UserRepo) HasAdmin(ctx context.Context) (bool, error) {
	var n int
	err := r.DB.QueryRowContext(ctx,
		"SELECT COUNT(1) FROM users WHERE role=?", string(model.RoleAdmin)).Scan(&n)
	return n > 0, err
}

// CreateFirstAdmin transactionally inserts the bootstrap lock singleton and
// the first admin account. The lock row's fixed primary key turns the
// check-then-act race of concurrent bootstrap calls into a duplicate-key
// failure for the loser, reported as ErrAlreadyBootstrapped.
func (r *UserRepo) CreateFirstAdmin(ctx context.Context, name, email, passwordHash string) (uint64, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err = tx.ExecContext(ctx, "INSERT INTO bootstrap_locks (id) VALUES (1)"); err != nil {
		if isDuplicate(err) {
			return 0, ErrAlreadyBootstrapped
		}
		return 0, err
	}
	res, err := tx.ExecContext(ctx,
		"INSERT INTO users (name, email, password_hash, role, status) VALUES (?,?,?,?,?)",
		name, email, passwordHash, string(model.RoleAdmin), string(model.StatusActive))
	if err != nil {
		if isDuplicate(err) {
			return 0, ErrEmailExists
		}
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	if err = tx.Commit(); err != nil {
		return 0, err
	}
	return uint64(id), nil
}

// UpdateRole changes a user's role.
func (r *UserRepo) UpdateRole(ctx context.Context, id uint64, role model.Role) error {
	return r.expectOne(ctx, "UPDATE users SET role=? WHERE id=?", string(role), id)
}

// UpdateStatus changes a user's status. Session invalidation on block is
// the caller's responsibility so the revocation stays auditable.
func (r *UserRepo) UpdateStatus(ctx context.Context, id uint64, status model.Status) error {
	return r.expectOne(ctx, "UPDATE users SET status=? WHERE id=?", string(status), id)
}

func (r *UserRepo) scanOne(ctx context.Context, query string, arg interface{}) (model.User, error) {
	var u model.User
	var role, status string
	err := r.DB.QueryRowContext(ctx, query, arg).
		Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &role, &status, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return model.User{}, err
	}
	u.Role, _ = model.ParseRole(role)
	u.Status, _ = model.ParseStatus(status)
	return u, nil
}

func (r *UserRepo) expectOne(ctx context.Context, query string, args ...interface{}) error {
	res, err := r.DB.ExecContext(ctx, query, args...)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// isDuplicate detects MySQL error 1062 (duplicate entry for a unique key).
func isDuplicate(err error) bool {
	return err != nil && strings.Contains(strings.ToLower(err.Error()), "1062")
}
