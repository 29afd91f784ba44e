package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/keshetlaw/keshet-cms/internal/model"
)

// SessionRepo is the session store over the 'sessions' table. Rows are
// keyed by the token hash (unique index); the raw bearer token never
// reaches this layer in persisted form.
type SessionRepo struct{ DB *sql.DB }

func NewSessionRepo(db *sql.DB) *SessionRepo { return &SessionRepo{DB: db} }

// Create inserts a session row. Expiry must be strictly in the future;
// anything else is rejected with ErrExpiryInPast before touching the store.
func (r *SessionRepo) Create(ctx context.Context, userID uint64, tokenHash string, expiresAt time.Time, meta model.SessionMeta) error {
	if !expiresAt.After(time.Now().UTC()) {
		return ErrExpiryInPast
	}
	_, err := r.DB.ExecContext(ctx,
		"INSERT INTO sessions (user_id, token_hash, expires_at, user_agent, ip) VALUES (?,?,?,?,?)",
		userID, tokenHash, expiresAt, nullable(meta.UserAgent), nullable(meta.IP))
	return err
}

// Resolve returns the identity snapshot of the session owner for a token
// hash. It reports sql.ErrNoRows for an unknown hash, an expired session,
// or an owner whose status is not active; callers cannot tell these apart,
// which is intentional. The expiry check runs at read time, so a
// physically unswept expired row never resolves.
func (r *SessionRepo) Resolve(ctx context.Context, tokenHash string) (model.SessionUser, error) {
	var (
		u            model.SessionUser
		role, status string
		expiresAt    time.Time
	)
	err := r.DB.QueryRowContext(ctx,
		`SELECT u.id, u.name, u.email, u.role, u.status, s.expires_at
		   FROM sessions s JOIN users u ON u.id = s.user_id
		  WHERE s.token_hash=? LIMIT 1`,
		tokenHash).Scan(&u.ID, &u.Name, &u.Email, &role, &status, &expiresAt)
	if err != nil {
		return model.SessionUser{}, err
	}
	if !time.Now().UTC().Before(expiresAt) {
		return model.SessionUser{}, sql.ErrNoRows
	}
	u.Role, _ = model.ParseRole(role)
	u.Status, _ = model.ParseStatus(status)
	if u.Status != model.StatusActive {
		return model.SessionUser{}, sql.ErrNoRows
	}
	return u, nil
}

// DeleteByHash removes the session matching a token hash. Deleting an
// absent or already-deleted session is not an error (idempotent logout).
func (r *SessionRepo) DeleteByHash(ctx context.Context, tokenHash string) error {
	_, err := r.DB.ExecContext(ctx, "DELETE FROM sessions WHERE token_hash=?", tokenHash)
	return err
}

// DeleteAllForUser removes every session owned by the given user
// (administrative "sign out everywhere").
func (r *SessionRepo) DeleteAllForUser(ctx context.Context, userID uint64) error {
	_, err := r.DB.ExecContext(ctx, "DELETE FROM sessions WHERE user_id=?", userID)
	return err
}

// DeleteExpired sweeps rows whose expiry has passed and returns how many
// were removed. Resolve already treats such rows as absent; the sweep only
// keeps the table from growing without bound.
func (r *SessionRepo) DeleteExpired(ctx context.Context) (int64, error) {
	res, err := r.DB.ExecContext(ctx, "DELETE FROM sessions WHERE expires_at <= UTC_TIMESTAMP()")
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// nullable maps the empty string to SQL NULL for optional metadata columns.
func nullable(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
