package repository

import (
	"context"
	"database/sql"

	"github.com/keshetlaw/keshet-cms/internal/model"
)

// SettingsRepo persists the single site_settings row keyed by "main".
type SettingsRepo struct{ DB *sql.DB }

func NewSettingsRepo(db *sql.DB) *SettingsRepo { return &SettingsRepo{DB: db} }

// Get returns the current settings. A missing row is not an error; the
// zero-value settings are returned so the public site can render defaults.
func (r *SettingsRepo) Get(ctx context.Context) (model.SiteSettings, error) {
	var s model.SiteSettings
	err := r.DB.QueryRowContext(ctx,
		"SELECT settings_key, video_url, video_url2, updated_at FROM site_settings WHERE settings_key='main' LIMIT 1").
		Scan(&s.Key, &s.VideoURL, &s.VideoURL2, &s.UpdatedAt)
	if err == sql.ErrNoRows {
		return model.SiteSettings{Key: "main"}, nil
	}
	if err != nil {
		return model.SiteSettings{}, err
	}
	return s, nil
}

// Upsert writes the settings row, creating it on first use.
func (r *SettingsRepo) Upsert(ctx context.Context, videoURL, videoURL2 string) error {
	_, err := r.DB.ExecContext(ctx,
		`INSERT INTO site_settings (settings_key, video_url, video_url2) VALUES ('main',?,?)
		 ON DUPLICATE KEY UPDATE video_url=VALUES(video_url), video_url2=VALUES(video_url2)`,
		videoURL, videoURL2)
	return err
}
