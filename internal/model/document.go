package model

import "time"

// Document mirrors the `documents` table. File bytes live in the blob
// column; public listings expose metadata only and downloads go through a
// short-lived signed link.
type Document struct {
	ID               uint64    `json:"id"`
	Title            string    `json:"title"`
	CategoryID       *uint64   `json:"categoryId,omitempty"`
	OriginalFilename string    `json:"originalFilename"`
	MimeType         string    `json:"mimeType"`
	FileSize         int64     `json:"fileSize"`
	FileData         []byte    `json:"-"`
	UploadedBy       uint64    `json:"uploadedBy"`
	IsPublic         bool      `json:"isPublic"`
	CreatedAt        time.Time `json:"createdAt"`
	UpdatedAt        time.Time `json:"updatedAt"`
}

// SiteSettings mirrors the single-row `site_settings` table keyed by
// settings_key = "main".
type SiteSettings struct {
	Key       string    `json:"-"`
	VideoURL  string    `json:"videoUrl"`
	VideoURL2 string    `json:"videoUrl2"`
	UpdatedAt time.Time `json:"updatedAt"`
}
