package models

import "time"

// ExportResult describes a CSV object written to storage.
type ExportResult struct {
	Bucket      string    `json:"bucket"`
	ObjectKey   string    `json:"object_key"`
	Rows        int       `json:"rows"`
	DownloadURL string    `json:"download_url,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}
