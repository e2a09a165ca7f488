package models

import "time"

// Asset is a static file loaded from an asset store
type Asset struct {
	Name        string    `json:"name"`
	ContentType string    `json:"content_type"`
	Body        []byte    `json:"body"`
	Size        int64     `json:"size"`
	ETag        string    `json:"etag,omitempty"`
	ModTime     time.Time `json:"mod_time"`
}
