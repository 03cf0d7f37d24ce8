package model

import "time"

// PostRecord is one generated post as appended to the post log. Records are
// append-only; nothing in this codebase mutates or deletes them.
type PostRecord struct {
	Theme     string   `json:"theme"`
	Format    string   `json:"format"`
	Query     string   `json:"query"`
	Content   string   `json:"content"`
	Hashtags  []string `json:"hashtags"`
	Provider  string   `json:"provider"`
	CreatedAt string   `json:"created_at"`
}

// Timestamp formats t as the ISO-8601 UTC string stored in CreatedAt.
func Timestamp(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}
