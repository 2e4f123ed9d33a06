package domain

import "time"

// NormalizedPost is the source-agnostic result of a fetch
type NormalizedPost struct {
	ID           string    `json:"id"` // platform ordering token
	URL          string    `json:"url"`
	Text         string    `json:"text"`
	AuthorHandle string    `json:"authorHandle"`
	ImageURL     string    `json:"imageUrl,omitempty"`
	Timestamp    time.Time `json:"timestamp"`
	Pinned       bool      `json:"pinned,omitempty"`
}

// Credentials are the optional API keys available to the fetch chain
type Credentials struct {
	XBearerToken    string
	TwitterAPIIOKey string
}
