package model

import "time"

type Item struct {
	Key         string    `json:"key"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// RequestDetails describes the request a response answers. Body and Query are
// omitted from JSON when empty.
type RequestDetails struct {
	URL       string         `json:"url"`
	Method    string         `json:"method"`
	Body      map[string]any `json:"body,omitempty"`
	Query     map[string]any `json:"query,omitempty"`
	Timestamp string         `json:"timestamp"`
}
