package domain

import "time"

// Quiz is an authored quiz graph as stored, before validation.
type Quiz struct {
	Slug      string
	Title     string
	Format    string // "json" or "yaml"
	Source    []byte
	CreatedAt time.Time
	UpdatedAt time.Time
}
