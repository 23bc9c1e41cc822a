// Package history records every generation run so it can be listed and
// inspected later through the API.
package history

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

// ErrNotFound is returned by Get for an unknown generation ID.
var ErrNotFound = errors.New("generation not found")

// Generation is one completed generation run.
type Generation struct {
	ID           uuid.UUID `json:"id"`
	UID          string    `json:"uid,omitempty"`
	TemplateName string    `json:"templateName,omitempty"`
	Entity       string    `json:"entity"`
	Kinds        []string  `json:"kinds"`
	Bytes        int64     `json:"bytes"`
	CreatedAt    time.Time `json:"createdAt"`
}

// Store persists generations.
type Store interface {
	Record(ctx context.Context, g Generation) error
	Get(ctx context.Context, id uuid.UUID) (Generation, error)
	// List returns one page of generations, newest first, and the total count.
	List(ctx context.Context, p Page) ([]Generation, int, error)
}

// Page selects a window of List results.
type Page struct {
	Limit  int `schema:"page_size"`
	Offset int `schema:"offset"`
}

const (
	defaultLimit = 20
	maxLimit     = 200
)

// Normalize applies the default and maximum page size.
func (p Page) Normalize() Page {
	if p.Limit <= 0 {
		p.Limit = defaultLimit
	}
	if p.Limit > maxLimit {
		p.Limit = maxLimit
	}
	if p.Offset < 0 {
		p.Offset = 0
	}
	return p
}
