package models

import (
	"time"

	"github.com/google/uuid"
)

// Question is a quiz item: a statement, its candidate answers and optional labels.
type Question struct {
	ID        uuid.UUID `json:"id"`
	Statement string    `json:"statement"`
	Answers   []string  `json:"answers"`
	Labels    []string  `json:"labels,omitempty"`
	CreatedAt time.Time `json:"-"`
}
