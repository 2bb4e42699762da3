package models

import "time"

// Admin represents an account allowed to manage the question bank.
type Admin struct {
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}
