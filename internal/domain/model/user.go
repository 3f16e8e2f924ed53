// Package model contains domain models passed between layers.
package model

import "time"

// UserStatus classifies a user's refereeing eligibility.
type UserStatus string

// User statuses. Only Official users may be assigned to games.
const (
	StatusOfficial    UserStatus = "Official"
	StatusNonOfficial UserStatus = "Non-Official"
)

// Valid reports whether s is a known user status.
func (s UserStatus) Valid() bool {
	return s == StatusOfficial || s == StatusNonOfficial
}

// User represents a user record owned by the user service.
type User struct {
	ID        string     `json:"id"`
	Status    UserStatus `json:"status"`
	FirstName string     `json:"first_name"`
	LastName  string     `json:"last_name"`
	Username  string     `json:"username"`
	Email     string     `json:"email"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}
