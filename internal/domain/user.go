package domain

import "time"

// UserStatus enumerates account lifecycle states.
type UserStatus string

const (
	UserStatusActive    UserStatus = "ACTIVE"
	UserStatusSuspended UserStatus = "SUSPENDED"
)

// User is a marketplace account. A user can author auctions and bid on
// auctions authored by others.
type User struct {
	ID           string
	Name         string
	Email        string
	PasswordHash string
	Status       UserStatus
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Follow is a directed edge in the follow graph.
type Follow struct {
	FollowerID string
	FolloweeID string
	CreatedAt  time.Time
}
