// Package model defines the data structures used throughout the application.
package model

import "time"

// User is a person whose exercises are tracked.
//
// ID is generated by the store when the user is created and never changes.
// CreatedAt is kept for bookkeeping only; API responses expose just the
// username and the id.
type User struct {
	ID        string
	Username  string
	CreatedAt time.Time
}
