// Package model defines the data structures used throughout the application.
// In Go, we use structs to represent our data — similar to classes in other languages,
// but without inheritance. Go favours composition over inheritance.
package model

import "time"

// User represents a registered account.
//
// The username is the public identity: profile URLs, post bylines, and
// follow targets all address users by username, so it carries a UNIQUE
// constraint in the store. The internal ID (xid) is what foreign keys
// reference, so the two concerns stay separate.
//
// PasswordHash holds the bcrypt output (salt embedded, see internal/auth).
// The `json:"-"` tag excludes it from any encoding, so a view-model can
// embed a User without leaking the hash.
type User struct {
	ID           string    `json:"id"        db:"id"`
	Username     string    `json:"username"  db:"username"`
	PasswordHash string    `json:"-"         db:"password_hash"`
	CreatedAt    time.Time `json:"createdAt" db:"created_at"`
}
