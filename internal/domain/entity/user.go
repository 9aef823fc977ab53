// Package entity contains the core business objects of the project,
// each representing a unique, identifiable concept within the domain.
package entity

import (
	"time"
)

// User is the single entity in the system, representing one account.
// PasswordHash carries the salted credential digest; it never leaves the
// service/store boundary and is excluded from every outward projection.
type User struct {
	ID           int64     // Surrogate primary key, assigned by the store on insert.
	Email        string    // Unique login identifier. Immutable after creation.
	FullName     string    // The user's display name. Mutable.
	PasswordHash string    // One-way salted hash of the credential. Never the plaintext.
	CreatedAt    time.Time // Set once at insert.
	UpdatedAt    time.Time // Set at insert, refreshed on every successful update.
}
