// Package domain contains core domain types for the CareerBot application.
package domain

import (
	"time"
)

// Account represents a registered user identity.
//
// The password digest is a bcrypt hash; the raw password is never stored.
// Username is immutable after creation and compared exact-match
// (case-sensitive, no normalization).
type Account struct {
	ID             string    `json:"id"`
	Username       string    `json:"username"`
	PasswordDigest string    `json:"-"`
	CreatedAt      time.Time `json:"created_at"`
}
