// Package entity defines the domain entities for the auth feature.
package entity

import "time"

// User represents a registered user in the system.
// It contains authentication credentials and profile attributes.
type User struct {
	// ID is the unique identifier for the user.
	ID uint `gorm:"primaryKey" json:"id"`

	// Fullname is the user's display name.
	Fullname string `gorm:"size:255" json:"fullname"`

	// Email is the user's email address used for authentication.
	// It must be unique across all users.
	Email string `gorm:"uniqueIndex;size:255;not null" json:"email"`

	// Password is the bcrypt hash of the user's password.
	// Plaintext is never stored and the field is never serialized.
	Password string `gorm:"size:255;not null" json:"-"`

	// Age is the user's age in years.
	Age int `json:"age"`

	// Gender is the user's self-reported gender.
	Gender string `gorm:"size:32;not null" json:"gender"`

	// Mobile is the user's phone number.
	Mobile string `gorm:"size:32;not null" json:"mobile"`

	// Token is a denormalized copy of the last issued bearer token,
	// kept for reference only. Authorization never trusts it; every
	// request re-verifies the presented token's signature and expiry.
	Token string `gorm:"size:512" json:"token,omitempty"`

	// CreatedAt is the timestamp when the user was created.
	CreatedAt time.Time `json:"createdAt"`

	// UpdatedAt is the timestamp when the user was last updated.
	UpdatedAt time.Time `json:"updatedAt"`
}
