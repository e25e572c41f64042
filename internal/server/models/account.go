// Package models defines the server-side data models of the account service.
package models

import "time"

// Account is a materialized user account. It is only ever created by a
// successful activation.
type Account struct {
	ID             string    `db:"id" json:"id"`
	Name           string    `db:"name" json:"name"`
	Email          string    `db:"email" json:"email"`
	PasswordDigest string    `db:"password_digest" json:"-"`
	PhoneNumber    int64     `db:"phone_number" json:"phone_number"`
	Role           string    `db:"role" json:"role"`
	AvatarKey      *string   `db:"avatar_key" json:"avatar_key,omitempty"`
	CreatedAt      time.Time `db:"created_at" json:"created_at"`
	UpdatedAt      time.Time `db:"updated_at" json:"updated_at"`
}

// NewAccount holds the fields a caller supplies when materializing an account;
// storage assigns the rest.
type NewAccount struct {
	Name           string
	Email          string
	PasswordDigest string
	PhoneNumber    int64
}

// Page bounds a listing. A zero Limit means no limit.
type Page struct {
	Limit  int
	Offset int
}
