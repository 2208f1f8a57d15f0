// Copyright (c) 2026 Driftline. All rights reserved.

/*
Package account implements the customer identity layer.

It defines the core domain entities (User, shipping address) and the logic for
registration, login, and profile lifecycle.

# Architecture

This layer is the "Truth" of the system for identity. Entities defined here
have no external dependencies and encapsulate all business rules related to
customer accounts.
*/
package account

import "time"

// # Domain Entities

// ShippingAddress is the customer's default delivery address, stored on the
// profile and snapshotted onto orders at reconciliation time.
type ShippingAddress struct {
	Street  string `json:"street"`
	City    string `json:"city"`
	State   string `json:"state"`
	Zip     string `json:"zip"`
	Country string `json:"country"`
}

// User represents a registered Driftline customer.
//
// Email is unique and case-normalized at registration. Email and
// PasswordHash are immutable through the profile-update path.
type User struct {
	ID           string           `json:"id"`
	Email        string           `json:"email"`
	PasswordHash string           `json:"-"` // Explicitly omitted from JSON for security.
	FirstName    string           `json:"first_name,omitempty"`
	LastName     string           `json:"last_name,omitempty"`
	Phone        string           `json:"phone,omitempty"`
	ShippingAddr *ShippingAddress `json:"shipping_address,omitempty"`
	CreatedAt    time.Time        `json:"created_at"`
	UpdatedAt    time.Time        `json:"updated_at"`
}

// AuthUser is the public projection of a [User] returned by the API.
// It never carries the password hash.
type AuthUser struct {
	ID           string           `json:"id"`
	Email        string           `json:"email"`
	FirstName    string           `json:"first_name,omitempty"`
	LastName     string           `json:"last_name,omitempty"`
	Phone        string           `json:"phone,omitempty"`
	ShippingAddr *ShippingAddress `json:"shipping_address,omitempty"`
}

// Public returns the client-safe projection of the user.
func (u *User) Public() *AuthUser {
	return &AuthUser{
		ID:           u.ID,
		Email:        u.Email,
		FirstName:    u.FirstName,
		LastName:     u.LastName,
		Phone:        u.Phone,
		ShippingAddr: u.ShippingAddr,
	}
}

// # Field Identifiers

// Global field names for validation and identity mapping in the account domain.
const (
	FieldEmail     = "email"
	FieldPassword  = "password"
	FieldFirstName = "first_name"
	FieldLastName  = "last_name"
	FieldPhone     = "phone"
	FieldUser      = "user"
	FieldMessage   = "message"
)
