// Copyright (c) 2026 Driftline. All rights reserved.

package account

import (
	"context"
	"fmt"
	"strings"

	"github.com/driftline/driftline/internal/platform/apperr"
	"github.com/driftline/driftline/internal/platform/sec"
	"github.com/driftline/driftline/pkg/uuid"
)

// # Contracts & Types

// TokenIssuer defines the contract for minting session tokens.
type TokenIssuer interface {
	// Issue creates a signed session token for the given user identity.
	Issue(userID, email string) (string, error)
}

// Service implements customer identity use cases.
//
// # Review Process
//
// This service is critical for security. Any changes to hashing, registration,
// or login logic must be reviewed carefully, in particular the uniform login
// error, which prevents account enumeration.
type Service struct {
	userStore UserStore
}

// NewService constructs a new account [Service] with its store dependency.
func NewService(userStore UserStore) *Service {
	return &Service{userStore: userStore}
}

// # Registration Flow

// RegisterInput holds the data required to enroll a new customer.
type RegisterInput struct {
	Email     string
	Password  string
	FirstName string
	LastName  string
}

/*
Register validates, hashes, and persists a brand new customer account.

Description: Normalizes the email to lowercase, rejects duplicates with a
client-safe Conflict, and stores a one-way salted hash of the password.

Parameters:
  - ctx: context.Context
  - input: RegisterInput

Returns:
  - *User: Created entity
  - error: Conflict (if the email exists) or storage errors
*/
func (service *Service) Register(ctx context.Context, input RegisterInput) (*User, error) {

	// Case-normalize so Foo@Bar.com and foo@bar.com are the same identity.
	email := strings.ToLower(strings.TrimSpace(input.Email))

	// Verify email uniqueness. Return a client-safe Conflict error.
	_, err := service.userStore.FindByEmail(ctx, email)
	if err == nil {
		return nil, apperr.Conflict("Email already registered")
	}

	// Prevent storing plain-text passwords. Default cost is used for balance
	// between security and CPU utilization during registration spikes.
	hashedPassword, err := sec.HashPassword(input.Password)
	if err != nil {
		return nil, fmt.Errorf("account_service_hash_failed: %w", err)
	}

	// Construct the new User entity. Time-sortable ID to prevent PG index fragmentation.
	user := &User{
		ID:           uuid.New(),
		Email:        email,
		PasswordHash: hashedPassword,
		FirstName:    input.FirstName,
		LastName:     input.LastName,
	}

	// Persist the user. The unique index backstops the lookup above against
	// concurrent registrations of the same email.
	if err := service.userStore.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("account_service_register_failed: %w", err)
	}

	return user, nil
}

// # Authentication Flow

// LoginInput defines credentials for an authentication attempt.
type LoginInput struct {
	Email    string
	Password string
}

/*
Login validates customer credentials.

Description: Verifies identity with a constant-time bcrypt comparison. A
lookup miss and a hash mismatch produce the identical Unauthorized error so
the response never reveals whether an email is registered.

Parameters:
  - ctx: context.Context
  - input: LoginInput

Returns:
  - *User: The authenticated entity
  - error: Unauthorized or internal failures
*/
func (service *Service) Login(ctx context.Context, input LoginInput) (*User, error) {
	email := strings.ToLower(strings.TrimSpace(input.Email))

	user, err := service.userStore.FindByEmail(ctx, email)

	// Generic message to prevent enumeration, never "no such user".
	if err != nil {
		return nil, apperr.Unauthorized("Invalid email or password")
	}

	// Constant-time comparison in bcrypt prevents timing attacks.
	if !sec.CheckPasswordHash(input.Password, user.PasswordHash) {
		return nil, apperr.Unauthorized("Invalid email or password")
	}

	return user, nil
}

// # Profile Management

/*
CurrentUser resolves the live account record for a verified session.

Description: Re-fetches the user from storage rather than trusting the token
claims, so profile edits are reflected immediately.

Parameters:
  - ctx: context.Context
  - userID: string (from the verified session, passed explicitly)

Returns:
  - *User: The hydrated account entity
  - error: apperr.NotFound if the account vanished, or storage errors
*/
func (service *Service) CurrentUser(ctx context.Context, userID string) (*User, error) {
	user, err := service.userStore.FindByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("account_service_current_user_failed: %w", err)
	}
	return user, nil
}

// UpdateProfileInput defines the mutable subset of profile fields.
//
// Email and password hash are structurally absent; there is no way to smuggle
// them through this path.
type UpdateProfileInput struct {
	FirstName    *string
	LastName     *string
	Phone        *string
	ShippingAddr *ShippingAddress
}

/*
UpdateProfile applies a partial set of changes to a customer's profile.

Description: Fetches the existing user state, overlays only the provided
fields, and synchronizes the change to persistent storage. This is a merge,
never a full replacement.

Parameters:
  - ctx: context.Context
  - userID: string
  - input: UpdateProfileInput

Returns:
  - *User: The updated account entity
  - error: Lookup or update failures
*/
func (service *Service) UpdateProfile(ctx context.Context, userID string, input UpdateProfileInput) (*User, error) {
	user, err := service.userStore.FindByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("account_service_update_lookup_failed: %w", err)
	}

	// Apply delta updates
	if input.FirstName != nil {
		user.FirstName = *input.FirstName
	}

	if input.LastName != nil {
		user.LastName = *input.LastName
	}

	if input.Phone != nil {
		user.Phone = *input.Phone
	}

	if input.ShippingAddr != nil {
		user.ShippingAddr = input.ShippingAddr
	}

	// Persist changes
	if err := service.userStore.Update(ctx, user); err != nil {
		return nil, fmt.Errorf("account_service_update_failed: %w", err)
	}

	return user, nil
}
