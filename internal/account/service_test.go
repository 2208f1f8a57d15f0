// Copyright (c) 2026 Driftline. All rights reserved.

package account_test

import (
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/driftline/driftline/internal/account"
	"github.com/driftline/driftline/internal/platform/apperr"
	"github.com/driftline/driftline/pkg/pointer"
)

// memoryUserStore is an in-memory [account.UserStore] for service tests.
type memoryUserStore struct {
	users map[string]*account.User // keyed by id
}

func newMemoryUserStore() *memoryUserStore {
	return &memoryUserStore{users: map[string]*account.User{}}
}

func (s *memoryUserStore) Create(_ context.Context, user *account.User) error {
	for _, existing := range s.users {
		if existing.Email == user.Email {
			return apperr.Conflict("Email already registered")
		}
	}
	clone := *user
	s.users[user.ID] = &clone
	return nil
}

func (s *memoryUserStore) FindByEmail(_ context.Context, email string) (*account.User, error) {
	for _, user := range s.users {
		if user.Email == email {
			clone := *user
			return &clone, nil
		}
	}
	return nil, apperr.NotFound("User")
}

func (s *memoryUserStore) FindByID(_ context.Context, id string) (*account.User, error) {
	if user, ok := s.users[id]; ok {
		clone := *user
		return &clone, nil
	}
	return nil, apperr.NotFound("User")
}

func (s *memoryUserStore) Update(_ context.Context, user *account.User) error {
	if _, ok := s.users[user.ID]; !ok {
		return apperr.NotFound("User")
	}
	clone := *user
	s.users[user.ID] = &clone
	return nil
}

func TestService_Register(t *testing.T) {
	ctx := context.Background()

	t.Run("normalizes email and hashes the password", func(t *testing.T) {
		service := account.NewService(newMemoryUserStore())

		user, err := service.Register(ctx, account.RegisterInput{
			Email:    "  Surfer@Driftline.SHOP ",
			Password: "hang-ten-2026",
		})

		require.NoError(t, err)
		assert.Equal(t, "surfer@driftline.shop", user.Email)
		assert.NotEmpty(t, user.ID)
		assert.NotEqual(t, "hang-ten-2026", user.PasswordHash)
	})

	t.Run("rejects a duplicate email regardless of case", func(t *testing.T) {
		service := account.NewService(newMemoryUserStore())

		_, err := service.Register(ctx, account.RegisterInput{Email: "surfer@driftline.shop", Password: "hang-ten-2026"})
		require.NoError(t, err)

		_, err = service.Register(ctx, account.RegisterInput{Email: "SURFER@driftline.shop", Password: "other-secret"})

		appError := apperr.As(err)
		require.NotNil(t, appError)
		assert.Equal(t, 409, appError.HTTPStatus)
	})
}

func TestService_Login(t *testing.T) {
	ctx := context.Background()

	setup := func(t *testing.T) (*account.Service, *account.User) {
		t.Helper()
		service := account.NewService(newMemoryUserStore())
		user, err := service.Register(ctx, account.RegisterInput{Email: "surfer@driftline.shop", Password: "hang-ten-2026"})
		require.NoError(t, err)
		return service, user
	}

	t.Run("register then login resolves the same identity", func(t *testing.T) {
		service, registered := setup(t)

		loggedIn, err := service.Login(ctx, account.LoginInput{Email: "Surfer@Driftline.Shop", Password: "hang-ten-2026"})

		require.NoError(t, err)
		assert.Equal(t, registered.ID, loggedIn.ID)
	})

	t.Run("unknown email and wrong password are indistinguishable", func(t *testing.T) {
		service, _ := setup(t)

		_, unknownErr := service.Login(ctx, account.LoginInput{Email: "nobody@driftline.shop", Password: "whatever"})
		_, wrongErr := service.Login(ctx, account.LoginInput{Email: "surfer@driftline.shop", Password: "not-it"})

		require.Error(t, unknownErr)
		require.Error(t, wrongErr)
		assert.Equal(t, unknownErr.Error(), wrongErr.Error())

		appError := apperr.As(unknownErr)
		require.NotNil(t, appError)
		assert.Equal(t, 401, appError.HTTPStatus)
	})
}

func TestService_UpdateProfile(t *testing.T) {
	ctx := context.Background()
	service := account.NewService(newMemoryUserStore())

	user, err := service.Register(ctx, account.RegisterInput{
		Email:     "surfer@driftline.shop",
		Password:  "hang-ten-2026",
		FirstName: "Kai",
	})
	require.NoError(t, err)

	t.Run("merges only the provided fields", func(t *testing.T) {
		updated, err := service.UpdateProfile(ctx, user.ID, account.UpdateProfileInput{
			LastName: pointer.To("Moana"),
			Phone:    pointer.To("+1-808-555-0100"),
		})

		require.NoError(t, err)
		assert.Equal(t, "Kai", updated.FirstName) // untouched
		assert.Equal(t, "Moana", updated.LastName)
		assert.Equal(t, "+1-808-555-0100", updated.Phone)
	})

	t.Run("replaces the shipping address wholesale", func(t *testing.T) {
		address := &account.ShippingAddress{
			Street:  "12 Shore Break Rd",
			City:    "Haleiwa",
			State:   "HI",
			Zip:     "96712",
			Country: "US",
		}

		updated, err := service.UpdateProfile(ctx, user.ID, account.UpdateProfileInput{ShippingAddr: address})

		require.NoError(t, err)
		require.NotNil(t, updated.ShippingAddr)
		assert.Equal(t, "Haleiwa", updated.ShippingAddr.City)
	})

	t.Run("cannot alter email or credentials through this path", func(t *testing.T) {
		// The input type has no email or password fields at all; the check
		// here is that an update leaves the stored identity untouched.
		updated, err := service.UpdateProfile(ctx, user.ID, account.UpdateProfileInput{
			FirstName: pointer.To("Nalu"),
		})

		require.NoError(t, err)
		assert.Equal(t, "surfer@driftline.shop", updated.Email)

		_, err = service.Login(ctx, account.LoginInput{Email: "surfer@driftline.shop", Password: "hang-ten-2026"})
		assert.NoError(t, err)
	})
}

func TestUser_Public(t *testing.T) {
	user := &account.User{
		ID:           "user-1",
		Email:        "surfer@driftline.shop",
		PasswordHash: "$2a$10$secret",
		FirstName:    "Kai",
	}

	public := user.Public()

	assert.Equal(t, "user-1", public.ID)
	assert.Equal(t, "surfer@driftline.shop", public.Email)

	// The projection type has no hash field; guard against one sneaking back
	// in via embedded structs or json tags.
	assert.NotContains(t, strings.ToLower(mustJSON(t, public)), "hash")
}

func mustJSON(t *testing.T, value any) string {
	t.Helper()
	data, err := json.Marshal(value)
	require.NoError(t, err)
	return string(data)
}
