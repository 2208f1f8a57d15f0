// Copyright (c) 2026 Driftline. All rights reserved.

/*
HTTP delivery layer for customer identity.

It implements the gateway for the authentication lifecycle, from account
creation to session cookie management and profile updates.

# Architecture

The handler acts as a thin mediation layer between the web and domain services:
  - Protocol: Standard RESTful JSON interface.
  - Security: Owns the `auth-token` session cookie (set on register/login,
    cleared on logout).
  - Verification: Enforces strict input validation before passing to [Service].

This layer is strictly responsible for transport concerns (status codes, headers, JSON).
*/
package account

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/driftline/driftline/internal/platform/constants"
	"github.com/driftline/driftline/internal/platform/middleware"
	requestutil "github.com/driftline/driftline/internal/platform/request"
	"github.com/driftline/driftline/internal/platform/respond"
	"github.com/driftline/driftline/internal/platform/validate"
)

// # Definitions & Constructors

// Handler implements account-related HTTP endpoints.
type Handler struct {
	accountService *Service
	tokens         TokenIssuer

	// secureCookies toggles the cookie Secure attribute; enabled in production.
	secureCookies bool
}

// NewHandler constructs a new [Handler] with its dependencies.
func NewHandler(service *Service, tokens TokenIssuer, secureCookies bool) *Handler {
	return &Handler{
		accountService: service,
		tokens:         tokens,
		secureCookies:  secureCookies,
	}
}

// Routes returns a [chi.Router] configured with account routes.
//
// # Endpoints
//   - POST /register : Creates a new account and starts a session.
//   - POST /login    : Authenticates and starts a session.
//   - POST /logout   : Clears the session cookie.
//   - GET  /me       : Returns the live profile for the current session.
//   - PUT  /profile  : Partial profile update.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	// Public endpoints
	router.Post("/register", handler.register)
	router.Post("/login", handler.login)
	router.Post("/logout", handler.logout)

	// Protected endpoints
	router.Group(func(r chi.Router) {
		r.Use(middleware.RequireAuth)
		r.Get("/me", handler.me)
		r.Put("/profile", handler.updateProfile)
	})

	return router
}

// # Request Payloads

type registerRequest struct {
	Email     string `json:"email"`
	Password  string `json:"password"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type updateProfileRequest struct {
	FirstName    *string          `json:"first_name"`
	LastName     *string          `json:"last_name"`
	Phone        *string          `json:"phone"`
	ShippingAddr *ShippingAddress `json:"shipping_address"`
}

/*
Register handles the creation of a new customer account.

POST /api/v1/auth/register

Description: Validates input, checks for identity conflicts, persists the new
profile, and establishes a session by setting the auth cookie.

Request:
  - Body: registerRequest (Email, Password, FirstName?, LastName?)

Response:
  - 201: AuthUser: Created profile (never the password hash)
  - 400: ErrInvalidJSON: Bad input or validation failure
  - 409: ErrConflict: Email already registered
*/
func (handler *Handler) register(writer http.ResponseWriter, request *http.Request) {
	var input registerRequest

	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	validator := &validate.Validator{}
	validator.Required(FieldEmail, input.Email).
		Email(FieldEmail, input.Email).
		Required(FieldPassword, input.Password).
		MinLen(FieldPassword, input.Password, 8)

	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	user, err := handler.accountService.Register(request.Context(), RegisterInput{
		Email:     input.Email,
		Password:  input.Password,
		FirstName: input.FirstName,
		LastName:  input.LastName,
	})

	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.startSession(writer, request, user); err != nil {
		return
	}

	respond.Created(writer, user.Public())
}

/*
Login authenticates a customer and establishes a session.

POST /api/v1/auth/login

Description: Verifies credentials and injects the signed session token as an
HTTP-only cookie. Unknown email and wrong password yield the identical error.

Request:
  - Body: loginRequest (Email, Password)

Response:
  - 200: AuthUser: Authenticated profile
  - 401: ErrUnauthorized: Invalid email or password
*/
func (handler *Handler) login(writer http.ResponseWriter, request *http.Request) {
	var input loginRequest

	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	validator := &validate.Validator{}
	validator.Required(FieldEmail, input.Email)
	validator.Required(FieldPassword, input.Password)

	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	user, err := handler.accountService.Login(request.Context(), LoginInput{
		Email:    input.Email,
		Password: input.Password,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.startSession(writer, request, user); err != nil {
		return
	}

	respond.OK(writer, user.Public())
}

/*
Logout ends the current session.

POST /api/v1/auth/logout

Description: Clears the session cookie client-side. Tokens are stateless, so
there is nothing to revoke server-side; the credential simply stops being
presented and expires naturally.

Response:
  - 204: No Content: Session cookie cleared
*/
func (handler *Handler) logout(writer http.ResponseWriter, request *http.Request) {
	http.SetCookie(writer, &http.Cookie{
		Name:     constants.SessionCookieName,
		Value:    "",
		Path:     constants.SessionCookiePath,
		MaxAge:   -1,
		Secure:   handler.secureCookies,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	respond.NoContent(writer)
}

/*
Me returns the live profile for the authenticated customer.

GET /api/v1/auth/me

Description: Re-fetches the account record instead of echoing token claims so
profile edits are reflected immediately.

Response:
  - 200: AuthUser: Current profile
  - 401: ErrUnauthorized: No valid session
  - 404: ErrNotFound: Account no longer exists
*/
func (handler *Handler) me(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	user, err := handler.accountService.CurrentUser(request.Context(), userID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, user.Public())
}

/*
UpdateProfile applies a partial update to the customer's profile.

PUT /api/v1/auth/profile

Description: Merges only the provided fields (name, phone, shipping address).
The payload has no email or password fields; those are immutable here.

Request:
  - Body: updateProfileRequest (all fields optional)

Response:
  - 200: AuthUser: Updated profile
  - 401: ErrUnauthorized: No valid session
*/
func (handler *Handler) updateProfile(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input updateProfileRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	validator := &validate.Validator{}
	if input.FirstName != nil {
		validator.MaxLen(FieldFirstName, *input.FirstName, 100)
	}
	if input.LastName != nil {
		validator.MaxLen(FieldLastName, *input.LastName, 100)
	}
	if input.Phone != nil {
		validator.MaxLen(FieldPhone, *input.Phone, 32)
	}

	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	user, err := handler.accountService.UpdateProfile(request.Context(), userID, UpdateProfileInput{
		FirstName:    input.FirstName,
		LastName:     input.LastName,
		Phone:        input.Phone,
		ShippingAddr: input.ShippingAddr,
	})

	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, user.Public())
}

// # Session Cookie

// startSession issues a token for the user and sets the session cookie.
// On failure it writes the error response itself and reports it to the caller.
func (handler *Handler) startSession(writer http.ResponseWriter, request *http.Request, user *User) error {
	token, err := handler.tokens.Issue(user.ID, user.Email)
	if err != nil {
		respond.Error(writer, request, err)
		return err
	}

	http.SetCookie(writer, &http.Cookie{
		Name:     constants.SessionCookieName,
		Value:    token,
		Path:     constants.SessionCookiePath,
		MaxAge:   int(constants.SessionTokenTTL / time.Second),
		Secure:   handler.secureCookies,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	return nil
}
