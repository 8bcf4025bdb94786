package handler

import "time"

// errorResponse is the standard error envelope returned on all 4xx/5xx responses.
type errorResponse struct {
	Error string `json:"error"`
}

// --- Request / Response types ---

// registerUserRequest mirrors the registration form. The matching_password
// field exists only here; it is checked against password and then dropped.
type registerUserRequest struct {
	Username         string `json:"username"          validate:"required,min=2,max=15"`
	FirstName        string `json:"first_name"        validate:"required,min=2,max=30"`
	LastName         string `json:"last_name"         validate:"required,min=2,max=30"`
	Email            string `json:"email"             validate:"required,email"`
	Phone            string `json:"phone"             validate:"required,phone"`
	Password         string `json:"password"          validate:"required,min=6"`
	MatchingPassword string `json:"matching_password" validate:"required,eqfield=Password"`
	BirthDate        string `json:"birth_date,omitempty"`
	IsAdmin          bool   `json:"is_admin"`
	Enabled          bool   `json:"enabled"`
}

// editUserRequest updates an existing record. Password is optional; when
// empty the stored hash is kept and matching_password must be empty too.
type editUserRequest struct {
	Username         string `json:"username"          validate:"required,min=2,max=15"`
	FirstName        string `json:"first_name"        validate:"required,min=2,max=30"`
	LastName         string `json:"last_name"         validate:"required,min=2,max=30"`
	Email            string `json:"email"             validate:"required,email"`
	Phone            string `json:"phone"             validate:"required,phone"`
	Password         string `json:"password"          validate:"omitempty,min=6"`
	MatchingPassword string `json:"matching_password" validate:"eqfield=Password"`
	BirthDate        string `json:"birth_date,omitempty"`
	IsAdmin          bool   `json:"is_admin"`
	Enabled          bool   `json:"enabled"`
}

type loginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// Response-only types owned by the transport layer, kept separate from the
// domain types so the JSON contract is not coupled to internal changes.

type userResponse struct {
	ID         int64     `json:"id"`
	Username   string    `json:"username"`
	FirstName  string    `json:"first_name"`
	LastName   string    `json:"last_name"`
	Email      string    `json:"email"`
	Phone      string    `json:"phone"`
	BirthDate  string    `json:"birth_date,omitempty"`
	IsAdmin    bool      `json:"is_admin"`
	Enabled    bool      `json:"enabled"`
	CreatedAt  time.Time `json:"created_at"`
	ModifiedAt time.Time `json:"modified_at"`
	ModifiedBy string    `json:"modified_by,omitempty"`
	Roles      []string  `json:"roles"`
}

type listUsersResponse struct {
	Data  []userResponse `json:"data"`
	Total int            `json:"total"`
}

type loginResponse struct {
	Token string       `json:"token"`
	User  userResponse `json:"user"`
}
