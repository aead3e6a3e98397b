package model

import "context"

// User is the resolved identity of the current session as returned by
// the backend's /auth/me endpoint. It is only ever replaced wholesale
// by a successful identity fetch.
type User struct {
	ID        int64  `json:"id"`
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

// DisplayName returns the user's full name, falling back to the email
// when no name was registered.
func (u User) DisplayName() string {
	switch {
	case u.FirstName != "" && u.LastName != "":
		return u.FirstName + " " + u.LastName
	case u.FirstName != "":
		return u.FirstName
	default:
		return u.Email
	}
}

// RegisterParams contains the fields submitted on registration.
type RegisterParams struct {
	Email     string `json:"email"`
	Password  string `json:"password"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

// CredentialStore is the durable client-local slot holding the bearer
// token. It is written on login, read by the gateway on every request,
// and erased on logout or on any unauthorized response.
type CredentialStore interface {
	Get(ctx context.Context) (string, error)
	Set(ctx context.Context, token string) error
	Clear(ctx context.Context) error
}
