package domain

import (
	"context"
	"strings"
)

type Role string

// RoleReadOnly users may browse and download but never mutate the catalog.
const RoleReadOnly Role = "L"

func (r Role) CanWrite() bool {
	return r != RoleReadOnly
}

type User struct {
	ID           string
	PasswordHash string
	FirstNames   string
	LastNames    string
	Role         Role
}

func (u *User) FullName() string {
	return strings.TrimSpace(u.FirstNames + " " + u.LastNames)
}

// Principal is the authenticated caller of a request.
type Principal struct {
	UserID string `json:"id"`
	Name   string `json:"name"`
	Role   Role   `json:"role"`
}

func (p Principal) CanWrite() bool {
	return p.UserID != "" && p.Role.CanWrite()
}

type principalKey struct{}

func WithPrincipal(ctx context.Context, p Principal) context.Context {
	return context.WithValue(ctx, principalKey{}, p)
}

func PrincipalFrom(ctx context.Context) (Principal, bool) {
	p, ok := ctx.Value(principalKey{}).(Principal)
	return p, ok
}
