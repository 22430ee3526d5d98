// Package models defines the persisted entities of the book delivery backend.
package models

import "time"

// Role enumerates the access levels a user can hold.
type Role string

const (
	RoleAdmin    Role = "ADMIN"
	RoleCustomer Role = "CUSTOMER"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	return r == RoleAdmin || r == RoleCustomer
}

type User struct {
	ID           int64
	Email        string
	Username     string
	FullName     string
	PasswordHash string
	Role         Role
	CreatedAt    time.Time
}
