package domain

import "time"

// Role determines what an account may see and do.
type Role string

const (
	RoleRequester  Role = "Requester"
	RoleTechnician Role = "Technician"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	return r == RoleRequester || r == RoleTechnician
}

// Account is a registered employee or technician.
type Account struct {
	ID           int64
	DisplayName  string
	Email        string
	PasswordHash string
	Role         Role
	RosterCode   string
	CreatedAt    time.Time
}

// IsTechnician reports whether the account sees all tickets.
func (a *Account) IsTechnician() bool {
	return a != nil && a.Role == RoleTechnician
}
