package domain

import "time"

// Session describes an issued bearer token.
type Session struct {
	Token     string
	ID        string
	AccountID int64
	Role      Role
	IssuedAt  time.Time
	ExpiresAt time.Time
}
