package dto

import (
	"time"

	"github.com/spec-kit/helpdesk/internal/domain"
)

// AccountResponse is the public view of an account. Digest and roster code stay private.
type AccountResponse struct {
	ID          int64       `json:"id"`
	DisplayName string      `json:"display_name"`
	Email       string      `json:"email"`
	Role        domain.Role `json:"role"`
	CreatedAt   time.Time   `json:"created_at"`
}

// UpdateProfileRequest payload for PUT /me.
type UpdateProfileRequest struct {
	DisplayName string `json:"display_name"`
	Email       string `json:"email"`
}

// NewAccountResponse maps a domain account.
func NewAccountResponse(a *domain.Account) AccountResponse {
	return AccountResponse{
		ID:          a.ID,
		DisplayName: a.DisplayName,
		Email:       a.Email,
		Role:        a.Role,
		CreatedAt:   a.CreatedAt,
	}
}
