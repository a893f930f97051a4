package handlers

import (
	"net/http"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/helpdesk/internal/api/dto"
	"github.com/spec-kit/helpdesk/internal/auth"
	"github.com/spec-kit/helpdesk/internal/service"
	apperrors "github.com/spec-kit/helpdesk/pkg/util"
)

// AuthHandler exposes registration, login, recovery and logout.
type AuthHandler struct {
	auth *service.AuthService
}

// NewAuthHandler constructs handler.
func NewAuthHandler(authService *service.AuthService) *AuthHandler {
	return &AuthHandler{auth: authService}
}

// Register handles POST /auth/register.
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req dto.RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if missing := blankFields(map[string]string{
		"display_name": req.DisplayName,
		"email":        req.Email,
		"password":     req.Password,
		"code":         req.Code,
	}); len(missing) > 0 {
		return apperrors.NewValidationError("required fields missing", map[string]any{"fields": missing})
	}
	if req.Password != req.PasswordConfirmation {
		return apperrors.NewValidationError("passwords do not match", nil)
	}

	account, err := h.auth.Register(c.UserContext(), service.RegisterInput{
		DisplayName: req.DisplayName,
		Email:       req.Email,
		Password:    req.Password,
		Code:        req.Code,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": dto.NewAccountResponse(account)})
}

// Login handles POST /auth/login.
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if missing := blankFields(map[string]string{
		"email":    req.Email,
		"password": req.Password,
		"code":     req.Code,
	}); len(missing) > 0 {
		return apperrors.NewValidationError("required fields missing", map[string]any{"fields": missing})
	}

	account, session, err := h.auth.Login(c.UserContext(), req.Email, req.Password, req.Code)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"data": fiber.Map{
			"account": dto.NewAccountResponse(account),
			"auth":    dto.AuthResponse{Token: session.Token, ExpiresAt: session.ExpiresAt},
		},
	})
}

// RecoverPassword handles POST /auth/password/recover.
func (h *AuthHandler) RecoverPassword(c *fiber.Ctx) error {
	var req dto.RecoverPasswordRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if missing := blankFields(map[string]string{
		"email":    req.Email,
		"code":     req.Code,
		"password": req.Password,
	}); len(missing) > 0 {
		return apperrors.NewValidationError("required fields missing", map[string]any{"fields": missing})
	}
	if req.Password != req.PasswordConfirmation {
		return apperrors.NewValidationError("passwords do not match", nil)
	}

	updated, err := h.auth.RecoverPassword(c.UserContext(), req.Email, req.Code, req.Password)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.RecoverPasswordResponse{Updated: updated}})
}

// Logout handles POST /auth/logout.
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	if err := h.auth.Logout(c.UserContext(), principal.Claims); err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}

// blankFields lists the names whose values are empty after trimming.
func blankFields(fields map[string]string) []string {
	missing := make([]string, 0)
	for _, name := range sortedKeys(fields) {
		if strings.TrimSpace(fields[name]) == "" {
			missing = append(missing, name)
		}
	}
	return missing
}
