package entities

import (
	"fmt"
	"net/mail"
	"strings"

	apperrors "findmyspace/internal/errors"
)

const minPasswordLength = 8

type RegisterRequest struct {
	Nombre   string `json:"nombre"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Telefono string `json:"telefono,omitempty"`
}

func (r *RegisterRequest) Normalize() {
	r.Nombre = strings.TrimSpace(r.Nombre)
	r.Email = strings.ToLower(strings.TrimSpace(r.Email))
	r.Telefono = strings.TrimSpace(r.Telefono)
}

func (r RegisterRequest) Validate() error {
	if r.Nombre == "" {
		return fmt.Errorf("%w: nombre is required", apperrors.ErrValidation)
	}
	if _, err := mail.ParseAddress(r.Email); err != nil {
		return fmt.Errorf("%w: invalid email", apperrors.ErrValidation)
	}
	return ValidatePassword(r.Password)
}

func ValidatePassword(p string) error {
	if len(p) < minPasswordLength {
		return fmt.Errorf("%w: password must have at least %d characters", apperrors.ErrValidation, minPasswordLength)
	}
	return nil
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginResponse struct {
	Token   string `json:"token"`
	Usuario User   `json:"usuario"`
}

type ForgotPasswordRequest struct {
	Email string `json:"email"`
}

type ResetPasswordRequest struct {
	Token    string `json:"token"`
	Password string `json:"password"`
}

// User is the public view of an account.
type User struct {
	ID       int64  `json:"id"`
	Nombre   string `json:"nombre"`
	Email    string `json:"email"`
	Telefono string `json:"telefono,omitempty"`
	Activo   bool   `json:"activo"`
}
