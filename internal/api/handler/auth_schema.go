package handler

import (
	"strings"
	"time"
)

type registerRequest struct {
	Email            string `json:"email" validate:"required,email_syntax"`
	Password         string `json:"password" validate:"required,password_strength"`
	FirstName        string `json:"firstName" validate:"required,max=100"`
	LastName         string `json:"lastName" validate:"required,max=100"`
	OrganizationName string `json:"organizationName,omitempty" validate:"max=200"`
}

// normalize trims the fields the service would trim so handler validation
// and service validation agree. The password is left untouched.
func (r *registerRequest) normalize() {
	r.Email = strings.ToLower(strings.TrimSpace(r.Email))
	r.FirstName = strings.TrimSpace(r.FirstName)
	r.LastName = strings.TrimSpace(r.LastName)
	r.OrganizationName = strings.TrimSpace(r.OrganizationName)
}

type loginRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type userResponse struct {
	ID             string    `json:"id"`
	Email          string    `json:"email"`
	FirstName      string    `json:"firstName"`
	LastName       string    `json:"lastName"`
	OrganizationID *string   `json:"organizationId,omitempty"`
	CreatedAt      time.Time `json:"createdAt"`
}

type organizationResponse struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type authResponse struct {
	User         userResponse          `json:"user"`
	Organization *organizationResponse `json:"organization,omitempty"`
	Token        string                `json:"token"`
	ExpiresAt    time.Time             `json:"expiresAt"`
}

type meResponse struct {
	User userResponse `json:"user"`
}

// ErrorResponse is the error envelope. Errors is set only for validation
// failures.
type ErrorResponse struct {
	Error  string   `json:"error"`
	Errors []string `json:"errors,omitempty"`
}
