// Package schema holds the request shapes accepted by the API and the
// validation rules applied to them before anything reaches storage.
package schema

import (
	"strings"
	"time"

	"github.com/iliyamo/forwarding-portal/internal/model"
)

// RegisterRequest is the registration form.  ConfirmPassword is checked
// against Password and never persisted.  Length limits follow the column
// widths; bcrypt only reads the first 72 bytes of a password.
type RegisterRequest struct {
	FirstName       string  `json:"firstName" validate:"required,max=100"`
	LastName        string  `json:"lastName" validate:"required,max=100"`
	Email           string  `json:"email" validate:"required,email,max=255"`
	Phone           *string `json:"phone" validate:"omitempty,max=50"`
	Password        string  `json:"password" validate:"required,maxbytes=72"`
	ConfirmPassword string  `json:"confirmPassword" validate:"required,eqfield=Password"`
	Plan            string  `json:"plan" validate:"omitempty,oneof=basic premium business"`
}

// Normalize trims names, lower-cases the email and applies the default plan.
func (r *RegisterRequest) Normalize() {
	r.FirstName = strings.TrimSpace(r.FirstName)
	r.LastName = strings.TrimSpace(r.LastName)
	r.Email = normalizeEmail(r.Email)
	r.Phone = trimOptional(r.Phone)
	r.Plan = strings.ToLower(strings.TrimSpace(r.Plan))
	if r.Plan == "" {
		r.Plan = model.PlanBasic
	}
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

func (r *LoginRequest) Normalize() {
	r.Email = normalizeEmail(r.Email)
}

// PackageRequest is the intake payload.  The tracking id, owner and
// received date are assigned by the server.
type PackageRequest struct {
	Description   string     `json:"description" validate:"required,maxbytes=65535"`
	Weight        string     `json:"weight" validate:"required,max=50"`
	EstimatedDate *time.Time `json:"estimatedDate"`
	Cost          *string    `json:"cost" validate:"omitempty,max=50"`
}

func (r *PackageRequest) Normalize() {
	r.Description = strings.TrimSpace(r.Description)
	r.Weight = strings.TrimSpace(r.Weight)
	r.Cost = trimOptional(r.Cost)
}

// StatusRequest advances a package.  Date defaults to now when omitted.
type StatusRequest struct {
	Status string     `json:"status" validate:"required"`
	Date   *time.Time `json:"date"`
}

func (r *StatusRequest) Normalize() {
	r.Status = strings.ToLower(strings.TrimSpace(r.Status))
}

// ContactRequest is the contact form.  CreatedAt and Resolved are
// assigned by the server.
type ContactRequest struct {
	FirstName     string  `json:"firstName" validate:"required,max=100"`
	LastName      string  `json:"lastName" validate:"required,max=100"`
	Email         string  `json:"email" validate:"required,email,max=255"`
	Phone         *string `json:"phone" validate:"omitempty,max=50"`
	Type          string  `json:"type" validate:"required,oneof=general tracking billing damaged complaint suggestion"`
	PackageNumber *string `json:"packageNumber" validate:"omitempty,max=64"`
	Message       string  `json:"message" validate:"required,maxbytes=65535"`
}

func (r *ContactRequest) Normalize() {
	r.FirstName = strings.TrimSpace(r.FirstName)
	r.LastName = strings.TrimSpace(r.LastName)
	r.Email = normalizeEmail(r.Email)
	r.Phone = trimOptional(r.Phone)
	r.Type = strings.ToLower(strings.TrimSpace(r.Type))
	r.PackageNumber = trimOptional(r.PackageNumber)
	r.Message = strings.TrimSpace(r.Message)
}

func normalizeEmail(s string) string { return strings.ToLower(strings.TrimSpace(s)) }

// trimOptional maps blank optional strings to nil so they are stored as NULL.
func trimOptional(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}
