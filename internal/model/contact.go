package model

import "time"

// Inquiry types accepted by the contact form.
const (
	InquiryGeneral    = "general"
	InquiryTracking   = "tracking"
	InquiryBilling    = "billing"
	InquiryDamaged    = "damaged"
	InquiryComplaint  = "complaint"
	InquirySuggestion = "suggestion"
)

// Contact mirrors the `contacts` table.  PackageNumber is free text and is
// not checked against packages.
type Contact struct {
	ID            uint64    `json:"id"`
	FirstName     string    `json:"firstName"`
	LastName      string    `json:"lastName"`
	Email         string    `json:"email"`
	Phone         *string   `json:"phone"`
	Type          string    `json:"type"`
	PackageNumber *string   `json:"packageNumber"`
	Message       string    `json:"message"`
	CreatedAt     time.Time `json:"createdAt"`
	Resolved      bool      `json:"resolved"`
}

// NewContact is a submitted inquiry before the store stamps CreatedAt.
type NewContact struct {
	FirstName     string
	LastName      string
	Email         string
	Phone         *string
	Type          string
	PackageNumber *string
	Message       string
}
