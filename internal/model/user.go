package model

import "time"

// Plan tags a customer's membership tier.
const (
	PlanBasic    = "basic"
	PlanPremium  = "premium"
	PlanBusiness = "business"
)

// Plans lists every accepted plan tag.
var Plans = []string{PlanBasic, PlanPremium, PlanBusiness}

// User mirrors the `users` table.  PasswordHash never leaves the process:
// its json tag keeps it out of every response body.
type User struct {
	ID           uint64    `json:"id"`
	FirstName    string    `json:"firstName"`
	LastName     string    `json:"lastName"`
	Email        string    `json:"email"`
	Phone        *string   `json:"phone"`
	PasswordHash string    `json:"-"`
	MailboxID    string    `json:"mailboxId"`
	MemberSince  time.Time `json:"memberSince"`
	Plan         string    `json:"plan"`
}

// NewUser carries the registration fields the storage layer persists.
// MailboxID and MemberSince are assigned by the store.
type NewUser struct {
	FirstName    string
	LastName     string
	Email        string
	Phone        *string
	PasswordHash string
	Plan         string
}
