// Package notify defines the customer notification capability.  The API
// reports account events through a Sender; which transport carries them
// is chosen at startup.
package notify

import (
	"time"

	"github.com/iliyamo/forwarding-portal/internal/model"
)

// Event names an account event that warrants a customer notification.
type Event string

const (
	EventRegistered Event = "account.registered"
	EventLogin      Event = "account.login"
)

// Message is the payload published for each notification.  It carries
// what a mail or SMS worker needs without querying the database.
type Message struct {
	Event      Event   `json:"event"`
	UserID     uint64  `json:"user_id"`
	Email      string  `json:"email"`
	Phone      *string `json:"phone,omitempty"`
	FirstName  string  `json:"first_name"`
	MailboxID  string  `json:"mailbox_id"`
	OccurredAt string  `json:"occurred_at"`
}

// NewMessage builds the payload for u and ev stamped with now.
func NewMessage(u model.User, ev Event, now time.Time) Message {
	return Message{
		Event:      ev,
		UserID:     u.ID,
		Email:      u.Email,
		Phone:      u.Phone,
		FirstName:  u.FirstName,
		MailboxID:  u.MailboxID,
		OccurredAt: now.UTC().Format(time.RFC3339),
	}
}
