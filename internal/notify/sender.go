package notify

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/iliyamo/forwarding-portal/internal/model"
)

// Sender delivers a notification about ev to u.
type Sender interface {
	Notify(ctx context.Context, u model.User, ev Event) error
}

// LogSender writes a "would be sent" entry instead of contacting anyone.
type LogSender struct {
	Logger *zap.Logger
}

func NewLogSender(logger *zap.Logger) *LogSender { return &LogSender{Logger: logger} }

func (s *LogSender) Notify(_ context.Context, u model.User, ev Event) error {
	m := NewMessage(u, ev, time.Now())
	s.Logger.Info("notification would be sent",
		zap.String("event", string(m.Event)),
		zap.Uint64("user_id", m.UserID),
		zap.String("email", m.Email),
		zap.String("mailbox_id", m.MailboxID),
	)
	return nil
}
