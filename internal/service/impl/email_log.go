package impl

import (
	"context"
	"log/slog"
)

// LogEmailSender writes outbound confirmation mail to the log instead of
// an SMTP relay. It stands in wherever a real transport is not wired up.
type LogEmailSender struct{}

func NewLogEmailSender() *LogEmailSender { return &LogEmailSender{} }

func (LogEmailSender) SendConfirmationCode(ctx context.Context, to, username, code string) error {
	slog.Info("confirmation code email",
		"to", to,
		"username", username,
		"code", code,
	)
	return nil
}
