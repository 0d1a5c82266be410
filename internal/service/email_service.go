package service

import "context"

type EmailSender interface {
	SendConfirmationCode(ctx context.Context, to, username, code string) error
}
