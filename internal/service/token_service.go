package service

import (
	"context"

	"critica/internal/domain"
)

type TokenService interface {
	Issue(ctx context.Context, user *domain.User) (string, error)
	// Verify validates the signed token and returns the subject user id.
	// Role and other claims are advisory only; authorization re-reads
	// the persisted user.
	Verify(ctx context.Context, token string) (domain.UserID, error)
}
