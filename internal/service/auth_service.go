package service

import (
	"context"

	"critica/internal/dto"
)

type AuthService interface {
	// Signup creates a pending user (or re-issues a code for an exact
	// existing username+email pair) and delivers a confirmation code.
	Signup(ctx context.Context, req dto.SignupRequest) (*dto.SignupResponse, error)
	// IssueToken exchanges a valid (username, code) pair for an access
	// token, consuming the code.
	IssueToken(ctx context.Context, req dto.TokenRequest) (*dto.TokenResponse, error)
}
