package impl

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"critica/internal/domain"
	"critica/internal/dto"
	"critica/internal/observability/metrics"
	"critica/internal/service"
	"critica/internal/store"
)

type AuthServiceImpl struct {
	store  *store.Store
	hasher *CodeHasher
	tokens service.TokenService
	email  service.EmailSender
}

func NewAuthServiceImpl(st *store.Store, hasher *CodeHasher, tokens service.TokenService, email service.EmailSender) *AuthServiceImpl {
	return &AuthServiceImpl{store: st, hasher: hasher, tokens: tokens, email: email}
}

func (a *AuthServiceImpl) Signup(ctx context.Context, req dto.SignupRequest) (*dto.SignupResponse, error) {
	result := "success"
	defer func() {
		metrics.SignupsTotal.WithLabelValues(result).Inc()
	}()

	if verr := dto.Check(req); verr != nil {
		result = "failure"
		return nil, verr
	}
	if req.Username == domain.ReservedUsername {
		result = "failure"
		return nil, domain.NewValidationError("username", fmt.Sprintf("%q is not a valid username", domain.ReservedUsername))
	}

	code, err := a.hasher.Generate()
	if err != nil {
		result = "failure"
		return nil, err
	}

	err = a.store.WithTx(ctx, func(tx *store.Store) error {
		user, err := tx.Users().GetByUsername(ctx, req.Username)
		switch {
		case err == nil:
			// Exact pair match is an idempotent re-send; anything else
			// is a uniqueness conflict.
			if user.Email != req.Email {
				return domain.NewValidationError("username", "a user with that username already exists")
			}
		case errors.Is(err, store.ErrRecordNotFound):
			if _, err := tx.Users().GetByEmail(ctx, req.Email); err == nil {
				return domain.NewValidationError("email", "a user with that email already exists")
			}
			user = &domain.User{
				Username: req.Username,
				Email:    req.Email,
				Role:     domain.RoleUser,
			}
			if err := tx.Users().Create(ctx, user); err != nil {
				if errors.Is(err, store.ErrDuplicateKey) {
					return domain.NewValidationError("non_field_errors", "username or email already exists")
				}
				return err
			}
		default:
			return err
		}

		hash, salt, paramsJSON, err := a.hasher.Hash(code)
		if err != nil {
			return err
		}
		return tx.Codes().Upsert(ctx, &domain.ConfirmationCode{
			UserID:     user.ID,
			CodeHash:   hash,
			Salt:       salt,
			ParamsJSON: paramsJSON,
			CreatedAt:  time.Now().UTC(),
		})
	})
	if err != nil {
		result = "failure"
		return nil, err
	}

	// Delivery happens after commit; a transport outage fails the
	// request but the rotated code stays valid for the next attempt.
	if err := a.email.SendConfirmationCode(ctx, req.Email, req.Username, code); err != nil {
		result = "failure"
		return nil, fmt.Errorf("send confirmation code: %w", err)
	}

	slog.Info("signup confirmation issued", "username", req.Username)
	return &dto.SignupResponse{Username: req.Username, Email: req.Email}, nil
}

func (a *AuthServiceImpl) IssueToken(ctx context.Context, req dto.TokenRequest) (*dto.TokenResponse, error) {
	result := "success"
	defer func() {
		metrics.TokensIssuedTotal.WithLabelValues(result).Inc()
	}()

	if verr := dto.Check(req); verr != nil {
		result = "failure"
		return nil, verr
	}

	user, err := a.store.Users().GetByUsername(ctx, req.Username)
	if err != nil {
		result = "failure"
		if errors.Is(err, store.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}

	rec, err := a.store.Codes().GetByUserID(ctx, user.ID)
	if err != nil {
		result = "failure"
		if errors.Is(err, store.ErrRecordNotFound) {
			return nil, domain.ErrIncorrectCode
		}
		return nil, err
	}
	if !a.hasher.Verify(req.ConfirmationCode, rec.CodeHash, rec.Salt, rec.ParamsJSON) {
		result = "failure"
		return nil, domain.ErrIncorrectCode
	}

	// Codes are single-use: consume before minting the token.
	if err := a.store.Codes().Consume(ctx, user.ID); err != nil {
		result = "failure"
		return nil, err
	}

	token, err := a.tokens.Issue(ctx, user)
	if err != nil {
		result = "failure"
		return nil, err
	}

	slog.Info("access token issued", "username", user.Username, "role", user.Role)
	return &dto.TokenResponse{Token: token}, nil
}
