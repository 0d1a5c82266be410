package service

import (
	"context"
	"errors"
	"fmt"

	"critica/internal/domain"
	"critica/internal/dto"
	"critica/internal/store"
)

type UserService struct {
	store *store.Store
}

func NewUserService(st *store.Store) *UserService {
	return &UserService{store: st}
}

func (s *UserService) List(ctx context.Context, search string, limit, offset int) ([]domain.User, int64, error) {
	return s.store.Users().List(ctx, search, limit, offset)
}

func (s *UserService) Get(ctx context.Context, username string) (*domain.User, error) {
	user, err := s.store.Users().GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, store.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return user, nil
}

func (s *UserService) Create(ctx context.Context, req dto.UserCreateRequest) (*domain.User, error) {
	if verr := dto.Check(req); verr != nil {
		return nil, verr
	}
	if req.Username == domain.ReservedUsername {
		return nil, domain.NewValidationError("username", fmt.Sprintf("%q is not a valid username", domain.ReservedUsername))
	}

	role := domain.Role(req.Role)
	if req.Role == "" {
		role = domain.RoleUser
	}

	user := &domain.User{
		Username:  req.Username,
		Email:     req.Email,
		Role:      role,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Bio:       req.Bio,
	}

	err := s.store.WithTx(ctx, func(tx *store.Store) error {
		if verr := checkUnique(ctx, tx, req.Username, req.Email, nil); verr != nil {
			return verr
		}
		return tx.Users().Create(ctx, user)
	})
	if err != nil {
		return nil, translateConflict(err)
	}
	return user, nil
}

// Update applies a partial update. allowRole gates role changes: the
// admin collection route may change roles, the /me route must not.
func (s *UserService) Update(ctx context.Context, username string, req dto.UserUpdateRequest, allowRole bool) (*domain.User, error) {
	if verr := dto.Check(req); verr != nil {
		return nil, verr
	}
	if req.Role != nil && !allowRole {
		return nil, domain.NewValidationError("role", "role cannot be changed on this endpoint")
	}

	var updated *domain.User
	err := s.store.WithTx(ctx, func(tx *store.Store) error {
		user, err := tx.Users().GetByUsername(ctx, username)
		if err != nil {
			if errors.Is(err, store.ErrRecordNotFound) {
				return domain.ErrNotFound
			}
			return err
		}
		if req.Email != nil && *req.Email != user.Email {
			if verr := checkUnique(ctx, tx, "", *req.Email, &user.ID); verr != nil {
				return verr
			}
			user.Email = *req.Email
		}
		if req.FirstName != nil {
			user.FirstName = *req.FirstName
		}
		if req.LastName != nil {
			user.LastName = *req.LastName
		}
		if req.Bio != nil {
			user.Bio = *req.Bio
		}
		if req.Role != nil && allowRole {
			user.Role = domain.Role(*req.Role)
		}
		if err := tx.Users().Update(ctx, user); err != nil {
			return err
		}
		updated = user
		return nil
	})
	if err != nil {
		return nil, translateConflict(err)
	}
	return updated, nil
}

func (s *UserService) Delete(ctx context.Context, username string) error {
	user, err := s.Get(ctx, username)
	if err != nil {
		return err
	}
	if err := s.store.Users().Delete(ctx, user.ID); err != nil {
		if errors.Is(err, store.ErrRecordNotFound) {
			return domain.ErrNotFound
		}
		return err
	}
	return nil
}

// checkUnique reports a field-keyed error when the username or email is
// already held by a different user. exclude skips the user being edited.
func checkUnique(ctx context.Context, tx *store.Store, username, email string, exclude *domain.UserID) *domain.ValidationError {
	if username != "" {
		existing, err := tx.Users().GetByUsername(ctx, username)
		if err == nil && (exclude == nil || existing.ID != *exclude) {
			return domain.NewValidationError("username", "a user with that username already exists")
		}
	}
	if email != "" {
		existing, err := tx.Users().GetByEmail(ctx, email)
		if err == nil && (exclude == nil || existing.ID != *exclude) {
			return domain.NewValidationError("email", "a user with that email already exists")
		}
	}
	return nil
}

// translateConflict turns a storage-level unique violation, the backstop
// behind the pre-checks above, into the same 400-shaped error.
func translateConflict(err error) error {
	if errors.Is(err, store.ErrDuplicateKey) {
		return domain.NewValidationError("non_field_errors", "username or email already exists")
	}
	return err
}
