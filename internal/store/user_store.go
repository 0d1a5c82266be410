package store

import (
	"context"

	"critica/internal/domain"

	"github.com/google/uuid"
)

type UserStore struct{ db *Store }

func (s *Store) Users() *UserStore { return &UserStore{db: s} }

func (u *UserStore) Create(ctx context.Context, usr *domain.User) error {
	if usr.ID == uuid.Nil {
		usr.ID = uuid.New()
	}
	return translate(u.db.DB.WithContext(ctx).Create(usr).Error)
}

func (u *UserStore) GetByID(ctx context.Context, id domain.UserID) (*domain.User, error) {
	var user domain.User
	if err := u.db.DB.WithContext(ctx).First(&user, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &user, nil
}

func (u *UserStore) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	var user domain.User
	if err := u.db.DB.WithContext(ctx).First(&user, "username = ?", username).Error; err != nil {
		return nil, translate(err)
	}
	return &user, nil
}

func (u *UserStore) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	var user domain.User
	if err := u.db.DB.WithContext(ctx).First(&user, "email = ?", email).Error; err != nil {
		return nil, translate(err)
	}
	return &user, nil
}

// List returns a page of users ordered by username, optionally filtered
// by a username substring, plus the unpaginated total.
func (u *UserStore) List(ctx context.Context, search string, limit, offset int) ([]domain.User, int64, error) {
	q := u.db.DB.WithContext(ctx).Model(&domain.User{})
	if search != "" {
		q = q.Where("username LIKE ?", "%"+search+"%")
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, translate(err)
	}

	var users []domain.User
	if err := q.Order("username").Limit(limit).Offset(offset).Find(&users).Error; err != nil {
		return nil, 0, translate(err)
	}
	return users, total, nil
}

func (u *UserStore) Update(ctx context.Context, usr *domain.User) error {
	return translate(u.db.DB.WithContext(ctx).Save(usr).Error)
}

// Delete removes the user row along with any pending confirmation code.
func (u *UserStore) Delete(ctx context.Context, id domain.UserID) error {
	return u.db.WithTx(ctx, func(tx *Store) error {
		db := tx.DB.WithContext(ctx)
		if err := db.Where("user_id = ?", id).Delete(&domain.ConfirmationCode{}).Error; err != nil {
			return translate(err)
		}
		res := db.Where("id = ?", id).Delete(&domain.User{})
		if res.Error != nil {
			return translate(res.Error)
		}
		if res.RowsAffected == 0 {
			return ErrRecordNotFound
		}
		return nil
	})
}
