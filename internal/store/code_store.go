package store

import (
	"context"

	"critica/internal/domain"

	"gorm.io/gorm/clause"
)

type CodeStore struct{ db *Store }

func (s *Store) Codes() *CodeStore { return &CodeStore{db: s} }

// Upsert replaces the user's pending confirmation code, rotating any
// previously issued one.
func (c *CodeStore) Upsert(ctx context.Context, code *domain.ConfirmationCode) error {
	return translate(c.db.DB.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}},
			UpdateAll: true,
		}).
		Create(code).Error)
}

func (c *CodeStore) GetByUserID(ctx context.Context, userID domain.UserID) (*domain.ConfirmationCode, error) {
	var code domain.ConfirmationCode
	if err := c.db.DB.WithContext(ctx).First(&code, "user_id = ?", userID).Error; err != nil {
		return nil, translate(err)
	}
	return &code, nil
}

// Consume deletes the pending code so it cannot be exchanged twice.
func (c *CodeStore) Consume(ctx context.Context, userID domain.UserID) error {
	return translate(c.db.DB.WithContext(ctx).
		Where("user_id = ?", userID).
		Delete(&domain.ConfirmationCode{}).Error)
}
