// internal/repository/user_repository.go
package repository

import (
	"context"
	"errors"
	"fmt"

	"go_5_course_keep/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type UserRepository interface {
	Create(ctx context.Context, tx *gorm.DB, user *model.User) error
	FindByID(ctx context.Context, db *gorm.DB, userID uuid.UUID) (*model.User, error)
	FindByEmail(ctx context.Context, db *gorm.DB, email string, role model.Role) (*model.User, error)
	Update(ctx context.Context, tx *gorm.DB, user *model.User) error
	FindByRole(ctx context.Context, db *gorm.DB, role model.Role) ([]*model.User, error)
}

type gormUserRepository struct {
	// DB接続はService層から渡される想定
}

func NewGormUserRepository() UserRepository {
	return &gormUserRepository{}
}

func (r *gormUserRepository) Create(ctx context.Context, tx *gorm.DB, user *model.User) error {
	result := tx.WithContext(ctx).Create(user)
	if result.Error != nil {
		// メールアドレスのユニーク制約違反は重複エラーとして返す
		if errors.Is(result.Error, gorm.ErrDuplicatedKey) {
			return model.ErrConflict
		}
		return fmt.Errorf("gormUserRepository.Create: %w", result.Error)
	}
	return nil
}

func (r *gormUserRepository) FindByID(ctx context.Context, db *gorm.DB, userID uuid.UUID) (*model.User, error) {
	var user model.User
	result := db.WithContext(ctx).Where("user_id = ?", userID).First(&user)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, model.ErrNotFound
		}
		return nil, fmt.Errorf("gormUserRepository.FindByID: %w", result.Error)
	}
	return &user, nil
}

func (r *gormUserRepository) FindByEmail(ctx context.Context, db *gorm.DB, email string, role model.Role) (*model.User, error) {
	var user model.User
	result := db.WithContext(ctx).Where("email = ? AND role = ?", email, role).First(&user)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, model.ErrNotFound
		}
		return nil, fmt.Errorf("gormUserRepository.FindByEmail: %w", result.Error)
	}
	return &user, nil
}

func (r *gormUserRepository) Update(ctx context.Context, tx *gorm.DB, user *model.User) error {
	result := tx.WithContext(ctx).Save(user)
	if result.Error != nil {
		return fmt.Errorf("gormUserRepository.Update: %w", result.Error)
	}
	return nil
}

func (r *gormUserRepository) FindByRole(ctx context.Context, db *gorm.DB, role model.Role) ([]*model.User, error) {
	var users []*model.User
	result := db.WithContext(ctx).Where("role = ?", role).Order("name ASC").Find(&users)
	if result.Error != nil {
		return nil, fmt.Errorf("gormUserRepository.FindByRole: %w", result.Error)
	}
	return users, nil
}
