package user

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/soniq-music/soniq-webapp-backend/internal/domain"
	apperrors "github.com/soniq-music/soniq-webapp-backend/internal/pkg/errors"
	"github.com/soniq-music/soniq-webapp-backend/internal/pkg/logger"
)

type UserRepo interface {
	Create(ctx context.Context, tx *gorm.DB, user *types.User) error
	GetByUID(ctx context.Context, tx *gorm.DB, uid uuid.UUID) (*types.User, error)
	GetByEmail(ctx context.Context, tx *gorm.DB, email string) (*types.User, error)
	EmailExists(ctx context.Context, tx *gorm.DB, email string) (bool, error)
	UpdatePassword(ctx context.Context, tx *gorm.DB, uid uuid.UUID, hashedPassword string) error
	SetResetToken(ctx context.Context, tx *gorm.DB, uid uuid.UUID, hashedToken string, expires time.Time) error
	GetByResetToken(ctx context.Context, tx *gorm.DB, hashedToken string) (*types.User, error)
	ClearResetToken(ctx context.Context, tx *gorm.DB, uid uuid.UUID) error
}

type userRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewUserRepo(db *gorm.DB, baseLog *logger.Logger) UserRepo {
	return &userRepo{db: db, log: baseLog.With("repo", "UserRepo")}
}

func (ur *userRepo) resolve(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return ur.db
}

func (ur *userRepo) Create(ctx context.Context, tx *gorm.DB, user *types.User) error {
	return ur.resolve(tx).WithContext(ctx).Create(user).Error
}

func (ur *userRepo) GetByUID(ctx context.Context, tx *gorm.DB, uid uuid.UUID) (*types.User, error) {
	var row types.User
	if err := ur.resolve(tx).WithContext(ctx).
		Where("uid = ?", uid).
		Limit(1).
		Find(&row).Error; err != nil {
		return nil, err
	}
	if row.ID == 0 {
		return nil, fmt.Errorf("%w: user %s", apperrors.ErrNotFound, uid)
	}
	return &row, nil
}

func (ur *userRepo) GetByEmail(ctx context.Context, tx *gorm.DB, email string) (*types.User, error) {
	var row types.User
	if err := ur.resolve(tx).WithContext(ctx).
		Where("email = ?", email).
		Limit(1).
		Find(&row).Error; err != nil {
		return nil, err
	}
	if row.ID == 0 {
		return nil, fmt.Errorf("%w: user %s", apperrors.ErrNotFound, email)
	}
	return &row, nil
}

func (ur *userRepo) EmailExists(ctx context.Context, tx *gorm.DB, email string) (bool, error) {
	var count int64
	if err := ur.resolve(tx).WithContext(ctx).
		Model(&types.User{}).
		Where("email = ?", email).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (ur *userRepo) UpdatePassword(ctx context.Context, tx *gorm.DB, uid uuid.UUID, hashedPassword string) error {
	return ur.resolve(tx).WithContext(ctx).
		Model(&types.User{}).
		Where("uid = ?", uid).
		Update("password", hashedPassword).Error
}

func (ur *userRepo) SetResetToken(ctx context.Context, tx *gorm.DB, uid uuid.UUID, hashedToken string, expires time.Time) error {
	return ur.resolve(tx).WithContext(ctx).
		Model(&types.User{}).
		Where("uid = ?", uid).
		Updates(map[string]any{
			"password_reset_token":   hashedToken,
			"password_reset_expires": expires,
		}).Error
}

// GetByResetToken resolves a user by the sha256 of the emailed token, only
// while the token is unexpired.
func (ur *userRepo) GetByResetToken(ctx context.Context, tx *gorm.DB, hashedToken string) (*types.User, error) {
	var row types.User
	if err := ur.resolve(tx).WithContext(ctx).
		Where("password_reset_token = ? AND password_reset_expires > ?", hashedToken, time.Now()).
		Limit(1).
		Find(&row).Error; err != nil {
		return nil, err
	}
	if row.ID == 0 {
		return nil, fmt.Errorf("%w: reset token invalid or expired", apperrors.ErrNotFound)
	}
	return &row, nil
}

func (ur *userRepo) ClearResetToken(ctx context.Context, tx *gorm.DB, uid uuid.UUID) error {
	return ur.resolve(tx).WithContext(ctx).
		Model(&types.User{}).
		Where("uid = ?", uid).
		Updates(map[string]any{
			"password_reset_token":   "",
			"password_reset_expires": nil,
		}).Error
}
