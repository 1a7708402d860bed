package catalog

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/soniq-music/soniq-webapp-backend/internal/domain"
	apperrors "github.com/soniq-music/soniq-webapp-backend/internal/pkg/errors"
	"github.com/soniq-music/soniq-webapp-backend/internal/pkg/logger"
)

type MoodRepo interface {
	GetOrCreate(ctx context.Context, tx *gorm.DB, name string) (*types.Mood, error)
}

type moodRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewMoodRepo(db *gorm.DB, baseLog *logger.Logger) MoodRepo {
	return &moodRepo{db: db, log: baseLog.With("repo", "MoodRepo")}
}

// GetOrCreate normalizes to lowercase, same contract as GenreRepo.
func (mr *moodRepo) GetOrCreate(ctx context.Context, tx *gorm.DB, name string) (*types.Mood, error) {
	transaction := tx
	if transaction == nil {
		transaction = mr.db
	}

	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		return nil, fmt.Errorf("%w: mood name is empty", apperrors.ErrInvalidArgument)
	}

	return getOrCreateRow(fmt.Sprintf("mood %q", name),
		func() (*types.Mood, error) {
			var row types.Mood
			if err := transaction.WithContext(ctx).
				Where("name = ?", name).
				Limit(1).
				Find(&row).Error; err != nil {
				return nil, err
			}
			if row.ID == 0 {
				return nil, nil
			}
			return &row, nil
		},
		func() (*types.Mood, error) {
			row := types.Mood{UID: uuid.New(), Name: name}
			if createErr := transaction.WithContext(ctx).Create(&row).Error; createErr != nil {
				mr.log.Debug("mood create lost get-or-create race, retrying lookup", "name", name, "error", createErr)
				return nil, createErr
			}
			return &row, nil
		})
}
