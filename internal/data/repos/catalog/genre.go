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

type GenreRepo interface {
	GetOrCreate(ctx context.Context, tx *gorm.DB, name string) (*types.Genre, error)
}

type genreRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewGenreRepo(db *gorm.DB, baseLog *logger.Logger) GenreRepo {
	return &genreRepo{db: db, log: baseLog.With("repo", "GenreRepo")}
}

// GetOrCreate normalizes the name to lowercase before lookup so near
// duplicate categories ("Bollywood", "bollywood") collapse to one row.
// Losing the insert race retries the lookup once.
func (gr *genreRepo) GetOrCreate(ctx context.Context, tx *gorm.DB, name string) (*types.Genre, error) {
	transaction := tx
	if transaction == nil {
		transaction = gr.db
	}

	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		return nil, fmt.Errorf("%w: genre name is empty", apperrors.ErrInvalidArgument)
	}

	return getOrCreateRow(fmt.Sprintf("genre %q", name),
		func() (*types.Genre, error) {
			var row types.Genre
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
		func() (*types.Genre, error) {
			row := types.Genre{UID: uuid.New(), Name: name}
			if createErr := transaction.WithContext(ctx).Create(&row).Error; createErr != nil {
				gr.log.Debug("genre create lost get-or-create race, retrying lookup", "name", name, "error", createErr)
				return nil, createErr
			}
			return &row, nil
		})
}
