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
	"github.com/soniq-music/soniq-webapp-backend/internal/search"
)

type ArtistRepo interface {
	GetOrCreate(ctx context.Context, tx *gorm.DB, name string) (*types.Artist, error)
	SearchByName(ctx context.Context, tx *gorm.DB, tf search.TextFilter, page search.PageRequest) ([]*types.Artist, int64, error)
}

type artistRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewArtistRepo(db *gorm.DB, baseLog *logger.Logger) ArtistRepo {
	return &artistRepo{db: db, log: baseLog.With("repo", "ArtistRepo")}
}

// GetOrCreate looks an artist up by exact name and creates it if absent.
// Names are case-preserving; the unique index on name is the dedup
// authority. When a concurrent create wins the race, the insert fails and
// the lookup is retried once instead of surfacing the uniqueness violation.
func (ar *artistRepo) GetOrCreate(ctx context.Context, tx *gorm.DB, name string) (*types.Artist, error) {
	transaction := tx
	if transaction == nil {
		transaction = ar.db
	}

	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("%w: artist name is empty", apperrors.ErrInvalidArgument)
	}

	return getOrCreateRow(fmt.Sprintf("artist %q", name),
		func() (*types.Artist, error) {
			var row types.Artist
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
		func() (*types.Artist, error) {
			row := types.Artist{UID: uuid.New(), Name: name}
			if createErr := transaction.WithContext(ctx).Create(&row).Error; createErr != nil {
				ar.log.Debug("artist create lost get-or-create race, retrying lookup", "name", name, "error", createErr)
				return nil, createErr
			}
			return &row, nil
		})
}

func (ar *artistRepo) SearchByName(ctx context.Context, tx *gorm.DB, tf search.TextFilter, page search.PageRequest) ([]*types.Artist, int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = ar.db
	}

	base := func() *gorm.DB {
		q := transaction.WithContext(ctx).Model(&types.Artist{})
		return search.ApplyColumnFilter(q, "artists.name", tf)
	}

	var total int64
	if err := base().Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []*types.Artist
	if err := base().
		Order("artists.name ASC").
		Offset(page.Offset()).
		Limit(page.Limit).
		Find(&rows).Error; err != nil {
		return nil, 0, err
	}
	return rows, total, nil
}
