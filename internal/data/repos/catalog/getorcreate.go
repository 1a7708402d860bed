package catalog

import (
	"fmt"

	apperrors "github.com/soniq-music/soniq-webapp-backend/internal/pkg/errors"
)

// getOrCreateRow is the lookup, create, retry-lookup sequence shared by the
// vocabulary repos. lookup returns nil when no row matches. When create
// fails, a concurrent writer may have inserted the row between the lookup
// and the create, so the lookup runs once more; a second miss surfaces the
// create error as a conflict.
func getOrCreateRow[T any](label string, lookup func() (*T, error), create func() (*T, error)) (*T, error) {
	row, err := lookup()
	if err != nil {
		return nil, err
	}
	if row != nil {
		return row, nil
	}
	row, createErr := create()
	if createErr == nil {
		return row, nil
	}
	row, err = lookup()
	if err != nil || row == nil {
		return nil, fmt.Errorf("%w: %s: %v", apperrors.ErrConflict, label, createErr)
	}
	return row, nil
}
