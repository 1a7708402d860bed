package user

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/soniq-music/soniq-webapp-backend/internal/data/repos/testutil"
	types "github.com/soniq-music/soniq-webapp-backend/internal/domain"
	apperrors "github.com/soniq-music/soniq-webapp-backend/internal/pkg/errors"
)

func TestUserRepo(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	ctx := context.Background()
	repo := NewUserRepo(db, testutil.Logger(t))

	u := &types.User{
		UID:      uuid.New(),
		Name:     "Test User",
		Email:    "userrepo@example.com",
		Password: "hashed",
		Role:     types.RoleArtist,
	}
	if err := repo.Create(ctx, tx, u); err != nil {
		t.Fatalf("Create: %v", err)
	}

	got, err := repo.GetByEmail(ctx, tx, u.Email)
	if err != nil {
		t.Fatalf("GetByEmail: %v", err)
	}
	if got.UID != u.UID {
		t.Fatalf("GetByEmail: got %s, want %s", got.UID, u.UID)
	}

	exists, err := repo.EmailExists(ctx, tx, u.Email)
	if err != nil || !exists {
		t.Fatalf("EmailExists: got %v, %v", exists, err)
	}
	exists, err = repo.EmailExists(ctx, tx, "missing@example.com")
	if err != nil || exists {
		t.Fatalf("EmailExists (missing): got %v, %v", exists, err)
	}

	if _, err := repo.GetByUID(ctx, tx, uuid.New()); !errors.Is(err, apperrors.ErrNotFound) {
		t.Fatalf("GetByUID (missing): want ErrNotFound, got %v", err)
	}
}

func TestUserRepoResetToken(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	ctx := context.Background()
	repo := NewUserRepo(db, testutil.Logger(t))

	u := testutil.SeedUser(t, ctx, tx, "reset@example.com", types.RoleUser)

	if err := repo.SetResetToken(ctx, tx, u.UID, "hashedtoken", time.Now().Add(15*time.Minute)); err != nil {
		t.Fatalf("SetResetToken: %v", err)
	}
	got, err := repo.GetByResetToken(ctx, tx, "hashedtoken")
	if err != nil {
		t.Fatalf("GetByResetToken: %v", err)
	}
	if got.UID != u.UID {
		t.Fatalf("GetByResetToken: wrong user")
	}

	// Expired token does not resolve.
	if err := repo.SetResetToken(ctx, tx, u.UID, "stale", time.Now().Add(-time.Minute)); err != nil {
		t.Fatalf("SetResetToken (expired): %v", err)
	}
	if _, err := repo.GetByResetToken(ctx, tx, "stale"); !errors.Is(err, apperrors.ErrNotFound) {
		t.Fatalf("GetByResetToken (expired): want ErrNotFound, got %v", err)
	}

	if err := repo.ClearResetToken(ctx, tx, u.UID); err != nil {
		t.Fatalf("ClearResetToken: %v", err)
	}
}

func TestUserTokenRepo(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	ctx := context.Background()
	repo := NewUserTokenRepo(db, testutil.Logger(t))

	userUID := uuid.New()
	tok := &types.UserToken{
		UserUID:      userUID,
		RefreshToken: "refresh-1",
		ExpiresAt:    time.Now().Add(time.Hour),
	}
	if err := repo.Create(ctx, tx, tok); err != nil {
		t.Fatalf("Create: %v", err)
	}

	got, err := repo.GetByRefreshToken(ctx, tx, "refresh-1")
	if err != nil {
		t.Fatalf("GetByRefreshToken: %v", err)
	}
	if got.UserUID != userUID {
		t.Fatalf("GetByRefreshToken: wrong user")
	}

	if err := repo.DeleteByUserUID(ctx, tx, userUID); err != nil {
		t.Fatalf("DeleteByUserUID: %v", err)
	}
	if _, err := repo.GetByRefreshToken(ctx, tx, "refresh-1"); !errors.Is(err, apperrors.ErrNotFound) {
		t.Fatalf("after delete: want ErrNotFound, got %v", err)
	}
}
