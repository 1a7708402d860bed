package services

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	userrepo "github.com/soniq-music/soniq-webapp-backend/internal/data/repos/user"
	types "github.com/soniq-music/soniq-webapp-backend/internal/domain"
	apperrors "github.com/soniq-music/soniq-webapp-backend/internal/pkg/errors"
	"github.com/soniq-music/soniq-webapp-backend/internal/pkg/logger"
	"github.com/soniq-music/soniq-webapp-backend/internal/requestdata"
)

var emailPattern = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

const resetTokenTTL = 15 * time.Minute

type RegisterInput struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

type LoginInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type AuthResult struct {
	User         *types.User
	AccessToken  string
	RefreshToken string
}

type AuthService interface {
	Register(ctx context.Context, in RegisterInput) (*AuthResult, error)
	Login(ctx context.Context, in LoginInput) (*AuthResult, error)
	Refresh(ctx context.Context, refreshToken string) (*AuthResult, error)
	Logout(ctx context.Context, refreshToken string) error
	GetUser(ctx context.Context, uid uuid.UUID) (*types.User, error)
	ForgotPassword(ctx context.Context, email string) error
	ResetPassword(ctx context.Context, token, newPassword string) error
	SetContextFromToken(ctx context.Context, tokenString string) (context.Context, error)
	RefreshTTL() time.Duration
}

type authService struct {
	db         *gorm.DB
	log        *logger.Logger
	users      userrepo.UserRepo
	userTokens userrepo.UserTokenRepo
	mailer     Mailer

	jwtSecret   []byte
	accessTTL   time.Duration
	refreshTTL  time.Duration
	frontendURL string
}

func NewAuthService(
	db *gorm.DB,
	log *logger.Logger,
	users userrepo.UserRepo,
	userTokens userrepo.UserTokenRepo,
	mailer Mailer,
	jwtSecret string,
	accessTTL, refreshTTL time.Duration,
	frontendURL string,
) AuthService {
	return &authService{
		db:          db,
		log:         log.With("service", "AuthService"),
		users:       users,
		userTokens:  userTokens,
		mailer:      mailer,
		jwtSecret:   []byte(jwtSecret),
		accessTTL:   accessTTL,
		refreshTTL:  refreshTTL,
		frontendURL: frontendURL,
	}
}

func (s *authService) RefreshTTL() time.Duration { return s.refreshTTL }

func (s *authService) Register(ctx context.Context, in RegisterInput) (*AuthResult, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	if in.Name == "" || in.Email == "" || in.Password == "" {
		return nil, fmt.Errorf("%w: name, email and password are required", apperrors.ErrInvalidArgument)
	}
	if !emailPattern.MatchString(in.Email) {
		return nil, fmt.Errorf("%w: invalid email address", apperrors.ErrInvalidArgument)
	}
	role := in.Role
	if role == "" {
		role = types.RoleUser
	}
	switch role {
	case types.RoleUser, types.RoleArtist, types.RoleAdmin:
	default:
		return nil, fmt.Errorf("%w: unknown role %q", apperrors.ErrInvalidArgument, in.Role)
	}

	exists, err := s.users.EmailExists(ctx, nil, in.Email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, fmt.Errorf("%w: email already registered", apperrors.ErrConflict)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	user := &types.User{
		UID:      uuid.New(),
		Name:     in.Name,
		Email:    in.Email,
		Password: string(hashed),
		Role:     role,
	}

	var result *AuthResult
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.users.Create(ctx, tx, user); err != nil {
			return err
		}
		var txErr error
		result, txErr = s.issueTokens(ctx, tx, user)
		return txErr
	})
	if err != nil {
		return nil, err
	}
	s.log.Info("user registered", "uid", user.UID, "role", user.Role)
	return result, nil
}

func (s *authService) Login(ctx context.Context, in LoginInput) (*AuthResult, error) {
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	if in.Email == "" || in.Password == "" {
		return nil, fmt.Errorf("%w: email and password are required", apperrors.ErrInvalidArgument)
	}
	user, err := s.users.GetByEmail(ctx, nil, in.Email)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("%w: invalid credentials", apperrors.ErrUnauthorized)
		}
		return nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(in.Password)); err != nil {
		return nil, fmt.Errorf("%w: invalid credentials", apperrors.ErrUnauthorized)
	}

	var result *AuthResult
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.userTokens.DeleteExpired(ctx, tx); err != nil {
			return err
		}
		var txErr error
		result, txErr = s.issueTokens(ctx, tx, user)
		return txErr
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (s *authService) Refresh(ctx context.Context, refreshToken string) (*AuthResult, error) {
	if refreshToken == "" {
		return nil, fmt.Errorf("%w: missing refresh token", apperrors.ErrUnauthorized)
	}
	stored, err := s.userTokens.GetByRefreshToken(ctx, nil, refreshToken)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("%w: unknown refresh token", apperrors.ErrUnauthorized)
		}
		return nil, err
	}
	if time.Now().After(stored.ExpiresAt) {
		_ = s.userTokens.DeleteByRefreshToken(ctx, nil, refreshToken)
		return nil, fmt.Errorf("%w: refresh token expired", apperrors.ErrUnauthorized)
	}
	user, err := s.users.GetByUID(ctx, nil, stored.UserUID)
	if err != nil {
		return nil, err
	}

	var result *AuthResult
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.userTokens.DeleteByRefreshToken(ctx, tx, refreshToken); err != nil {
			return err
		}
		var txErr error
		result, txErr = s.issueTokens(ctx, tx, user)
		return txErr
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (s *authService) Logout(ctx context.Context, refreshToken string) error {
	if refreshToken == "" {
		return nil
	}
	return s.userTokens.DeleteByRefreshToken(ctx, nil, refreshToken)
}

func (s *authService) GetUser(ctx context.Context, uid uuid.UUID) (*types.User, error) {
	return s.users.GetByUID(ctx, nil, uid)
}

func (s *authService) ForgotPassword(ctx context.Context, email string) error {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return fmt.Errorf("%w: email is required", apperrors.ErrInvalidArgument)
	}
	user, err := s.users.GetByEmail(ctx, nil, email)
	if err != nil {
		return err
	}

	raw := make([]byte, 32)
	if _, err := rand.Read(raw); err != nil {
		return fmt.Errorf("generate reset token: %w", err)
	}
	token := hex.EncodeToString(raw)
	hashed := hashResetToken(token)
	expires := time.Now().Add(resetTokenTTL)
	if err := s.users.SetResetToken(ctx, nil, user.UID, hashed, expires); err != nil {
		return err
	}

	resetURL := fmt.Sprintf("%s/reset-password/%s", strings.TrimRight(s.frontendURL, "/"), token)
	body := fmt.Sprintf("Hi %s,\n\nUse the link below to reset your password. It expires in %d minutes.\n\n%s\n", user.Name, int(resetTokenTTL.Minutes()), resetURL)
	if err := s.mailer.Send(ctx, user.Email, "Reset your password", body); err != nil {
		// The stored token is useless if the mail never left, clear it.
		_ = s.users.ClearResetToken(ctx, nil, user.UID)
		return err
	}
	s.log.Info("password reset requested", "uid", user.UID)
	return nil
}

func (s *authService) ResetPassword(ctx context.Context, token, newPassword string) error {
	if token == "" || newPassword == "" {
		return fmt.Errorf("%w: token and new password are required", apperrors.ErrInvalidArgument)
	}
	user, err := s.users.GetByResetToken(ctx, nil, hashResetToken(token))
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return fmt.Errorf("%w: reset token is invalid or expired", apperrors.ErrInvalidArgument)
		}
		return err
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.users.UpdatePassword(ctx, tx, user.UID, string(hashed)); err != nil {
			return err
		}
		if err := s.users.ClearResetToken(ctx, tx, user.UID); err != nil {
			return err
		}
		// Force every device to log in again with the new password.
		return s.userTokens.DeleteByUserUID(ctx, tx, user.UID)
	})
}

// SetContextFromToken validates a bearer token and stores the caller's
// identity in the returned context.
func (s *authService) SetContextFromToken(ctx context.Context, tokenString string) (context.Context, error) {
	if tokenString == "" {
		return ctx, fmt.Errorf("%w: missing access token", apperrors.ErrUnauthorized)
	}
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return s.jwtSecret, nil
	})
	if err != nil || !token.Valid {
		return ctx, fmt.Errorf("%w: invalid access token", apperrors.ErrUnauthorized)
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return ctx, fmt.Errorf("%w: invalid token claims", apperrors.ErrUnauthorized)
	}
	uidStr, _ := claims["uid"].(string)
	uid, err := uuid.Parse(uidStr)
	if err != nil {
		return ctx, fmt.Errorf("%w: invalid token subject", apperrors.ErrUnauthorized)
	}
	role, _ := claims["role"].(string)

	rd := &requestdata.RequestData{
		TokenString: tokenString,
		UserUID:     uid,
		Role:        role,
	}
	return requestdata.WithRequestData(ctx, rd), nil
}

func (s *authService) issueTokens(ctx context.Context, tx *gorm.DB, user *types.User) (*AuthResult, error) {
	claims := jwt.MapClaims{
		"uid":  user.UID.String(),
		"role": user.Role,
		"iat":  time.Now().Unix(),
		"exp":  time.Now().Add(s.accessTTL).Unix(),
	}
	access, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.jwtSecret)
	if err != nil {
		return nil, fmt.Errorf("sign access token: %w", err)
	}

	refresh := uuid.NewString()
	record := &types.UserToken{
		UserUID:      user.UID,
		RefreshToken: refresh,
		ExpiresAt:    time.Now().Add(s.refreshTTL),
	}
	if err := s.userTokens.Create(ctx, tx, record); err != nil {
		return nil, err
	}
	return &AuthResult{User: user, AccessToken: access, RefreshToken: refresh}, nil
}

func hashResetToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}
