package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/vaultkeeper/vaultkeeper/internal/common"
	"github.com/vaultkeeper/vaultkeeper/internal/cryptox"
	"github.com/vaultkeeper/vaultkeeper/internal/dbx"
	"github.com/vaultkeeper/vaultkeeper/internal/server/auth"
	"github.com/vaultkeeper/vaultkeeper/internal/server/config"
	"github.com/vaultkeeper/vaultkeeper/internal/server/models"
	"github.com/vaultkeeper/vaultkeeper/internal/server/repositories/repomanager"
)

const passwordSaltSize = 16

// TokenPair bundles a short-lived access token and a long-lived refresh token.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
}

// UserService provides account operations: registration, login, session
// refresh and revocation, and soft deactivation. Sessions live in the
// database, so revocation is effective across server instances.
type UserService struct {
	db                           *sql.DB
	repomanager                  repomanager.RepositoryManager
	jwtSecret                    []byte
	accessTokenValidityDuration  time.Duration
	refreshTokenValidityDuration time.Duration
}

// NewUserService constructs a UserService using repositories and server config.
func NewUserService(db *sql.DB, rm repomanager.RepositoryManager, cfg *config.Config) *UserService {
	return &UserService{
		db:                           db,
		repomanager:                  rm,
		jwtSecret:                    []byte(cfg.SecretKey),
		accessTokenValidityDuration:  cfg.AccessTokenValidityDuration,
		refreshTokenValidityDuration: cfg.RefreshTokenValidityDuration,
	}
}

// Register creates an active user account with an argon2id password hash and
// a fresh per-user salt. A taken email fails with common.ErrorAlreadyExists.
func (s *UserService) Register(ctx context.Context, email, fullName, password string) (*models.User, error) {
	salt := common.GenerateRandByteArray(passwordSaltSize)
	user := &models.User{
		Email:        email,
		FullName:     fullName,
		Role:         models.RoleUser,
		PasswordHash: cryptox.HashPassword(password, salt),
		PasswordSalt: salt,
	}

	created, err := s.repomanager.Users(s.db).Create(ctx, user)
	if err != nil {
		if errors.Is(err, common.ErrorAlreadyExists) {
			return nil, common.ErrorAlreadyExists
		}
		return nil, fmt.Errorf("error creating user: %w", err)
	}
	return created, nil
}

// Login verifies the credentials and, on success, returns a new token pair.
// Unknown emails, wrong passwords and deactivated accounts all fail with the
// same unauthorized error.
func (s *UserService) Login(ctx context.Context, email, password string) (*TokenPair, error) {
	user, err := s.repomanager.Users(s.db).GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorUnauthorized
		}
		return nil, common.ErrorInternal
	}
	if !user.IsActive {
		return nil, common.ErrorUnauthorized
	}
	if !cryptox.VerifyPassword(password, user.PasswordSalt, user.PasswordHash) {
		return nil, common.ErrorUnauthorized
	}
	return s.generateTokenPair(ctx, user.ID, s.db)
}

// Refresh validates a refresh token, rotates the session transactionally,
// and returns a fresh TokenPair. Expired sessions yield
// common.ErrRefreshTokenExpired.
func (s *UserService) Refresh(ctx context.Context, refreshToken string) (*TokenPair, error) {
	session, err := s.repomanager.Sessions(s.db).Find(ctx, refreshToken)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrInvalidToken
		}
		return nil, fmt.Errorf("error searching session: %w", err)
	}
	if session.ExpiresAt.Before(time.Now()) {
		return nil, common.ErrRefreshTokenExpired
	}

	var pair *TokenPair
	err = dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if err := s.repomanager.Sessions(tx).Delete(ctx, refreshToken); err != nil {
			return fmt.Errorf("error deleting session: %w", err)
		}
		var genErr error
		pair, genErr = s.generateTokenPair(ctx, session.UserID, tx)
		return genErr
	})
	if err != nil {
		return nil, err
	}
	return pair, nil
}

// Logout revokes the refresh session. An unknown token fails with
// common.ErrInvalidToken.
func (s *UserService) Logout(ctx context.Context, refreshToken string) error {
	err := s.repomanager.Sessions(s.db).Delete(ctx, refreshToken)
	if errors.Is(err, common.ErrorNotFound) {
		return common.ErrInvalidToken
	}
	return err
}

// Deactivate soft-deletes the target account; only system administrators may
// do so. Existing vaults, items and grants of the target remain in place.
func (s *UserService) Deactivate(ctx context.Context, targetID, callerID int64) error {
	userRepo := s.repomanager.Users(s.db)

	caller, err := userRepo.GetByID(ctx, callerID)
	if err != nil {
		return err
	}
	if caller.Role != models.RoleAdmin {
		return common.ErrorInsufficientPermission
	}
	return userRepo.Deactivate(ctx, targetID)
}

// GetByID returns the user record.
func (s *UserService) GetByID(ctx context.Context, id int64) (*models.User, error) {
	return s.repomanager.Users(s.db).GetByID(ctx, id)
}

func (s *UserService) generateTokenPair(ctx context.Context, userID int64, tx dbx.DBTX) (*TokenPair, error) {
	access, err := auth.GenerateToken(userID, s.jwtSecret, s.accessTokenValidityDuration)
	if err != nil {
		return nil, common.ErrorInternal
	}
	refresh := uuid.NewString()
	if err := s.repomanager.Sessions(tx).Create(ctx, userID, refresh, s.refreshTokenValidityDuration); err != nil {
		return nil, common.ErrorInternal
	}
	return &TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}
