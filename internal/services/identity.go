package services

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"

	"sharestuff/internal/models"
	"sharestuff/internal/utils"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

const minPasswordLength = 6

// Resolve maps a verified external subject id to its identity hash
// (unsalted sha256, lowercase hex).
func Resolve(externalID string) string {
	sum := sha256.Sum256([]byte(externalID))
	return hex.EncodeToString(sum[:])
}

// IdentityService maps identities to local users and creates accounts.
type IdentityService struct {
	db      *gorm.DB
	avatars *AvatarService
	log     *zap.Logger
}

func NewIdentityService(db *gorm.DB, avatars *AvatarService, log *zap.Logger) *IdentityService {
	return &IdentityService{db: db, avatars: avatars, log: log}
}

func (s *IdentityService) FindByID(ctx context.Context, id uint) (*models.User, error) {
	return s.findOne(ctx, "id = ?", id)
}

func (s *IdentityService) FindByUsername(ctx context.Context, username string) (*models.User, error) {
	return s.findOne(ctx, "username = ?", username)
}

// FindByIdentityHash looks up a federated user; it never creates one.
func (s *IdentityService) FindByIdentityHash(ctx context.Context, hash string) (*models.User, error) {
	if hash == "" {
		return nil, ErrUserNotFound
	}
	return s.findOne(ctx, "identity_hash = ?", hash)
}

func (s *IdentityService) findOne(ctx context.Context, query string, arg interface{}) (*models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).Where(query, arg).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	return &user, nil
}

// RegisterUsername creates the federated user for a pending identity hash.
func (s *IdentityService) RegisterUsername(ctx context.Context, identityHash, desired string) (*models.User, error) {
	if identityHash == "" {
		return nil, ErrMissingIdentity
	}
	username, ok := utils.NormalizeUsername(desired)
	if !ok {
		return nil, invalidInput("Usernames are 1-32 letters, digits, '_' or '-'.")
	}

	if _, err := s.FindByIdentityHash(ctx, identityHash); err == nil {
		return nil, ErrIdentityRegistered
	} else if !errors.Is(err, ErrUserNotFound) {
		return nil, err
	}

	hash := identityHash
	user := &models.User{Username: username, IdentityHash: &hash}
	if err := s.create(ctx, user); err != nil {
		return nil, err
	}
	s.log.Info("registered federated user", zap.Uint("user_id", user.ID), zap.String("username", username))

	s.EnsureAvatar(ctx, user)
	return user, nil
}

// RegisterLocal creates a non-federated account with a bcrypt credential.
func (s *IdentityService) RegisterLocal(ctx context.Context, desired, password string) (*models.User, error) {
	username, ok := utils.NormalizeUsername(desired)
	if !ok {
		return nil, invalidInput("Usernames are 1-32 letters, digits, '_' or '-'.")
	}
	if len(password) < minPasswordLength {
		return nil, invalidInput(fmt.Sprintf("Password must be at least %d characters.", minPasswordLength))
	}

	hashed, err := utils.HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	user := &models.User{Username: username, Credential: &hashed}
	if err := s.create(ctx, user); err != nil {
		return nil, err
	}
	s.log.Info("registered local user", zap.Uint("user_id", user.ID), zap.String("username", username))

	s.EnsureAvatar(ctx, user)
	return user, nil
}

// Authenticate checks a local account's password.
func (s *IdentityService) Authenticate(ctx context.Context, username, password string) (*models.User, error) {
	user, err := s.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if user.Credential == nil || !utils.CheckPasswordHash(password, *user.Credential) {
		return nil, ErrInvalidCredentials
	}
	return user, nil
}

// create inserts the user; the unique indexes settle registration races.
func (s *IdentityService) create(ctx context.Context, user *models.User) error {
	if _, err := s.FindByUsername(ctx, user.Username); err == nil {
		return ErrUsernameTaken
	} else if !errors.Is(err, ErrUserNotFound) {
		return err
	}

	if err := s.db.WithContext(ctx).Create(user).Error; err != nil {
		if isUniqueViolation(err) {
			if _, ferr := s.FindByUsername(ctx, user.Username); ferr == nil {
				return ErrUsernameTaken
			}
			return ErrIdentityRegistered
		}
		return fmt.Errorf("create user: %w", err)
	}
	return nil
}

// EnsureAvatar generates the avatar if the user has none yet. Failures are
// logged only; the avatar is derived data and is retried on the next login.
func (s *IdentityService) EnsureAvatar(ctx context.Context, user *models.User) {
	if user.AvatarURL != nil && *user.AvatarURL != "" {
		return
	}
	if _, err := s.RefreshAvatar(ctx, user); err != nil {
		s.log.Warn("avatar generation failed", zap.String("username", user.Username), zap.Error(err))
	}
}

// RefreshAvatar regenerates the avatar file and records its URL.
func (s *IdentityService) RefreshAvatar(ctx context.Context, user *models.User) ([]byte, error) {
	b, url, err := s.avatars.Store(user.Username)
	if err != nil {
		return nil, err
	}
	if err := s.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", user.ID).
		UpdateColumn("avatar_url", url).Error; err != nil {
		return nil, fmt.Errorf("update avatar url: %w", err)
	}
	user.AvatarURL = &url
	return b, nil
}
