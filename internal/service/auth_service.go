package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/rkive250/MedNotify/config"
	"github.com/rkive250/MedNotify/internal/dto"
	"github.com/rkive250/MedNotify/internal/model"
	"github.com/rkive250/MedNotify/internal/repository"
	"github.com/rkive250/MedNotify/pkg/jwt"
)

// TokenBlacklist revokes access tokens before they expire.
type TokenBlacklist interface {
	BlacklistToken(ctx context.Context, jti string, ttl time.Duration) error
}

// AuthService is the account business interface.
type AuthService interface {
	Register(ctx context.Context, req *dto.RegisterRequest) (*dto.TokenResponse, error)
	Login(ctx context.Context, req *dto.LoginRequest) (*dto.TokenResponse, error)
	// Logout blacklists the token jti until exp and unregisters deviceToken.
	Logout(ctx context.Context, userID int64, jti string, exp time.Time, deviceToken string) error
	SaveDeviceToken(ctx context.Context, userID int64, token string) error
	// DeleteAccount removes the user and everything it owns after checking the password.
	DeleteAccount(ctx context.Context, userID int64, password string) error
}

type authService struct {
	cfg       *config.Config
	repo      *repository.Repository
	jwtMgr    *jwt.Manager
	blacklist TokenBlacklist
	logger    *zap.Logger
}

// NewAuthService creates an AuthService. blacklist may be nil when Redis is
// not configured; logout then only unregisters the device.
func NewAuthService(
	cfg *config.Config,
	repo *repository.Repository,
	jwtMgr *jwt.Manager,
	blacklist TokenBlacklist,
	logger *zap.Logger,
) AuthService {
	return &authService{
		cfg:       cfg,
		repo:      repo,
		jwtMgr:    jwtMgr,
		blacklist: blacklist,
		logger:    logger,
	}
}

func normalizeEmail(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// ────────────────────── Register ──────────────────────

func (s *authService) Register(ctx context.Context, req *dto.RegisterRequest) (*dto.TokenResponse, error) {
	email := normalizeEmail(req.Email)

	if _, err := s.repo.User.GetByEmail(ctx, email); err == nil {
		return nil, ErrEmailTaken
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		s.logger.Error("lookup user failed", zap.Error(err))
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		s.logger.Error("hash password failed", zap.Error(err))
		return nil, err
	}

	user := &model.User{
		Name:         strings.TrimSpace(req.Name),
		Email:        email,
		PasswordHash: string(hash),
		CreatedAt:    time.Now(),
	}
	if err := s.repo.User.Create(ctx, user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrEmailTaken
		}
		s.logger.Error("create user failed", zap.Error(err))
		return nil, err
	}

	s.registerDevice(ctx, user.ID, req.DeviceToken)
	s.logger.Info("user registered", zap.Int64("user_id", user.ID))
	return s.issue(user)
}

// ────────────────────── Login ──────────────────────

func (s *authService) Login(ctx context.Context, req *dto.LoginRequest) (*dto.TokenResponse, error) {
	user, err := s.repo.User.GetByEmail(ctx, normalizeEmail(req.Email))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		s.logger.Error("lookup user failed", zap.Error(err))
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	s.registerDevice(ctx, user.ID, req.DeviceToken)
	return s.issue(user)
}

func (s *authService) issue(user *model.User) (*dto.TokenResponse, error) {
	token, err := s.jwtMgr.GenerateAccessToken(user.ID)
	if err != nil {
		s.logger.Error("generate access token failed", zap.Error(err))
		return nil, err
	}
	return &dto.TokenResponse{
		AccessToken: token,
		ExpiresIn:   int(s.jwtMgr.AccessTokenTTL().Seconds()),
		User: dto.UserResponse{
			ID:    user.ID,
			Name:  user.Name,
			Email: user.Email,
		},
	}, nil
}

// registerDevice stores token when given. A failure only costs the user pushes.
func (s *authService) registerDevice(ctx context.Context, userID int64, token string) {
	token = strings.TrimSpace(token)
	if token == "" {
		return
	}
	if err := s.repo.DeviceToken.Save(ctx, userID, token); err != nil {
		s.logger.Warn("save device token failed", zap.Int64("user_id", userID), zap.Error(err))
	}
}

// ────────────────────── Logout / devices ──────────────────────

func (s *authService) Logout(ctx context.Context, userID int64, jti string, exp time.Time, deviceToken string) error {
	if token := strings.TrimSpace(deviceToken); token != "" {
		if err := s.repo.DeviceToken.DeleteForUser(ctx, userID, token); err != nil {
			s.logger.Error("remove device token failed", zap.Int64("user_id", userID), zap.Error(err))
			return err
		}
	}

	if s.blacklist != nil && jti != "" {
		if err := s.blacklist.BlacklistToken(ctx, jti, time.Until(exp)); err != nil {
			s.logger.Error("blacklist token failed", zap.String("jti", jti), zap.Error(err))
			return err
		}
	}
	return nil
}

func (s *authService) SaveDeviceToken(ctx context.Context, userID int64, token string) error {
	if err := s.repo.DeviceToken.Save(ctx, userID, strings.TrimSpace(token)); err != nil {
		s.logger.Error("save device token failed", zap.Int64("user_id", userID), zap.Error(err))
		return err
	}
	return nil
}

// ────────────────────── DeleteAccount ──────────────────────

func (s *authService) DeleteAccount(ctx context.Context, userID int64, password string) error {
	user, err := s.repo.User.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrWrongPassword
		}
		return err
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return ErrWrongPassword
	}

	// Dependents first, in foreign-key order, then the user row.
	err = s.repo.Transaction(ctx, func(tx *repository.Repository) error {
		if err := tx.DeviceToken.DeleteByUser(ctx, userID); err != nil {
			return err
		}
		if err := tx.Notification.DeleteByUser(ctx, userID); err != nil {
			return err
		}
		for _, t := range model.AllRecordTypes {
			if err := tx.Records(t).DeleteByUser(ctx, userID); err != nil {
				return err
			}
		}
		return tx.User.Delete(ctx, userID)
	})
	if err != nil {
		s.logger.Error("delete account failed", zap.Int64("user_id", userID), zap.Error(err))
		return err
	}

	s.logger.Info("account deleted", zap.Int64("user_id", userID))
	return nil
}
