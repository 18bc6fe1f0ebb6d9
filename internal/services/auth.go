package services

import (
	"context"
	"fmt"

	"maintenance-system/internal/authz"
	"maintenance-system/internal/dto"
	"maintenance-system/internal/entities"
	"maintenance-system/internal/repositories"
	"maintenance-system/pkg/config"
	apperrors "maintenance-system/pkg/errors"
	"maintenance-system/pkg/utils"

	"go.uber.org/zap"
)

type AuthServiceInterface interface {
	Login(ctx context.Context, payload dto.LoginDTO) (*entities.User, error)
	GetUserByID(ctx context.Context, userID uint64) (*entities.User, error)
	ResolvePrincipal(ctx context.Context, userID uint64) (*authz.Principal, error)
}

type AuthService struct {
	userRepo     repositories.UserRepositoryInterface
	cacheRepo    repositories.CacheRepositoryInterface
	capabilities CapabilityServiceInterface
	logger       *zap.Logger
	cfg          *config.AuthConfig
}

func NewAuthService(
	userRepo repositories.UserRepositoryInterface,
	cacheRepo repositories.CacheRepositoryInterface,
	capabilities CapabilityServiceInterface,
	logger *zap.Logger,
	cfg *config.AuthConfig,
) AuthServiceInterface {
	return &AuthService{
		userRepo:     userRepo,
		cacheRepo:    cacheRepo,
		capabilities: capabilities,
		logger:       logger,
		cfg:          cfg,
	}
}

func (s *AuthService) Login(ctx context.Context, payload dto.LoginDTO) (*entities.User, error) {
	user, err := s.userRepo.FindByEmail(ctx, payload.Email)
	if err != nil {
		if !apperrors.IsNotFound(err) {
			s.logger.Error("Login: ошибка поиска пользователя", zap.Error(err))
		}
		return nil, apperrors.ErrInvalidCredentials
	}
	if err := s.checkLockout(ctx, user.ID); err != nil {
		return nil, err
	}
	if err := utils.ComparePasswords(user.Password, payload.Password); err != nil {
		s.handleFailedLoginAttempt(ctx, user.ID)
		return nil, apperrors.ErrInvalidCredentials
	}
	if !user.IsActive {
		return nil, apperrors.ErrUserInactive
	}
	s.resetLoginAttempts(ctx, user.ID)
	return user, nil
}

func (s *AuthService) GetUserByID(ctx context.Context, userID uint64) (*entities.User, error) {
	user, err := s.userRepo.FindUserByID(ctx, userID)
	if err != nil {
		s.logger.Warn("GetUserByID: не удалось найти пользователя", zap.Uint64("userID", userID), zap.Error(err))
		return nil, err
	}
	return user, nil
}

// ResolvePrincipal собирает субъекта по ID из токена: пользователь, роль и её возможности.
func (s *AuthService) ResolvePrincipal(ctx context.Context, userID uint64) (*authz.Principal, error) {
	user, err := s.userRepo.FindUserByID(ctx, userID)
	if err != nil {
		if apperrors.IsNotFound(err) {
			return nil, apperrors.ErrUnauthorized
		}
		return nil, err
	}
	if !user.IsActive {
		return nil, apperrors.ErrUserInactive
	}

	principal := &authz.Principal{
		UserID:      user.ID,
		Email:       user.Email,
		FullName:    user.FullName,
		RoleID:      user.RoleID,
		Permissions: map[string]bool{},
	}
	if user.RoleName != nil {
		principal.RoleName = *user.RoleName
	}
	if user.RoleID != nil {
		capabilities, err := s.capabilities.RoleCapabilities(ctx, *user.RoleID)
		if err != nil {
			return nil, err
		}
		principal.Permissions = capabilities
	}
	return principal, nil
}

func (s *AuthService) checkLockout(ctx context.Context, userID uint64) error {
	if _, err := s.cacheRepo.Get(ctx, lockoutKey(userID)); err == nil {
		return apperrors.ErrAccountLocked
	}
	return nil
}

func (s *AuthService) handleFailedLoginAttempt(ctx context.Context, userID uint64) {
	attemptsKey := loginAttemptsKey(userID)
	attempts, err := s.cacheRepo.Incr(ctx, attemptsKey, s.cfg.LockoutDuration)
	if err != nil {
		s.logger.Warn("Login: не удалось учесть неудачную попытку", zap.Uint64("userID", userID), zap.Error(err))
		return
	}
	if attempts >= int64(s.cfg.MaxLoginAttempts) {
		s.logger.Warn("Login: аккаунт заблокирован после серии неудачных попыток", zap.Uint64("userID", userID))
		_ = s.cacheRepo.Set(ctx, lockoutKey(userID), "locked", s.cfg.LockoutDuration)
		_ = s.cacheRepo.Del(ctx, attemptsKey)
	}
}

func (s *AuthService) resetLoginAttempts(ctx context.Context, userID uint64) {
	_ = s.cacheRepo.Del(ctx, loginAttemptsKey(userID), lockoutKey(userID))
}

func loginAttemptsKey(userID uint64) string { return fmt.Sprintf("login_attempts:%d", userID) }
func lockoutKey(userID uint64) string       { return fmt.Sprintf("lockout:%d", userID) }
