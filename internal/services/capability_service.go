package services

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"maintenance-system/internal/authz"
	"maintenance-system/internal/repositories"
	apperrors "maintenance-system/pkg/errors"

	"go.uber.org/zap"
)

type CapabilityServiceInterface interface {
	RoleCapabilities(ctx context.Context, roleID uint64) (map[string]bool, error)
}

// CapabilityService держит наборы возможностей ролей в Redis.
// В кеше лежит отсортированный список имён через запятую; пустая строка - роль без возможностей.
type CapabilityService struct {
	permissionRepo repositories.PermissionRepositoryInterface
	cacheRepo      repositories.CacheRepositoryInterface
	logger         *zap.Logger
	cacheTTL       time.Duration
}

func NewCapabilityService(
	permissionRepo repositories.PermissionRepositoryInterface,
	cacheRepo repositories.CacheRepositoryInterface,
	logger *zap.Logger,
	cacheTTL time.Duration,
) CapabilityServiceInterface {
	return &CapabilityService{
		permissionRepo: permissionRepo,
		cacheRepo:      cacheRepo,
		logger:         logger,
		cacheTTL:       cacheTTL,
	}
}

func roleCapabilitiesKey(roleID uint64) string {
	return fmt.Sprintf("authz:capabilities:role:%d", roleID)
}

func (s *CapabilityService) RoleCapabilities(ctx context.Context, roleID uint64) (map[string]bool, error) {
	key := roleCapabilitiesKey(roleID)

	cached, err := s.cacheRepo.Get(ctx, key)
	switch {
	case err == nil:
		return s.toSet(roleID, splitCapabilities(cached)), nil
	case !errors.Is(err, repositories.ErrCacheMiss):
		s.logger.Warn("Кеш возможностей недоступен, читаем из БД", zap.Uint64("roleID", roleID), zap.Error(err))
	}

	names, err := s.permissionRepo.GetPermissionsNamesByRoleID(ctx, roleID)
	if err != nil {
		s.logger.Error("Не удалось получить возможности роли", zap.Uint64("roleID", roleID), zap.Error(err))
		return nil, apperrors.ErrInternalServer
	}

	set := s.toSet(roleID, names)
	if err := s.cacheRepo.Set(ctx, key, joinCapabilities(set), s.cacheTTL); err != nil {
		s.logger.Warn("Не удалось закешировать возможности роли", zap.Uint64("roleID", roleID), zap.Error(err))
	}
	return set, nil
}

// toSet отбрасывает имена, которых нет среди известных возможностей.
func (s *CapabilityService) toSet(roleID uint64, names []string) map[string]bool {
	set := make(map[string]bool, len(names))
	for _, name := range names {
		if !authz.IsCapability(name) {
			s.logger.Warn("Неизвестная возможность у роли", zap.Uint64("roleID", roleID), zap.String("name", name))
			continue
		}
		set[name] = true
	}
	return set
}

func splitCapabilities(raw string) []string {
	if raw == "" {
		return nil
	}
	return strings.Split(raw, ",")
}

func joinCapabilities(set map[string]bool) string {
	names := make([]string, 0, len(set))
	for name := range set {
		names = append(names, name)
	}
	sort.Strings(names)
	return strings.Join(names, ",")
}
