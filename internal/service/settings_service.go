package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/attendance-service/internal/domain"
	"github.com/spec-kit/attendance-service/internal/repository"
	apperrors "github.com/spec-kit/attendance-service/pkg/util/errorutil"
)

const settingCacheTTL = 5 * time.Minute

// settingDefaults are served for keys that were never written.
var settingDefaults = map[string]string{
	domain.SettingRequirePhoto: "false",
	domain.SettingWorkdayStart: "09:00",
	domain.SettingWorkdayEnd:   "18:00",
	domain.SettingTimezone:     "UTC",
}

// SettingsService serves configuration values through a redis lookaside
// cache in front of postgres.
type SettingsService struct {
	settings repository.SettingRepository
	cache    repository.SettingCache
}

// NewSettingsService constructs the service.
func NewSettingsService(settings repository.SettingRepository, cache repository.SettingCache) *SettingsService {
	return &SettingsService{settings: settings, cache: cache}
}

// Get returns the effective value for a known key: cache, then storage,
// then the built-in default. Cache errors degrade to storage reads.
func (s *SettingsService) Get(ctx context.Context, key string) (string, error) {
	fallback, known := settingDefaults[key]
	if !known {
		return "", apperrors.NewNotFound("setting", map[string]any{"key": key})
	}

	if s.cache != nil {
		if value, hit, err := s.cache.Get(ctx, key); err == nil && hit {
			return value, nil
		}
	}

	value := fallback
	setting, err := s.settings.Get(ctx, key)
	switch {
	case err == nil:
		value = setting.Value
	case !errors.Is(err, pgx.ErrNoRows):
		return "", err
	}

	if s.cache != nil {
		_ = s.cache.Set(ctx, key, value, settingCacheTTL)
	}
	return value, nil
}

// GetBool parses a boolean setting.
func (s *SettingsService) GetBool(ctx context.Context, key string) (bool, error) {
	value, err := s.Get(ctx, key)
	if err != nil {
		return false, err
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		return false, fmt.Errorf("setting %s is not a boolean: %w", key, err)
	}
	return parsed, nil
}

// Update validates and persists a setting, then drops the cached copy.
// The updater's id is recorded alongside the value.
func (s *SettingsService) Update(ctx context.Context, key, value, updatedBy string) (*domain.Setting, error) {
	if _, known := settingDefaults[key]; !known {
		return nil, apperrors.NewValidationError("Unknown setting key", map[string]any{"key": key})
	}
	if err := validateSettingValue(key, value); err != nil {
		return nil, err
	}

	setting := &domain.Setting{Key: key, Value: value}
	if updatedBy != "" {
		setting.UpdatedBy = &updatedBy
	}
	if err := s.settings.Upsert(ctx, setting); err != nil {
		return nil, err
	}
	if s.cache != nil {
		_ = s.cache.Invalidate(ctx, key)
	}
	return setting, nil
}

// List returns every known setting with its effective value.
func (s *SettingsService) List(ctx context.Context) ([]domain.Setting, error) {
	stored, err := s.settings.List(ctx)
	if err != nil {
		return nil, err
	}

	byKey := make(map[string]domain.Setting, len(stored))
	for _, setting := range stored {
		byKey[setting.Key] = setting
	}

	result := make([]domain.Setting, 0, len(settingDefaults))
	for key, fallback := range settingDefaults {
		if setting, ok := byKey[key]; ok {
			result = append(result, setting)
			continue
		}
		result = append(result, domain.Setting{Key: key, Value: fallback})
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Key < result[j].Key })
	return result, nil
}

func validateSettingValue(key, value string) error {
	switch key {
	case domain.SettingRequirePhoto:
		if _, err := strconv.ParseBool(value); err != nil {
			return apperrors.NewValidationError("Value must be a boolean", map[string]any{"key": key})
		}
	case domain.SettingWorkdayStart, domain.SettingWorkdayEnd:
		if _, _, err := parseTimeOfDay(value); err != nil {
			return apperrors.NewValidationError("Value must be HH:MM", map[string]any{"key": key})
		}
	case domain.SettingTimezone:
		if _, err := time.LoadLocation(value); err != nil {
			return apperrors.NewValidationError("Value must be an IANA timezone name", map[string]any{"key": key})
		}
	}
	return nil
}

// parseTimeOfDay splits an HH:MM value into hour and minute.
func parseTimeOfDay(value string) (int, int, error) {
	parsed, err := time.Parse("15:04", value)
	if err != nil {
		return 0, 0, err
	}
	return parsed.Hour(), parsed.Minute(), nil
}
