package services

import (
	"context"
	"encoding/json"
	"fmt"
	"slices"

	"github.com/ahmetcoskunkizilkaya/weather-dashboard/internal/dto"
	"github.com/ahmetcoskunkizilkaya/weather-dashboard/internal/models"
	"gorm.io/gorm"
)

type PreferenceService struct {
	db    *gorm.DB
	users *UserResolver
}

func NewPreferenceService(db *gorm.DB, users *UserResolver) *PreferenceService {
	return &PreferenceService{db: db, users: users}
}

// Get returns the stored preference columns as-is, nulls included.
func (s *PreferenceService) Get(ctx context.Context, email string) (*dto.PreferencesResponse, error) {
	user, err := s.users.Resolve(ctx, email)
	if err != nil {
		return nil, err
	}
	return mapPreferences(user), nil
}

// Update writes only the fields present in req. Empty values leave the stored
// column untouched.
func (s *PreferenceService) Update(ctx context.Context, email string, req *dto.UpdatePreferencesRequest) (*dto.PreferencesResponse, error) {
	if err := requireIdentity(email); err != nil {
		return nil, err
	}
	if err := validateStruct(req); err != nil {
		return nil, err
	}
	for key := range req.WidgetPreferences {
		if !slices.Contains(dto.WidgetKeys, key) {
			return nil, invalidInput("unknown widget %q", key)
		}
	}

	user, err := s.users.Resolve(ctx, email)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	if req.TemperatureUnit != "" {
		updates["temperature_unit"] = req.TemperatureUnit
	}
	if req.Theme != "" {
		updates["theme"] = req.Theme
	}
	if req.WidgetPreferences != nil {
		raw, err := json.Marshal(req.WidgetPreferences)
		if err != nil {
			return nil, fmt.Errorf("failed to encode widget preferences: %w", err)
		}
		updates["widget_preferences"] = string(raw)
	}

	if len(updates) == 0 {
		return mapPreferences(user), nil
	}

	if err := s.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", user.ID).Updates(updates).Error; err != nil {
		return nil, fmt.Errorf("failed to update preferences: %w", err)
	}

	var updated models.User
	if err := s.db.WithContext(ctx).First(&updated, "id = ?", user.ID).Error; err != nil {
		return nil, fmt.Errorf("failed to reload preferences: %w", err)
	}
	return mapPreferences(&updated), nil
}

func mapPreferences(u *models.User) *dto.PreferencesResponse {
	return &dto.PreferencesResponse{
		TemperatureUnit:   u.TemperatureUnit,
		Theme:             u.Theme,
		WidgetPreferences: u.WidgetPreferences,
	}
}
