package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/ahmetcoskunkizilkaya/weather-dashboard/internal/dto"
	"github.com/ahmetcoskunkizilkaya/weather-dashboard/internal/models"
	"github.com/ahmetcoskunkizilkaya/weather-dashboard/internal/session"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type LocationService struct {
	db    *gorm.DB
	users *UserResolver
}

func NewLocationService(db *gorm.DB, users *UserResolver) *LocationService {
	return &LocationService{db: db, users: users}
}

// List returns the user's locations, default first, then oldest first.
func (s *LocationService) List(ctx context.Context, email string) ([]dto.LocationResponse, error) {
	user, err := s.users.Resolve(ctx, email)
	if err != nil {
		return nil, err
	}

	var locs []models.Location
	if err := s.db.WithContext(ctx).
		Scopes(session.OwnedBy(user.ID)).
		Order("is_default DESC").
		Order("created_at ASC").
		Find(&locs).Error; err != nil {
		return nil, fmt.Errorf("failed to list locations: %w", err)
	}

	resp := make([]dto.LocationResponse, len(locs))
	for i := range locs {
		resp[i] = *mapLocationToResponse(&locs[i])
	}
	return resp, nil
}

// Create saves a new location. Coordinates are not range-checked. When the
// location is requested as default, the user's other defaults are cleared in
// the same transaction.
func (s *LocationService) Create(ctx context.Context, email string, req *dto.CreateLocationRequest) (*dto.LocationResponse, error) {
	if err := requireIdentity(email); err != nil {
		return nil, err
	}

	req.Name = strings.TrimSpace(req.Name)
	if err := validateStruct(req); err != nil {
		return nil, err
	}

	user, err := s.users.Resolve(ctx, email)
	if err != nil {
		return nil, err
	}

	loc := models.Location{
		ID:        uuid.New(),
		UserID:    user.ID,
		Name:      req.Name,
		Latitude:  *req.Latitude,
		Longitude: *req.Longitude,
		IsDefault: req.IsDefault,
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if req.IsDefault {
			if err := lockDefaults(tx, user.ID); err != nil {
				return err
			}
			if err := clearDefaults(tx, user.ID, uuid.Nil); err != nil {
				return err
			}
		}
		if err := tx.Create(&loc).Error; err != nil {
			return fmt.Errorf("failed to create location: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return mapLocationToResponse(&loc), nil
}

// Update sets or clears the default flag and optionally renames the location.
// Clearing only touches the target; setting clears every other default first.
func (s *LocationService) Update(ctx context.Context, email string, req *dto.UpdateLocationRequest) (*dto.LocationResponse, error) {
	if err := requireIdentity(email); err != nil {
		return nil, err
	}

	req.ID = strings.TrimSpace(req.ID)
	if err := validateStruct(req); err != nil {
		return nil, err
	}
	if req.IsDefault == nil && req.Name == nil {
		return nil, invalidInput("isDefault or name is required")
	}

	var name string
	if req.Name != nil {
		name = strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, invalidInput("name must not be empty")
		}
	}

	user, err := s.users.Resolve(ctx, email)
	if err != nil {
		return nil, err
	}

	id, err := uuid.Parse(req.ID)
	if err != nil {
		return nil, ErrLocationNotFound
	}

	var loc models.Location
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if req.IsDefault != nil && *req.IsDefault {
			if err := lockDefaults(tx, user.ID); err != nil {
				return err
			}
		}
		if err := findOwnedLocation(tx, user.ID, id, &loc); err != nil {
			return err
		}

		updates := map[string]interface{}{}
		if req.IsDefault != nil {
			if *req.IsDefault {
				if err := clearDefaults(tx, user.ID, id); err != nil {
					return err
				}
			}
			updates["is_default"] = *req.IsDefault
		}
		if req.Name != nil {
			updates["name"] = name
		}

		if err := tx.Model(&models.Location{}).
			Scopes(session.OwnedBy(user.ID)).
			Where("id = ?", id).
			Updates(updates).Error; err != nil {
			return fmt.Errorf("failed to update location: %w", err)
		}

		return findOwnedLocation(tx, user.ID, id, &loc)
	})
	if err != nil {
		return nil, err
	}

	return mapLocationToResponse(&loc), nil
}

// Delete removes the location. The default flag is never reassigned, so a
// user may end up with no default.
func (s *LocationService) Delete(ctx context.Context, email string, rawID string) error {
	if err := requireIdentity(email); err != nil {
		return err
	}

	rawID = strings.TrimSpace(rawID)
	if rawID == "" {
		return invalidInput("Missing location ID")
	}

	user, err := s.users.Resolve(ctx, email)
	if err != nil {
		return err
	}

	id, err := uuid.Parse(rawID)
	if err != nil {
		return ErrLocationNotFound
	}

	result := s.db.WithContext(ctx).Scopes(session.OwnedBy(user.ID)).Where("id = ?", id).Delete(&models.Location{})
	if result.Error != nil {
		return fmt.Errorf("failed to delete location: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrLocationNotFound
	}
	return nil
}

func findOwnedLocation(tx *gorm.DB, userID, id uuid.UUID, out *models.Location) error {
	if err := tx.Scopes(session.OwnedBy(userID)).First(out, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrLocationNotFound
		}
		return fmt.Errorf("failed to load location: %w", err)
	}
	return nil
}

// lockDefaults takes a row lock on the owning user so default changes for one
// user run one at a time. SQLite ignores the locking clause.
func lockDefaults(tx *gorm.DB, userID uuid.UUID) error {
	var owner models.User
	if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Select("id").
		First(&owner, "id = ?", userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUserNotFound
		}
		return fmt.Errorf("failed to lock user: %w", err)
	}
	return nil
}

// clearDefaults unsets the default flag on the user's locations other than
// except. Passing uuid.Nil clears all of them.
func clearDefaults(tx *gorm.DB, userID, except uuid.UUID) error {
	q := tx.Model(&models.Location{}).
		Scopes(session.OwnedBy(userID)).
		Where("is_default = ?", true)
	if except != uuid.Nil {
		q = q.Where("id <> ?", except)
	}
	if err := q.Update("is_default", false).Error; err != nil {
		return fmt.Errorf("failed to clear default locations: %w", err)
	}
	return nil
}

func mapLocationToResponse(l *models.Location) *dto.LocationResponse {
	return &dto.LocationResponse{
		ID:        l.ID,
		UserID:    l.UserID,
		Name:      l.Name,
		Latitude:  l.Latitude,
		Longitude: l.Longitude,
		IsDefault: l.IsDefault,
		CreatedAt: l.CreatedAt,
	}
}
