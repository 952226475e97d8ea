package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// User is the identity anchor. Preference columns stay nullable: the server
// never invents defaults, clients do.
type User struct {
	ID                uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	Email             string     `gorm:"not null;size:255;uniqueIndex" json:"email"`
	Password          string     `gorm:"not null" json:"-"`
	Name              *string    `gorm:"size:255" json:"name,omitempty"`
	TemperatureUnit   *string    `gorm:"size:20" json:"temperatureUnit"`
	Theme             *string    `gorm:"size:20" json:"theme"`
	WidgetPreferences *string    `gorm:"type:text" json:"widgetPreferences"`
	Locations         []Location `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	CreatedAt         time.Time  `json:"createdAt"`
	UpdatedAt         time.Time  `json:"updatedAt"`
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}
