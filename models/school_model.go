package models

import (
	"time"

	"github.com/google/uuid"
)

type School struct {
	ID       uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	Name     string    `gorm:"size:255;not null" json:"name"`
	Code     string    `gorm:"size:20;not null;unique" json:"code"`
	District string    `gorm:"size:100" json:"district"`

	// Registered coordinates of the center. Stored for audit comparison
	// against submitted event coordinates; not enforced as a geofence.
	Latitude  float64 `gorm:"type:numeric(10,7)" json:"latitude"`
	Longitude float64 `gorm:"type:numeric(10,7)" json:"longitude"`

	IsActive bool `gorm:"default:true" json:"is_active"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
