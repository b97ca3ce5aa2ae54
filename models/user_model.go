package models

import (
	"time"

	"github.com/google/uuid"
)

const (
	RoleAdmin          = "admin"
	RoleSuperintendent = "superintendent"
)

type User struct {
	ID       uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	FullName string    `gorm:"size:255;not null" json:"full_name"`
	Email    string    `gorm:"size:255;not null;unique" json:"email"`
	Password string    `gorm:"not null" json:"-"`
	Role     string    `gorm:"size:20;not null;default:'superintendent'" json:"role"`
	Phone    *string   `gorm:"size:20" json:"phone"`

	// The center this superintendent is designated for. Null for admins.
	SchoolID *uuid.UUID `gorm:"type:uuid" json:"school_id"`
	School   *School    `gorm:"foreignkey:SchoolID" json:"school,omitempty"`

	IsActive bool `gorm:"default:true" json:"is_active"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
