package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	RoleWorker      = "worker"
	RoleAdmin       = "admin"
	RoleDistributor = "distributor"
)

// User is a roster entry. StaffID is the human-readable login identifier
// generated from the name plus a random 4-digit number.
type User struct {
	ID           uuid.UUID      `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	StaffID      string         `gorm:"size:64;not null;uniqueIndex" json:"staff_id"`
	FirstName    string         `gorm:"size:100;not null" json:"first_name"`
	LastName     string         `gorm:"size:100;not null" json:"last_name"`
	Department   string         `gorm:"size:100;not null;index" json:"department"`
	Role         string         `gorm:"size:20;default:'worker';index" json:"role"`
	Password     string         `gorm:"not null" json:"-"`
	UniqueNumber int            `json:"unique_number"`
	IsActive     bool           `gorm:"default:true" json:"is_active"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`
}

func (u *User) Name() string {
	return u.FirstName + " " + u.LastName
}
