package models

import (
	"time"

	"gorm.io/gorm"
)

// User roles. Customers schedule pickups and classify waste, agents collect.
const (
	RoleCustomer = "customer"
	RoleAgent    = "agent"
)

// User represents a registered customer or pickup agent. Passwords are stored as bcrypt hashes only.
type User struct {
	ID            uint           `gorm:"primaryKey" json:"-"`
	UserID        string         `gorm:"size:64;uniqueIndex;not null" json:"user_id"`
	Name          string         `gorm:"size:128;not null" json:"name"`
	Email         string         `gorm:"size:255;uniqueIndex;not null" json:"email"`
	PasswordHash  string         `gorm:"size:255" json:"-"`
	Role          string         `gorm:"size:16;index;not null" json:"role"`
	Phone         string         `gorm:"size:32" json:"phone"`
	VehicleInfo   string         `gorm:"size:128" json:"vehicle_info,omitempty"`
	Rewards       int            `gorm:"default:0" json:"rewards"`
	TotalItems    int            `gorm:"default:0" json:"total_items"`
	TotalCO2Saved float64        `gorm:"default:0" json:"total_co2_saved"`
	TotalPickups  int            `gorm:"default:0" json:"total_pickups"`
	CurrentStreak int            `gorm:"default:0" json:"current_streak"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
	DeletedAt     gorm.DeletedAt `gorm:"index" json:"-"`
}

// BeforeCreate hook ensures timestamps are set even when not provided.
func (u *User) BeforeCreate(tx *gorm.DB) error {
	now := time.Now()
	if u.CreatedAt.IsZero() {
		u.CreatedAt = now
	}
	u.UpdatedAt = now
	return nil
}

// BeforeUpdate ensures the UpdatedAt timestamp is refreshed.
func (u *User) BeforeUpdate(tx *gorm.DB) error {
	u.UpdatedAt = time.Now()
	return nil
}

// UserStats is the aggregate snapshot the reward calculators read. It reflects
// the user's totals before the event being rewarded.
type UserStats struct {
	TotalItems    int     `json:"total_items"`
	TotalCO2Saved float64 `json:"total_co2_saved"`
	TotalPickups  int     `json:"total_pickups"`
	CurrentStreak int     `json:"current_streak"`
}

// Stats returns the calculator-facing view of the user's running totals.
func (u *User) Stats() UserStats {
	return UserStats{
		TotalItems:    u.TotalItems,
		TotalCO2Saved: u.TotalCO2Saved,
		TotalPickups:  u.TotalPickups,
		CurrentStreak: u.CurrentStreak,
	}
}
