package models

import "time"

// Pickup statuses. Transitions only move forward: scheduled -> in-progress -> completed.
// An on-site code verification may complete a scheduled pickup directly.
const (
	PickupScheduled  = "scheduled"
	PickupInProgress = "in-progress"
	PickupCompleted  = "completed"
)

// Pickup is a scheduled waste collection. AgentID stays empty until an agent
// accepts (or directly verifies) the pickup; AcceptedAt and CompletedAt are set
// exactly once by their transitions.
type Pickup struct {
	ID               uint       `gorm:"primaryKey" json:"-"`
	PickupID         string     `gorm:"size:64;uniqueIndex;not null" json:"pickup_id"`
	VerificationCode string     `gorm:"size:16;index;not null" json:"verification_code,omitempty"`
	CustomerID       string     `gorm:"size:64;index;not null" json:"customer_id"`
	AgentID          string     `gorm:"size:64;index" json:"agent_id,omitempty"`
	Status           string     `gorm:"size:16;index;not null" json:"status"`
	Date             string     `gorm:"size:10" json:"date"`
	TimeSlot         string     `gorm:"size:32" json:"time_slot"`
	Address          string     `gorm:"size:512" json:"address"`
	Items            string     `gorm:"size:512" json:"items"`
	Rating           *int       `json:"rating,omitempty"`
	AcceptedAt       *time.Time `json:"accepted_at,omitempty"`
	CompletedAt      *time.Time `json:"completed_at,omitempty"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`
}
