package models

import "time"

// RewardEntry is one line of a user's append-only rewards history. The user's
// Rewards column equals the sum of Amount over their entries.
type RewardEntry struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    string    `gorm:"size:64;index;not null" json:"user_id"`
	Amount    int       `gorm:"not null" json:"amount"`
	Reason    string    `gorm:"size:255" json:"reason"`
	CreatedAt time.Time `json:"created_at"`
}
