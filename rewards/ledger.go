package rewards

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/recyclink/recyclink/models"
	"github.com/recyclink/recyclink/utils"
)

var errUnknownUser = errors.New("unknown user")

// Ledger is the only mutation path for reward points. Increments are expressed
// as atomic SQL updates so the sum invariant (rewards == sum of history
// amounts) holds under concurrent award calls without row locks.
type Ledger struct {
	db *gorm.DB
}

// NewLedger creates a ledger over the given database handle.
func NewLedger(db *gorm.DB) *Ledger {
	return &Ledger{db: db}
}

// Award adds amount to the user's running total and appends a history entry.
// Negative amounts are permitted and can drive the total negative. Awarding to
// an unknown userID is a logged no-op, not an error. The cached session-user
// projection is refreshed so the client sees the new total without reloading.
func (l *Ledger) Award(ctx context.Context, userID string, amount int, reason string) error {
	var updated models.User
	err := l.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var user models.User
		if err := tx.Where("user_id = ?", userID).First(&user).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return errUnknownUser
			}
			return err
		}

		if err := tx.Model(&models.User{}).Where("user_id = ?", userID).
			UpdateColumn("rewards", gorm.Expr("rewards + ?", amount)).Error; err != nil {
			return err
		}

		entry := models.RewardEntry{
			UserID:    userID,
			Amount:    amount,
			Reason:    reason,
			CreatedAt: time.Now(),
		}
		if err := tx.Create(&entry).Error; err != nil {
			return err
		}

		return tx.Where("user_id = ?", userID).First(&updated).Error
	})

	if errors.Is(err, errUnknownUser) {
		if utils.Sugar != nil {
			utils.Sugar.Debugf("award of %d to unknown user %s skipped", amount, userID)
		}
		return nil
	}
	if err != nil {
		return err
	}

	utils.RefreshSessionUser(updated)
	return nil
}

// RecordClassification bumps the recycling counters touched by a successful
// classification. This path intentionally writes no history entry; only point
// awards are ledgered, matching how the platform has always split the two.
func (l *Ledger) RecordClassification(ctx context.Context, userID string, itemCount int, co2SavedKg float64) error {
	return l.bump(ctx, userID, map[string]interface{}{
		"total_items":     gorm.Expr("total_items + ?", itemCount),
		"total_co2_saved": gorm.Expr("total_co2_saved + ?", co2SavedKg),
	})
}

// RecordPickupCompletion increments an agent's completed-pickup counter.
func (l *Ledger) RecordPickupCompletion(ctx context.Context, agentID string) error {
	return l.bump(ctx, agentID, map[string]interface{}{
		"total_pickups": gorm.Expr("total_pickups + ?", 1),
	})
}

// RefreshCustomerStreak recomputes a customer's consecutive-day streak from
// their completed pickups and stores it on the user row, where the customer
// reward calculator reads it.
func (l *Ledger) RefreshCustomerStreak(ctx context.Context, customerID string, loc *time.Location) (int, error) {
	var pickups []models.Pickup
	if err := l.db.WithContext(ctx).
		Where("customer_id = ? AND status = ?", customerID, models.PickupCompleted).
		Find(&pickups).Error; err != nil {
		return 0, err
	}

	completions := make([]time.Time, 0, len(pickups))
	for _, p := range pickups {
		if p.CompletedAt != nil {
			completions = append(completions, *p.CompletedAt)
		}
	}

	streak := Streak(completions, loc)
	if err := l.bump(ctx, customerID, map[string]interface{}{"current_streak": streak}); err != nil {
		return 0, err
	}
	return streak, nil
}

// bump applies column updates to a user and refreshes the session projection.
// Unknown users are a silent no-op, mirroring Award.
func (l *Ledger) bump(ctx context.Context, userID string, updates map[string]interface{}) error {
	res := l.db.WithContext(ctx).Model(&models.User{}).
		Where("user_id = ?", userID).UpdateColumns(updates)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return nil
	}

	var updated models.User
	if err := l.db.WithContext(ctx).Where("user_id = ?", userID).First(&updated).Error; err == nil {
		utils.RefreshSessionUser(updated)
	}
	return nil
}
