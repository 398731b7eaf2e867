package rewards

import (
	"math"
	"time"

	"github.com/recyclink/recyclink/models"
)

// CustomerReward computes the points earned for a classification event.
// prior must hold the user's totals from before this event: the first-time
// bonus checks TotalItems as it was when the user classified, so it fires only
// once ever. Qualifying bonuses stack multiplicatively in a fixed order
// (first-time, bulk, streak); the result is rounded half-up.
func CustomerReward(category Category, itemCount int, prior models.UserStats) int {
	reward := float64(BasePoints(category) * itemCount)

	if prior.TotalItems == 0 {
		reward *= FirstTimeBonus
	}
	if itemCount >= bulkBonusThreshold {
		reward *= BulkBonus
	}
	if prior.CurrentStreak >= streakBonusThreshold {
		reward *= StreakBonus
	}

	return roundHalfUp(reward)
}

// AgentReward computes the points earned for completing a pickup. Speed and
// rating bonuses are additive on top of the base; the performance multiplier
// for seasoned agents applies last, to the whole sum.
func AgentReward(pickup models.Pickup, prior models.UserStats) int {
	reward := float64(AgentBasePickup)

	if pickup.AcceptedAt != nil && pickup.CompletedAt != nil {
		if pickup.CompletedAt.Sub(*pickup.AcceptedAt) <= time.Hour {
			reward += AgentSpeedBonus
		}
	}

	if pickup.Rating != nil && *pickup.Rating == 5 {
		reward += AgentRatingBonus
	}

	if prior.TotalPickups >= agentPerformanceThreshold {
		reward *= agentPerformanceMultiplier
	}

	return roundHalfUp(reward)
}

// CO2Saved converts a classified weight into kg of CO2 saved. No rounding;
// callers format for display.
func CO2Saved(category Category, weightKg float64) float64 {
	return CO2Factor(category) * weightKg
}

// roundHalfUp matches the original platform's rounding (0.5 rounds away from
// zero for the non-negative values produced here).
func roundHalfUp(v float64) int {
	return int(math.Floor(v + 0.5))
}
