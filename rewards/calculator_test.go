package rewards

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/recyclink/recyclink/models"
)

func TestCustomerRewardBaseValues(t *testing.T) {
	// No bonuses while the user has prior items and no streak
	prior := models.UserStats{TotalItems: 5, CurrentStreak: 0}

	for _, c := range KnownCategories() {
		for _, count := range []int{1, 3, 9} {
			got := CustomerReward(c, count, prior)
			assert.Equal(t, BasePoints(c)*count, got, "category %s count %d", c, count)
		}
	}
}

func TestCustomerRewardFirstTimeBonus(t *testing.T) {
	got := CustomerReward(CategoryPlastic, 1, models.UserStats{TotalItems: 0})
	assert.Equal(t, 20, got)

	// Fires only when TotalItems was zero before the event
	got = CustomerReward(CategoryPlastic, 1, models.UserStats{TotalItems: 1})
	assert.Equal(t, 10, got)
}

func TestCustomerRewardBulkBonus(t *testing.T) {
	prior := models.UserStats{TotalItems: 5}

	assert.Equal(t, 150, CustomerReward(CategoryPlastic, 10, prior))
	assert.Equal(t, 90, CustomerReward(CategoryPlastic, 9, prior))
}

func TestCustomerRewardStreakBonus(t *testing.T) {
	assert.Equal(t, 12, CustomerReward(CategoryPlastic, 1, models.UserStats{TotalItems: 5, CurrentStreak: 7}))
	assert.Equal(t, 10, CustomerReward(CategoryPlastic, 1, models.UserStats{TotalItems: 5, CurrentStreak: 6}))
}

func TestCustomerRewardBonusesStackMultiplicatively(t *testing.T) {
	// 15 * 12 * 2.0 * 1.5 * 1.2 = 6480
	got := CustomerReward(CategoryMetal, 12, models.UserStats{TotalItems: 0, CurrentStreak: 7})
	assert.Equal(t, 6480, got)
}

func TestCustomerRewardUnknownCategoryDefaults(t *testing.T) {
	got := CustomerReward(Category("unknown-stuff"), 3, models.UserStats{TotalItems: 5})
	assert.Equal(t, 30, got)
}

func TestCustomerRewardRoundsHalfUp(t *testing.T) {
	prior := models.UserStats{TotalItems: 5, CurrentStreak: 7}

	// 8 * 1 * 1.2 = 9.6 -> 10
	assert.Equal(t, 10, CustomerReward(CategoryPaper, 1, prior))
	// 12 * 1 * 1.2 = 14.4 -> 14
	assert.Equal(t, 14, CustomerReward(CategoryGlass, 1, prior))
	// 25 * 1 * 1.2 = 30, exact
	assert.Equal(t, 30, CustomerReward(CategoryElectronic, 1, prior))
}

func TestAgentRewardBaseOnly(t *testing.T) {
	got := AgentReward(models.Pickup{}, models.UserStats{})
	assert.Equal(t, 50, got)
}

func TestAgentRewardSpeedBonus(t *testing.T) {
	accepted := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)

	fast := accepted.Add(30 * time.Minute)
	got := AgentReward(models.Pickup{AcceptedAt: &accepted, CompletedAt: &fast}, models.UserStats{})
	assert.Equal(t, 60, got)

	slow := accepted.Add(2 * time.Hour)
	got = AgentReward(models.Pickup{AcceptedAt: &accepted, CompletedAt: &slow}, models.UserStats{})
	assert.Equal(t, 50, got)

	// Exactly one hour still qualifies
	exact := accepted.Add(time.Hour)
	got = AgentReward(models.Pickup{AcceptedAt: &accepted, CompletedAt: &exact}, models.UserStats{})
	assert.Equal(t, 60, got)

	// No acceptance timestamp, no speed bonus
	got = AgentReward(models.Pickup{CompletedAt: &fast}, models.UserStats{})
	assert.Equal(t, 50, got)
}

func TestAgentRewardRatingBonus(t *testing.T) {
	five := 5
	four := 4

	assert.Equal(t, 70, AgentReward(models.Pickup{Rating: &five}, models.UserStats{}))
	assert.Equal(t, 50, AgentReward(models.Pickup{Rating: &four}, models.UserStats{}))
}

func TestAgentRewardFullStack(t *testing.T) {
	accepted := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	completed := accepted.Add(30 * time.Minute)
	five := 5

	pickup := models.Pickup{AcceptedAt: &accepted, CompletedAt: &completed, Rating: &five}

	// (50 + 10 + 20) * 1.1 = 88
	got := AgentReward(pickup, models.UserStats{TotalPickups: 60})
	assert.Equal(t, 88, got)

	// Below the performance threshold the multiplier stays off
	got = AgentReward(pickup, models.UserStats{TotalPickups: 49})
	assert.Equal(t, 80, got)
}

func TestCO2Saved(t *testing.T) {
	require.InDelta(t, 4.0, CO2Saved(CategoryPlastic, 2), 1e-9)
	require.InDelta(t, 1.75, CO2Saved(CategoryMetal, 0.5), 1e-9)
	require.InDelta(t, 3.0, CO2Saved(Category("mystery"), 3), 1e-9)
}
