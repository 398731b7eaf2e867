package rewards

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/recyclink/recyclink/models"
)

func leaderboardUsers() []models.User {
	return []models.User{
		{UserID: "USER-a", Name: "Asha", Role: models.RoleCustomer, Rewards: 30},
		{UserID: "USER-b", Name: "Badru", Role: models.RoleCustomer, Rewards: 90},
		{UserID: "USER-c", Name: "Chen", Role: models.RoleCustomer, Rewards: 10},
		{UserID: "USER-d", Name: "Dina", Role: models.RoleAgent, Rewards: 500},
	}
}

func TestLeaderboardSortsAndTruncates(t *testing.T) {
	entries := Leaderboard(leaderboardUsers(), models.RoleCustomer, 2)

	require.Len(t, entries, 2)
	assert.Equal(t, 1, entries[0].Rank)
	assert.Equal(t, "Badru", entries[0].Name)
	assert.Equal(t, 90, entries[0].Rewards)
	assert.Equal(t, 2, entries[1].Rank)
	assert.Equal(t, "Asha", entries[1].Name)
}

func TestLeaderboardFiltersByRole(t *testing.T) {
	entries := Leaderboard(leaderboardUsers(), models.RoleAgent, 10)

	require.Len(t, entries, 1)
	assert.Equal(t, "Dina", entries[0].Name)
	assert.Equal(t, 1, entries[0].Rank)
}

func TestLeaderboardZeroRewardsNeverOutrankPositive(t *testing.T) {
	users := []models.User{
		{UserID: "USER-idle", Name: "Idle", Role: models.RoleCustomer, Rewards: 0},
		{UserID: "USER-busy", Name: "Busy", Role: models.RoleCustomer, Rewards: 1},
	}

	entries := Leaderboard(users, models.RoleCustomer, 10)
	require.Len(t, entries, 2)
	assert.Equal(t, "Busy", entries[0].Name)
	assert.Equal(t, "Idle", entries[1].Name)
}

func TestLeaderboardTiesKeepInputOrder(t *testing.T) {
	users := []models.User{
		{UserID: "USER-1", Name: "First", Role: models.RoleCustomer, Rewards: 50},
		{UserID: "USER-2", Name: "Second", Role: models.RoleCustomer, Rewards: 50},
		{UserID: "USER-3", Name: "Third", Role: models.RoleCustomer, Rewards: 50},
	}

	entries := Leaderboard(users, models.RoleCustomer, 10)
	require.Len(t, entries, 3)
	assert.Equal(t, "First", entries[0].Name)
	assert.Equal(t, "Second", entries[1].Name)
	assert.Equal(t, "Third", entries[2].Name)
}

func TestLeaderboardDeterministic(t *testing.T) {
	users := leaderboardUsers()

	first := Leaderboard(users, models.RoleCustomer, 3)
	second := Leaderboard(users, models.RoleCustomer, 3)
	assert.Equal(t, first, second)
}

func TestLeaderboardDoesNotMutateInput(t *testing.T) {
	users := leaderboardUsers()
	Leaderboard(users, models.RoleCustomer, 2)

	assert.Equal(t, "USER-a", users[0].UserID)
	assert.Equal(t, "USER-b", users[1].UserID)
}
