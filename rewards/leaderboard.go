package rewards

import (
	"sort"

	"github.com/recyclink/recyclink/models"
)

// LeaderboardEntry is one ranked row of a leaderboard.
type LeaderboardEntry struct {
	Rank    int              `json:"rank"`
	UserID  string           `json:"user_id"`
	Name    string           `json:"name"`
	Rewards int              `json:"rewards"`
	Stats   models.UserStats `json:"stats"`
}

// Leaderboard ranks users of the given role by accumulated points, descending.
// The sort is stable so ties keep their input order, making the output
// deterministic for unchanged inputs. Ranks are 1-based positions in the
// truncated result.
func Leaderboard(users []models.User, role string, limit int) []LeaderboardEntry {
	filtered := make([]models.User, 0, len(users))
	for _, u := range users {
		if u.Role == role {
			filtered = append(filtered, u)
		}
	}

	sort.SliceStable(filtered, func(i, j int) bool {
		return filtered[i].Rewards > filtered[j].Rewards
	})

	if limit > 0 && len(filtered) > limit {
		filtered = filtered[:limit]
	}

	entries := make([]LeaderboardEntry, len(filtered))
	for i, u := range filtered {
		entries[i] = LeaderboardEntry{
			Rank:    i + 1,
			UserID:  u.UserID,
			Name:    u.Name,
			Rewards: u.Rewards,
			Stats:   u.Stats(),
		}
	}
	return entries
}
