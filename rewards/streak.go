package rewards

import (
	"math"
	"sort"
	"time"
)

// Streak derives the consecutive-day completion streak from a customer's
// completed-pickup timestamps. Days are counted as distinct calendar dates in
// loc, newest first: a completion exactly one day before the last counted day
// extends the streak, another completion on an already-counted day is skipped,
// and any larger gap ends the walk. Empty input returns 0.
func Streak(completions []time.Time, loc *time.Location) int {
	if len(completions) == 0 {
		return 0
	}
	if loc == nil {
		loc = time.Local
	}

	sorted := make([]time.Time, len(completions))
	copy(sorted, completions)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].After(sorted[j]) })

	streak := 1
	current := dateOf(sorted[0], loc)

	for _, ts := range sorted[1:] {
		day := dateOf(ts, loc)
		diff := daysBetween(day, current)

		switch {
		case diff == 1:
			streak++
			current = day
		case diff > 1:
			return streak
		}
		// diff == 0: another completion on a counted day, keep walking
	}

	return streak
}

// dateOf truncates a timestamp to local midnight.
func dateOf(t time.Time, loc *time.Location) time.Time {
	y, m, d := t.In(loc).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, loc)
}

// daysBetween returns how many calendar days earlier is than later. Rounding
// absorbs the 23h/25h days around DST transitions.
func daysBetween(earlier, later time.Time) int {
	return int(math.Round(later.Sub(earlier).Hours() / 24))
}
