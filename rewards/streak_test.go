package rewards

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func day(daysAgo int, hour int) time.Time {
	base := time.Date(2026, 8, 20, hour, 0, 0, 0, time.UTC)
	return base.AddDate(0, 0, -daysAgo)
}

func TestStreakEmpty(t *testing.T) {
	assert.Equal(t, 0, Streak(nil, time.UTC))
	assert.Equal(t, 0, Streak([]time.Time{}, time.UTC))
}

func TestStreakSingleCompletion(t *testing.T) {
	assert.Equal(t, 1, Streak([]time.Time{day(0, 10)}, time.UTC))
}

func TestStreakConsecutiveDays(t *testing.T) {
	// D, D-1, D-2, D-5: the 3-day gap ends the streak at 3
	completions := []time.Time{day(0, 10), day(1, 9), day(2, 18), day(5, 12)}
	assert.Equal(t, 3, Streak(completions, time.UTC))
}

func TestStreakUnsortedInput(t *testing.T) {
	completions := []time.Time{day(2, 18), day(0, 10), day(5, 12), day(1, 9)}
	assert.Equal(t, 3, Streak(completions, time.UTC))
}

func TestStreakSameDayCompletionsDoNotBreak(t *testing.T) {
	// Two completions on D-1 must not terminate the walk early
	completions := []time.Time{day(0, 10), day(1, 9), day(1, 15), day(2, 18)}
	assert.Equal(t, 3, Streak(completions, time.UTC))
}

func TestStreakSameDayCompletionsCountOnce(t *testing.T) {
	completions := []time.Time{day(0, 8), day(0, 12), day(0, 20)}
	assert.Equal(t, 1, Streak(completions, time.UTC))
}

func TestStreakGapResetsToMostRecentRun(t *testing.T) {
	// Older history beyond the gap is ignored even if itself consecutive
	completions := []time.Time{day(0, 10), day(3, 10), day(4, 10), day(5, 10)}
	assert.Equal(t, 1, Streak(completions, time.UTC))
}

func TestStreakCrossesMidnightBoundary(t *testing.T) {
	// 23:50 and 00:10 the next day are distinct calendar days one apart
	late := time.Date(2026, 8, 19, 23, 50, 0, 0, time.UTC)
	early := time.Date(2026, 8, 20, 0, 10, 0, 0, time.UTC)
	assert.Equal(t, 2, Streak([]time.Time{early, late}, time.UTC))
}
