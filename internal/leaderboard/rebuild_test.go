package leaderboard_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/codearena/judge-api/internal/leaderboard"
)

var baseTime = time.Date(2026, time.March, 1, 12, 0, 0, 0, time.UTC)

func solve(user, problem string, score int64, offset time.Duration) leaderboard.Solve {
	return leaderboard.Solve{
		UserID:    user,
		ProblemID: problem,
		Score:     score,
		SolvedAt:  baseTime.Add(offset),
	}
}

func TestAggregateSolvesCountsEachProblemOnce(t *testing.T) {
	totals := leaderboard.AggregateSolves([]leaderboard.Solve{
		solve("alice", "p1", 20, 0),
		solve("alice", "p1", 20, time.Hour),
		solve("alice", "p1", 20, 2*time.Hour),
		solve("alice", "p2", 50, 30*time.Minute),
	})

	require.Contains(t, totals, "alice")
	assert.Equal(t, int64(70), totals["alice"].Score)
	assert.ElementsMatch(t, []string{"p1", "p2"}, totals["alice"].Problems)
}

func TestAggregateSolvesEarliestTimestampWins(t *testing.T) {
	totals := leaderboard.AggregateSolves([]leaderboard.Solve{
		solve("alice", "p1", 20, 3*time.Hour),
		solve("alice", "p1", 20, time.Hour),
		solve("alice", "p2", 30, 2*time.Hour),
	})

	// p1's earliest accept is at +1h, p2's at +2h, so the last solve is p2.
	require.Contains(t, totals, "alice")
	assert.Equal(t, baseTime.Add(2*time.Hour), totals["alice"].LastSolved)
}

func TestAggregateSolvesSeparatesUsers(t *testing.T) {
	totals := leaderboard.AggregateSolves([]leaderboard.Solve{
		solve("alice", "p1", 20, 0),
		solve("bob", "p1", 20, time.Minute),
		solve("bob", "p2", 30, 2*time.Minute),
	})

	require.Len(t, totals, 2)
	assert.Equal(t, int64(20), totals["alice"].Score)
	assert.Equal(t, int64(50), totals["bob"].Score)
}

func TestAggregateSolvesEmpty(t *testing.T) {
	assert.Empty(t, leaderboard.AggregateSolves(nil))
}

func TestDisplayName(t *testing.T) {
	cases := []struct {
		name     string
		profile  leaderboard.Profile
		expected string
	}{
		{"name set", leaderboard.Profile{DisplayName: "Alice", Email: "a@example.com"}, "Alice"},
		{"email fallback", leaderboard.Profile{Email: "a@example.com"}, "a@example.com"},
		{"nothing set", leaderboard.Profile{}, "Anonymous"},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			assert.Equal(t, c.expected, leaderboard.DisplayName(c.profile))
		})
	}
}
