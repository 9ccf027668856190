package leaderboard_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/codearena/judge-api/internal/leaderboard"
)

const (
	scoreKey = "judgeapi-leaderboard-score"
	lockKey  = "judgeapi-leaderboard-rebuild-lock"
)

// recordedSolves is a canned SolveSource. before, when set, runs inside
// AcceptedSolves so tests can interleave with an in-flight rebuild.
type recordedSolves struct {
	solves []leaderboard.Solve
	before func()
}

func (r recordedSolves) AcceptedSolves(_ context.Context) ([]leaderboard.Solve, error) {
	if r.before != nil {
		r.before()
	}
	return r.solves, nil
}

func newTestRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	return mr, client
}

func TestRecordSolveCreditsEachProblemOnce(t *testing.T) {
	_, client := newTestRedis(t)
	store := leaderboard.NewStore(client, nil, nil, nil)
	ctx := context.Background()
	solvedAt := time.Date(2026, time.March, 1, 12, 0, 0, 0, time.UTC)

	require.NoError(t, store.RecordSolve(ctx, "user-1", "problem-1", 30, solvedAt))

	// A duplicate accept for the same problem must not credit again.
	require.NoError(t, store.RecordSolve(ctx, "user-1", "problem-1", 30, solvedAt.Add(time.Hour)))

	score, err := store.Score(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, int64(30), score)

	solved, err := store.SolvedCount(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, int64(1), solved)
}

func TestRecordSolveAccumulatesDistinctProblems(t *testing.T) {
	_, client := newTestRedis(t)
	store := leaderboard.NewStore(client, nil, nil, nil)
	ctx := context.Background()
	solvedAt := time.Date(2026, time.March, 1, 12, 0, 0, 0, time.UTC)

	require.NoError(t, store.RecordSolve(ctx, "user-1", "problem-1", 30, solvedAt))
	require.NoError(t, store.RecordSolve(ctx, "user-1", "problem-2", 50, solvedAt.Add(time.Minute)))

	score, err := store.Score(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, int64(80), score)

	solved, err := store.SolvedCount(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, int64(2), solved)
}

func TestRebuildRefusesWhileLocked(t *testing.T) {
	mr, client := newTestRedis(t)
	require.NoError(t, mr.Set(lockKey, "someone-else"))

	store := leaderboard.NewStore(client, nil, nil, recordedSolves{})

	err := store.Rebuild(context.Background())
	require.ErrorIs(t, err, leaderboard.ErrRebuildInProgress)

	held, err := mr.Get(lockKey)
	require.NoError(t, err)
	assert.Equal(t, "someone-else", held)
}

func TestRebuildReleasesOnlyItsOwnLock(t *testing.T) {
	mr, client := newTestRedis(t)

	src := recordedSolves{
		solves: []leaderboard.Solve{
			{UserID: "user-1", ProblemID: "problem-1", Score: 30, SolvedAt: time.Now()},
		},
		before: func() {
			// This rebuild outlives its lock TTL and a newer rebuild takes
			// the lock over. Finishing up must leave the new holder alone.
			mr.FastForward(6 * time.Minute)
			require.NoError(t, mr.Set(lockKey, "newer-rebuild"))
		},
	}
	store := leaderboard.NewStore(client, nil, nil, src)

	require.NoError(t, store.Rebuild(context.Background()))

	held, err := mr.Get(lockKey)
	require.NoError(t, err)
	assert.Equal(t, "newer-rebuild", held)
}

func TestRebuildRecomputesFromRecord(t *testing.T) {
	mr, client := newTestRedis(t)
	base := time.Date(2026, time.March, 1, 12, 0, 0, 0, time.UTC)

	src := recordedSolves{solves: []leaderboard.Solve{
		{UserID: "user-1", ProblemID: "problem-1", Score: 30, SolvedAt: base},
		{UserID: "user-1", ProblemID: "problem-2", Score: 50, SolvedAt: base.Add(time.Hour)},
		{UserID: "user-2", ProblemID: "problem-1", Score: 30, SolvedAt: base},
	}}
	store := leaderboard.NewStore(client, nil, nil, src)
	ctx := context.Background()

	// user-3 registered but never solved anything; the rebuild keeps the
	// listing at score zero.
	require.NoError(t, store.InitializeUser(ctx, "user-3"))

	// A stale credit the record replay does not support.
	require.NoError(t, store.RecordSolve(ctx, "user-2", "problem-9", 50, base))

	require.NoError(t, store.Rebuild(ctx))

	for user, want := range map[string]int64{"user-1": 80, "user-2": 30, "user-3": 0} {
		score, err := store.Score(ctx, user)
		require.NoError(t, err)
		assert.Equal(t, want, score, "score for %s", user)
	}

	solved, err := store.SolvedCount(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, int64(2), solved)

	// The swapped-in ranking must not inherit the staging set's expiry.
	assert.Equal(t, time.Duration(0), mr.TTL(scoreKey))

	assert.False(t, mr.Exists(lockKey))
}
