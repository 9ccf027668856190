package leaderboard

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"
)

const rebuildLockTTL = 5 * time.Minute

// ErrRebuildInProgress is returned when another rebuild holds the lock.
// Rebuild is exclusive relative to itself; concurrent RecordSolve calls are
// tolerated at the cost of eventual rather than linearizable consistency.
var ErrRebuildInProgress = errors.New("leaderboard rebuild already in progress")

// releaseRebuildLock deletes the lock only while it still holds this
// rebuild's lock ID. A rebuild that outlives the lock TTL must not release
// the lock a newer rebuild has since taken.
var releaseRebuildLock = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// Solve is one distinct (user, problem) credit derived from the durable
// submission record.
type Solve struct {
	UserID    string
	ProblemID string
	Score     int64
	SolvedAt  time.Time
}

// UserTotals is the per-user aggregate a rebuild writes back to the cache.
type UserTotals struct {
	Score      int64
	Problems   []string
	LastSolved time.Time
}

// AggregateSolves folds solves into per-user totals. A (user, problem) pair
// counts once no matter how many rows mention it; the earliest timestamp wins
// per problem and the latest of those wins as the user's last solve.
func AggregateSolves(solves []Solve) map[string]*UserTotals {
	type key struct{ user, problem string }

	earliest := make(map[key]Solve)
	for _, solve := range solves {
		k := key{user: solve.UserID, problem: solve.ProblemID}
		prior, seen := earliest[k]
		if !seen || solve.SolvedAt.Before(prior.SolvedAt) {
			earliest[k] = solve
		}
	}

	totals := make(map[string]*UserTotals)
	for k, solve := range earliest {
		t, ok := totals[k.user]
		if !ok {
			t = &UserTotals{}
			totals[k.user] = t
		}

		t.Score += solve.Score
		t.Problems = append(t.Problems, solve.ProblemID)
		if solve.SolvedAt.After(t.LastSolved) {
			t.LastSolved = solve.SolvedAt
		}
	}

	return totals
}

// Rebuild recomputes the whole cache from the submission record store and
// swaps it in, overwriting every stale entry. Users listed before the rebuild
// stay listed: anyone without a surviving solve is re-seeded at score zero so
// registration-time entries are not dropped.
func (s *Store) Rebuild(ctx context.Context) error {
	ctx, span := tracer.Start(ctx, "Store.Rebuild")
	defer span.End()

	lockID := uuid.New().String()
	locked, err := s.rdb.SetNX(ctx, rebuildLockKey, lockID, rebuildLockTTL).Result()
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to take rebuild lock")
		return fmt.Errorf("failed to take rebuild lock: %w", err)
	}
	if !locked {
		span.RecordError(ErrRebuildInProgress)
		span.SetStatus(codes.Error, "rebuild lock held")
		return ErrRebuildInProgress
	}
	defer func() {
		relErr := releaseRebuildLock.Run(
			context.WithoutCancel(ctx), s.rdb, []string{rebuildLockKey}, lockID,
		).Err()
		if relErr != nil {
			span.RecordError(relErr)
		}
	}()

	span.AddEvent("took_rebuild_lock", trace.WithAttributes(attribute.String("lock.id", lockID)))

	// The record replay hits postgres and the member listing hits redis;
	// neither depends on the other.
	var solves []Solve
	var previous []string

	group, groupCtx := errgroup.WithContext(ctx)
	group.Go(func() error {
		var err error
		solves, err = s.solves.AcceptedSolves(groupCtx)
		if err != nil {
			return fmt.Errorf("failed to replay submission record: %w", err)
		}
		return nil
	})
	group.Go(func() error {
		var err error
		previous, err = s.rdb.ZRange(groupCtx, scoreKey, 0, -1).Result()
		if err != nil {
			return fmt.Errorf("failed to list current members: %w", err)
		}
		return nil
	})
	if err = group.Wait(); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to gather rebuild inputs")
		return err
	}

	totals := AggregateSolves(solves)

	span.SetAttributes(
		attribute.Int("solves.total", len(solves)),
		attribute.Int("users.total", len(totals)),
	)

	if len(totals) == 0 && len(previous) == 0 {
		if err = s.rdb.Del(ctx, scoreKey).Err(); err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "failed to clear empty ranking")
			return fmt.Errorf("failed to clear empty ranking: %w", err)
		}

		span.RecordError(nil)
		span.SetStatus(codes.Ok, "rebuilt empty leaderboard")
		return nil
	}

	stagingScore := scoreKey + "-staging-" + lockID

	pipe := s.rdb.Pipeline()
	for userID, t := range totals {
		pipe.ZAdd(ctx, stagingScore, redis.Z{Score: float64(t.Score), Member: userID})
	}
	for _, userID := range previous {
		pipe.ZAddNX(ctx, stagingScore, redis.Z{Score: 0, Member: userID})
	}
	// The lock TTL bounds a rebuild's lifetime, so it also bounds how long a
	// staging set abandoned by a failed swap may linger.
	pipe.Expire(ctx, stagingScore, rebuildLockTTL)
	if _, err = pipe.Exec(ctx); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to stage rebuilt ranking")
		return fmt.Errorf("failed to stage rebuilt ranking: %w", err)
	}

	// Swap the ranking in one rename, then overwrite every per-user key.
	// Readers between the rename and the overwrites can see a slightly stale
	// counter; they never see a merged score.
	swap := s.rdb.Pipeline()
	swap.Rename(ctx, stagingScore, scoreKey)
	// Rename carries the staging expiry along; the live ranking never expires.
	swap.Persist(ctx, scoreKey)
	for _, userID := range previous {
		if _, still := totals[userID]; !still {
			swap.Del(ctx, userKey(userID), solvedKey(userID))
		}
	}
	for userID, t := range totals {
		swap.Del(ctx, userKey(userID), solvedKey(userID))
		solved := make([]any, 0, len(t.Problems))
		for _, problemID := range t.Problems {
			solved = append(solved, problemID)
		}
		swap.SAdd(ctx, solvedKey(userID), solved...)
		swap.HSet(ctx, userKey(userID),
			userFieldSolvedCount, int64(len(t.Problems)),
			userFieldLastSolved, t.LastSolved.UTC().UnixMilli(),
		)
	}
	if _, err = swap.Exec(ctx); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to swap rebuilt ranking in")
		return fmt.Errorf("failed to swap rebuilt ranking in: %w", err)
	}

	span.RecordError(nil)
	span.SetStatus(codes.Ok, "rebuilt leaderboard")
	return nil
}
