package leaderboard

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/codearena/judge-api/internal/types"
)

const name = "github.com/codearena/judge-api/internal/leaderboard"

var tracer = otel.Tracer(name)

const (
	scoreKey       = "judgeapi-leaderboard-score"
	rebuildLockKey = "judgeapi-leaderboard-rebuild-lock"

	userFieldSolvedCount = "solved_count"
	userFieldLastSolved  = "last_solved_ms"
)

func userKey(userID string) string {
	return "judgeapi-leaderboard-user-" + userID
}

func solvedKey(userID string) string {
	return "judgeapi-leaderboard-solved-" + userID
}

type (
	// Profile is what the user collaborator knows about a user for rendering.
	Profile struct {
		DisplayName string
		Email       string
	}

	// ProfileResolver is the user/profile collaborator.
	ProfileResolver interface {
		Profiles(ctx context.Context, userIDs []string) (map[string]Profile, error)
	}

	// MembershipResolver is the communities collaborator.
	MembershipResolver interface {
		MemberIDs(ctx context.Context, groupID string) (map[string]struct{}, error)
	}

	// SolveSource replays the durable submission record for rebuilds. It
	// returns one Solve per distinct (user, problem) pair with at least one
	// accepted submission on a scored problem, carrying the earliest accepted
	// timestamp and that problem's score value.
	SolveSource interface {
		AcceptedSolves(ctx context.Context) ([]Solve, error)
	}
)

// Store is the ranked score cache. It is never authoritative; the submission
// record store is, and Rebuild reconciles the two.
type Store struct {
	rdb      redis.UniversalClient
	profiles ProfileResolver
	members  MembershipResolver
	solves   SolveSource
}

func NewStore(
	rdb redis.UniversalClient,
	profiles ProfileResolver,
	members MembershipResolver,
	solves SolveSource,
) *Store {
	return &Store{
		rdb:      rdb,
		profiles: profiles,
		members:  members,
		solves:   solves,
	}
}

// InitializeUser lists the user at score zero. Existing entries keep their
// score; the NX insert makes repeat calls harmless.
func (s *Store) InitializeUser(ctx context.Context, userID string) error {
	ctx, span := tracer.Start(ctx, "Store.InitializeUser", trace.WithAttributes(
		attribute.String("user.id", userID),
	))
	defer span.End()

	err := s.rdb.ZAddNX(ctx, scoreKey, redis.Z{Score: 0, Member: userID}).Err()
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to list user on leaderboard")
		return fmt.Errorf("failed to list user on leaderboard: %w", err)
	}

	span.RecordError(nil)
	span.SetStatus(codes.Ok, "listed user")
	return nil
}

// creditSolve flags the problem solved and applies the score credit in one
// atomic step. A half-applied credit would strand the solved flag, and the
// flag is exactly what makes retries no-ops, so flag and credit must land
// together or not at all.
// KEYS: solved set, score zset, user hash. ARGV: problem, delta, user, ms.
var creditSolve = redis.NewScript(`
local added = redis.call("SADD", KEYS[1], ARGV[1])
if added == 0 then
	return 0
end
redis.call("ZINCRBY", KEYS[2], ARGV[2], ARGV[3])
redis.call("HINCRBY", KEYS[3], "solved_count", 1)
redis.call("HSET", KEYS[3], "last_solved_ms", ARGV[4])
return 1
`)

// RecordSolve credits a first solve of problemID to userID. The per problem
// solved flag makes this a no-op for every accepted submission after the
// first, however the duplicates arrive.
func (s *Store) RecordSolve(
	ctx context.Context,
	userID string,
	problemID string,
	scoreDelta int64,
	solvedAt time.Time,
) error {
	ctx, span := tracer.Start(ctx, "Store.RecordSolve", trace.WithAttributes(
		attribute.String("user.id", userID),
		attribute.String("problem.id", problemID),
		attribute.Int64("score.delta", scoreDelta),
	))
	defer span.End()

	added, err := creditSolve.Run(ctx, s.rdb,
		[]string{solvedKey(userID), scoreKey, userKey(userID)},
		problemID, scoreDelta, userID, solvedAt.UTC().UnixMilli(),
	).Int64()
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to credit solve")
		return fmt.Errorf("failed to credit solve: %w", err)
	}

	if added == 0 {
		span.AddEvent("already_solved")
		span.RecordError(nil)
		span.SetStatus(codes.Ok, "problem already credited")
		return nil
	}

	span.RecordError(nil)
	span.SetStatus(codes.Ok, "credited solve")
	return nil
}

// Score returns the cached score, zero for unlisted users.
func (s *Store) Score(ctx context.Context, userID string) (int64, error) {
	score, err := s.rdb.ZScore(ctx, scoreKey, userID).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return 0, nil
		}
		return 0, fmt.Errorf("failed to read score: %w", err)
	}

	return int64(score), nil
}

// SolvedCount returns the number of distinct problems credited to the user.
func (s *Store) SolvedCount(ctx context.Context, userID string) (int64, error) {
	raw, err := s.rdb.HGet(ctx, userKey(userID), userFieldSolvedCount).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return 0, nil
		}
		return 0, fmt.Errorf("failed to read solved count: %w", err)
	}

	count, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("failed to parse solved count: %w", err)
	}

	return count, nil
}

// Rank returns the 1-based position by descending score, 0 for unlisted
// users. The sorted set ranks ascending, so the descending rank is total
// members minus the native rank.
func (s *Store) Rank(ctx context.Context, userID string) (int64, error) {
	ctx, span := tracer.Start(ctx, "Store.Rank", trace.WithAttributes(
		attribute.String("user.id", userID),
	))
	defer span.End()

	nativeRank, err := s.rdb.ZRank(ctx, scoreKey, userID).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			span.RecordError(nil)
			span.SetStatus(codes.Ok, "user not listed")
			return 0, nil
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to read rank")
		return 0, fmt.Errorf("failed to read rank: %w", err)
	}

	total, err := s.rdb.ZCard(ctx, scoreKey).Result()
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to count leaderboard members")
		return 0, fmt.Errorf("failed to count leaderboard members: %w", err)
	}

	span.RecordError(nil)
	span.SetStatus(codes.Ok, "read rank")
	return total - nativeRank, nil
}

// Standing bundles score, solved count and rank for one user.
func (s *Store) Standing(ctx context.Context, userID string) (*types.UserStanding, error) {
	ctx, span := tracer.Start(ctx, "Store.Standing", trace.WithAttributes(
		attribute.String("user.id", userID),
	))
	defer span.End()

	score, err := s.Score(ctx, userID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to read score")
		return nil, err
	}

	solved, err := s.SolvedCount(ctx, userID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to read solved count")
		return nil, err
	}

	rank, err := s.Rank(ctx, userID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to read rank")
		return nil, err
	}

	span.RecordError(nil)
	span.SetStatus(codes.Ok, "read standing")
	return &types.UserStanding{
		UserID:      userID,
		Score:       score,
		SolvedCount: solved,
		Rank:        rank,
	}, nil
}

// Top returns one page of the global ranking, descending by score.
func (s *Store) Top(ctx context.Context, limit, offset int64) ([]types.LeaderboardEntry, error) {
	ctx, span := tracer.Start(ctx, "Store.Top", trace.WithAttributes(
		attribute.Int64("limit", limit),
		attribute.Int64("offset", offset),
	))
	defer span.End()

	if limit <= 0 {
		span.RecordError(nil)
		span.SetStatus(codes.Ok, "empty page")
		return []types.LeaderboardEntry{}, nil
	}

	members, err := s.rdb.ZRevRangeWithScores(ctx, scoreKey, offset, offset+limit-1).Result()
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to read ranking page")
		return nil, fmt.Errorf("failed to read ranking page: %w", err)
	}

	entries, err := s.assembleEntries(ctx, members, offset)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to assemble entries")
		return nil, err
	}

	span.RecordError(nil)
	span.SetStatus(codes.Ok, "read ranking page")
	return entries, nil
}

// GroupTop filters the full descending ranking to members of groupID,
// preserving relative global order, then paginates. Rank numbers are the
// position within the filtered list plus offset.
func (s *Store) GroupTop(
	ctx context.Context,
	groupID string,
	limit, offset int64,
) ([]types.LeaderboardEntry, error) {
	ctx, span := tracer.Start(ctx, "Store.GroupTop", trace.WithAttributes(
		attribute.String("group.id", groupID),
		attribute.Int64("limit", limit),
		attribute.Int64("offset", offset),
	))
	defer span.End()

	if limit <= 0 {
		span.RecordError(nil)
		span.SetStatus(codes.Ok, "empty page")
		return []types.LeaderboardEntry{}, nil
	}

	memberIDs, err := s.members.MemberIDs(ctx, groupID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to resolve group members")
		return nil, fmt.Errorf("failed to resolve group members: %w", err)
	}

	ranked, err := s.rdb.ZRevRangeWithScores(ctx, scoreKey, 0, -1).Result()
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to read ranking")
		return nil, fmt.Errorf("failed to read ranking: %w", err)
	}

	filtered := make([]redis.Z, 0, len(memberIDs))
	for _, z := range ranked {
		memberID, ok := z.Member.(string)
		if !ok {
			continue
		}
		if _, member := memberIDs[memberID]; member {
			filtered = append(filtered, z)
		}
	}

	if offset >= int64(len(filtered)) {
		span.RecordError(nil)
		span.SetStatus(codes.Ok, "page past end of filtered ranking")
		return []types.LeaderboardEntry{}, nil
	}

	end := offset + limit
	if end > int64(len(filtered)) {
		end = int64(len(filtered))
	}

	entries, err := s.assembleEntries(ctx, filtered[offset:end], offset)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to assemble entries")
		return nil, err
	}

	span.RecordError(nil)
	span.SetStatus(codes.Ok, "read group ranking page")
	return entries, nil
}

func (s *Store) assembleEntries(
	ctx context.Context,
	members []redis.Z,
	offset int64,
) ([]types.LeaderboardEntry, error) {
	userIDs := make([]string, 0, len(members))
	for _, z := range members {
		if memberID, ok := z.Member.(string); ok {
			userIDs = append(userIDs, memberID)
		}
	}

	profiles, err := s.profiles.Profiles(ctx, userIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve profiles: %w", err)
	}

	pipe := s.rdb.Pipeline()
	counters := make([]*redis.MapStringStringCmd, len(userIDs))
	for i, userID := range userIDs {
		counters[i] = pipe.HGetAll(ctx, userKey(userID))
	}
	if _, err = pipe.Exec(ctx); err != nil && !errors.Is(err, redis.Nil) {
		return nil, fmt.Errorf("failed to read per-user counters: %w", err)
	}

	entries := make([]types.LeaderboardEntry, 0, len(userIDs))
	for i, userID := range userIDs {
		entry := types.LeaderboardEntry{
			Rank:        offset + int64(i) + 1,
			UserID:      userID,
			DisplayName: DisplayName(profiles[userID]),
			Score:       int64(members[i].Score),
		}

		fields := counters[i].Val()
		if raw, ok := fields[userFieldSolvedCount]; ok {
			if count, parseErr := strconv.ParseInt(raw, 10, 64); parseErr == nil {
				entry.SolvedCount = count
			}
		}
		if raw, ok := fields[userFieldLastSolved]; ok {
			if ms, parseErr := strconv.ParseInt(raw, 10, 64); parseErr == nil {
				entry.LastSolved = types.UnixMilli(ms)
			}
		}

		entries = append(entries, entry)
	}

	return entries, nil
}

// DisplayName picks what to render for a profile: name, then email, then
// "Anonymous".
func DisplayName(p Profile) string {
	if p.DisplayName != "" {
		return p.DisplayName
	}
	if p.Email != "" {
		return p.Email
	}
	return "Anonymous"
}
