package models

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"gorm.io/gorm"

	"github.com/codearena/judge-api/internal/leaderboard"
	"github.com/codearena/judge-api/internal/types"
)

// Gorm-backed implementations of the leaderboard's collaborator interfaces.

var _ leaderboard.ProfileResolver = (*ProfileResolver)(nil)

type ProfileResolver struct {
	db *gorm.DB
}

func NewProfileResolver(db *gorm.DB) *ProfileResolver {
	return &ProfileResolver{db: db}
}

func (r *ProfileResolver) Profiles(
	ctx context.Context,
	userIDs []string,
) (map[string]leaderboard.Profile, error) {
	ctx, span := tracer.Start(ctx, "ProfileResolver.Profiles")
	defer span.End()

	span.SetAttributes(attribute.Int("users.total", len(userIDs)))

	profiles := make(map[string]leaderboard.Profile, len(userIDs))
	if len(userIDs) == 0 {
		return profiles, nil
	}

	db := r.db.WithContext(ctx)

	var users []User
	err := db.Where("id IN ?", userIDs).Find(&users).Error
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to fetch user profiles")
		return nil, err
	}

	for _, user := range users {
		profiles[user.ID.String()] = leaderboard.Profile{
			DisplayName: user.DisplayName,
			Email:       user.Email,
		}
	}

	span.RecordError(nil)
	span.SetStatus(codes.Ok, "fetched user profiles")
	return profiles, nil
}

var _ leaderboard.MembershipResolver = (*MembershipResolver)(nil)

type MembershipResolver struct {
	db *gorm.DB
}

func NewMembershipResolver(db *gorm.DB) *MembershipResolver {
	return &MembershipResolver{db: db}
}

func (r *MembershipResolver) MemberIDs(
	ctx context.Context,
	groupID string,
) (map[string]struct{}, error) {
	ctx, span := tracer.Start(ctx, "MembershipResolver.MemberIDs")
	defer span.End()

	span.SetAttributes(attribute.String("group.id", groupID))

	db := r.db.WithContext(ctx)

	var members []GroupMember
	err := db.Where("group_id = ?", groupID).Find(&members).Error
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to fetch group members")
		return nil, err
	}

	memberIDs := make(map[string]struct{}, len(members))
	for _, member := range members {
		memberIDs[member.UserID.String()] = struct{}{}
	}

	span.SetAttributes(attribute.Int("members.total", len(memberIDs)))
	span.RecordError(nil)
	span.SetStatus(codes.Ok, "fetched group members")
	return memberIDs, nil
}

var _ leaderboard.SolveSource = (*SolveSource)(nil)

// SolveSource replays accepted submissions on scored problems for leaderboard
// rebuilds.
type SolveSource struct {
	db *gorm.DB
}

func NewSolveSource(db *gorm.DB) *SolveSource {
	return &SolveSource{db: db}
}

func (s *SolveSource) AcceptedSolves(ctx context.Context) ([]leaderboard.Solve, error) {
	ctx, span := tracer.Start(ctx, "SolveSource.AcceptedSolves")
	defer span.End()

	db := s.db.WithContext(ctx)

	var rows []struct {
		UserID     string
		ProblemID  string
		Difficulty types.Difficulty
		SolvedAt   time.Time
	}
	err := db.Model(&Submission{}).
		Select(
			"submission.user_id AS user_id",
			"submission.problem_id AS problem_id",
			"problem.difficulty AS difficulty",
			"MIN(submission.completed_at) AS solved_at",
		).
		Joins("JOIN problem ON problem.id = submission.problem_id").
		Where("submission.status = ? AND problem.kind = ?",
			types.VerdictAccepted, types.ProblemKindScored).
		Group("submission.user_id, submission.problem_id, problem.difficulty").
		Scan(&rows).Error
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to replay accepted submissions")
		return nil, err
	}

	solves := make([]leaderboard.Solve, 0, len(rows))
	for _, row := range rows {
		solves = append(solves, leaderboard.Solve{
			UserID:    row.UserID,
			ProblemID: row.ProblemID,
			Score:     types.ScoreForDifficulty(row.Difficulty),
			SolvedAt:  row.SolvedAt,
		})
	}

	span.SetAttributes(attribute.Int("solves.total", len(solves)))
	span.RecordError(nil)
	span.SetStatus(codes.Ok, "replayed accepted submissions")
	return solves, nil
}
