package judging

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/datatypes"

	"github.com/codearena/judge-api/cmd/server/internal/models"
	"github.com/codearena/judge-api/internal/audit"
	"github.com/codearena/judge-api/internal/types"
)

// JudgeQuiz grades a quiz submission in place. Quiz answers never touch the
// execution judge and never score, so the whole run is a single comparison and
// one update; the caller gets the terminal record back synchronously.
func (o *Orchestrator) JudgeQuiz(
	ctx context.Context,
	submission *models.Submission,
) (*models.Submission, error) {
	ctx, span := tracer.Start(ctx, "Orchestrator.JudgeQuiz", trace.WithAttributes(
		attribute.String("submission.id", submission.ID.String()),
	))
	defer span.End()

	if !submission.IsQuiz() {
		err := errors.New("submission does not target a quiz question")
		span.RecordError(err)
		span.SetStatus(codes.Error, "submission does not target a quiz question")
		return nil, err
	}

	db := o.db.WithContext(ctx)

	question, err := models.ByID[models.QuizQuestion](ctx, db, *submission.QuizQuestionID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to load quiz question")
		return nil, fmt.Errorf("failed to load quiz question: %w", err)
	}

	verdict := types.VerdictWrongAnswer
	passed := 0
	if submission.SelectedOption.Valid && submission.SelectedOption.V == question.CorrectOption {
		verdict = types.VerdictAccepted
		passed = 1
	}

	completedAt := time.Now().UTC()
	err = db.Model(&models.Submission{}).Where("id = ?", submission.ID).Updates(map[string]any{
		"status":            verdict,
		"test_cases_passed": passed,
		"total_test_cases":  1,
		"completed_at":      datatypes.NewNull(completedAt),
	}).Error
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to persist quiz verdict")
		return nil, fmt.Errorf("failed to persist quiz verdict: %w", err)
	}

	submission.Status = verdict
	submission.TestCasesPassed = passed
	submission.TotalTestCases = 1
	submission.CompletedAt = datatypes.NewNull(completedAt)

	userID := submission.UserID.String()
	subID := submission.ID.String()
	audit.LogSubmissionVerdict(
		audit.Context{UserID: &userID, SubmissionID: &subID},
		verdict, passed, 1, 0,
	)

	span.SetAttributes(attribute.String("verdict", string(verdict)))
	span.RecordError(nil)
	span.SetStatus(codes.Ok, "judged quiz submission")
	return submission, nil
}
