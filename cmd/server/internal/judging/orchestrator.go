package judging

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/codearena/judge-api/cmd/server/internal/models"
	"github.com/codearena/judge-api/cmd/server/internal/taskrunner"
	"github.com/codearena/judge-api/internal/audit"
	"github.com/codearena/judge-api/internal/evaluator"
	"github.com/codearena/judge-api/internal/leaderboard"
	"github.com/codearena/judge-api/internal/logger"
	"github.com/codearena/judge-api/internal/types"
)

// Options qualify one judging run.
type Options struct {
	// Rejudge marks a re-entry of an already-terminal submission.
	Rejudge bool
	// PriorScore is the score the submission contributed before the rejudge
	// reset it. Zero for fresh submissions.
	PriorScore int64
}

// Orchestrator owns the submission state machine: pending -> running ->
// terminal verdict, with pending re-reachable only through rejudge. Every
// path out of a judging task leaves the submission terminal.
type Orchestrator struct {
	db     *gorm.DB
	eval   CaseEvaluator
	ledger Ledger
	runner *taskrunner.Client
}

func NewOrchestrator(
	db *gorm.DB,
	eval CaseEvaluator,
	ledger Ledger,
	runner *taskrunner.Client,
) *Orchestrator {
	return &Orchestrator{
		db:     db,
		eval:   eval,
		ledger: ledger,
		runner: runner,
	}
}

// Enqueue hands a judging run to the task runner and returns immediately.
// Callers observe progress by re-fetching the submission record.
func (o *Orchestrator) Enqueue(ctx context.Context, submissionID uuid.UUID, opts Options) {
	o.runner.Run(ctx, func(ctx context.Context) {
		o.judge(ctx, submissionID, opts)
	})
}

// judge is the supervising error boundary. Whatever happens inside, the
// submission does not stay stuck in pending or running.
func (o *Orchestrator) judge(ctx context.Context, submissionID uuid.UUID, opts Options) {
	ctx, span := tracer.Start(ctx, "Orchestrator.judge", trace.WithAttributes(
		attribute.String("submission.id", submissionID.String()),
		attribute.Bool("rejudge", opts.Rejudge),
	))
	defer span.End()

	defer func() {
		if r := recover(); r != nil {
			err := fmt.Errorf("panic while judging submission: %v", r)
			span.RecordError(err)
			span.SetStatus(codes.Error, "panic while judging submission")
			logger.Logger.ErrorContext(ctx, "panic while judging submission",
				"submissionID", submissionID, "panic", r)
			o.forceTerminal(ctx, submissionID)
		}
	}()

	if err := o.judgeSubmission(ctx, submissionID, opts); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to judge submission")
		logger.Logger.ErrorContext(ctx, "failed to judge submission",
			"submissionID", submissionID, "error", err)
		o.forceTerminal(ctx, submissionID)
		return
	}

	span.RecordError(nil)
	span.SetStatus(codes.Ok, "judged submission")
}

func (o *Orchestrator) judgeSubmission(
	ctx context.Context,
	submissionID uuid.UUID,
	opts Options,
) error {
	ctx, span := tracer.Start(ctx, "Orchestrator.judgeSubmission")
	defer span.End()

	db := o.db.WithContext(ctx)

	submission, err := models.ByID[models.Submission](ctx, db, submissionID)
	if err != nil {
		return fmt.Errorf("failed to load submission: %w", err)
	}

	if submission.IsQuiz() {
		return errors.New("quiz submissions are judged synchronously, not enqueued")
	}
	if submission.ProblemID == nil {
		return errors.New("coding submission has no target problem")
	}

	problem, err := models.ByID[models.Problem](ctx, db, *submission.ProblemID)
	if err != nil {
		return fmt.Errorf("failed to load problem: %w", err)
	}

	cases, err := models.JudgedTestCases(ctx, db, problem.ID)
	if err != nil {
		return fmt.Errorf("failed to load test cases: %w", err)
	}

	span.SetAttributes(
		attribute.String("problem.id", problem.ID.String()),
		attribute.Int("cases.total", len(cases)),
	)

	if err = o.transition(ctx, submissionID, types.VerdictRunning); err != nil {
		return fmt.Errorf("failed to mark submission running: %w", err)
	}

	languageID := 0
	if submission.LanguageID.Valid {
		languageID = submission.LanguageID.V
	}

	evalCases := make([]evaluator.TestCase, 0, len(cases))
	for _, c := range cases {
		evalCases = append(evalCases, evaluator.TestCase{
			Input:          c.Input,
			ExpectedOutput: c.ExpectedOutput,
		})
	}

	outcome, err := o.eval.Evaluate(
		ctx,
		submission.SourceCode,
		languageID,
		evaluator.Limits{
			CPUTimeSecs: models.PtrFromNull(problem.CPUTimeLimitSecs),
			MemoryMB:    models.PtrFromNull(problem.MemoryLimitMB),
		},
		evalCases,
	)
	if err != nil {
		return fmt.Errorf("failed to evaluate submission: %w", err)
	}

	score := evaluator.Score(problem.Kind, problem.Difficulty, outcome.Verdict)
	completedAt := time.Now().UTC()

	err = db.Model(&models.Submission{}).Where("id = ?", submissionID).Updates(map[string]any{
		"status":            outcome.Verdict,
		"test_cases_passed": outcome.TestCasesPassed,
		"total_test_cases":  outcome.TotalTestCases,
		"elapsed_secs":      outcome.ElapsedSecs,
		"memory_kb":         outcome.MemoryKB,
		"score":             score,
		"stderr":            models.NewNull(outcome.Stderr),
		"compile_output":    models.NewNull(outcome.CompileOutput),
		"completed_at":      datatypes.NewNull(completedAt),
	}).Error
	if err != nil {
		return fmt.Errorf("failed to persist verdict: %w", err)
	}

	userID := submission.UserID.String()
	subID := submissionID.String()
	auditCtx := audit.Context{UserID: &userID, SubmissionID: &subID}
	audit.LogSubmissionVerdict(
		auditCtx,
		outcome.Verdict,
		outcome.TestCasesPassed,
		outcome.TotalTestCases,
		score,
	)

	action := DecideLedgerAction(
		opts.Rejudge,
		problem.Scored(),
		outcome.Verdict,
		opts.PriorScore,
		score,
	)

	switch action {
	case LedgerActionRecordSolve:
		err = o.ledger.RecordSolve(ctx, userID, problem.ID.String(), score, completedAt)
		if err != nil {
			// The verdict is already durable and the credit applies all or
			// nothing, so a duplicate accept or a rebuild can still land it.
			span.RecordError(err)
			logger.Logger.ErrorContext(ctx, "failed to credit solve",
				"submissionID", submissionID, "error", err)
			return nil
		}
		audit.LogLeaderboardCredited(auditCtx)
	case LedgerActionRebuild:
		err = o.ledger.Rebuild(ctx)
		if err != nil {
			if errors.Is(err, leaderboard.ErrRebuildInProgress) {
				span.AddEvent("rebuild_already_running")
				return nil
			}
			span.RecordError(err)
			logger.Logger.ErrorContext(ctx, "failed to rebuild leaderboard after rejudge",
				"submissionID", submissionID, "error", err)
			return nil
		}
		audit.LogLeaderboardRebuilt(auditCtx, "rejudge")
	case LedgerActionNone:
	}

	span.RecordError(nil)
	span.SetStatus(codes.Ok, "judged submission")
	return nil
}

func (o *Orchestrator) transition(
	ctx context.Context,
	submissionID uuid.UUID,
	status types.Verdict,
) error {
	db := o.db.WithContext(ctx)
	return db.Model(&models.Submission{}).
		Where("id = ?", submissionID).
		Update("status", status).Error
}

// forceTerminal pushes a submission stuck in pending or running to
// runtime_error. Judge infrastructure failure and a genuinely crashing
// program surface the same way; the submission record never stays
// non-terminal.
func (o *Orchestrator) forceTerminal(ctx context.Context, submissionID uuid.UUID) {
	ctx, span := tracer.Start(ctx, "Orchestrator.forceTerminal", trace.WithAttributes(
		attribute.String("submission.id", submissionID.String()),
	))
	defer span.End()

	db := o.db.WithContext(ctx)

	err := db.Model(&models.Submission{}).
		Where("id = ? AND status IN ?", submissionID,
			[]types.Verdict{types.VerdictPending, types.VerdictRunning}).
		Updates(map[string]any{
			"status":       types.VerdictRuntimeError,
			"completed_at": datatypes.NewNull(time.Now().UTC()),
		}).Error
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to force submission terminal")
		logger.Logger.ErrorContext(ctx, "failed to force submission terminal",
			"submissionID", submissionID, "error", err)
		return
	}

	span.RecordError(nil)
	span.SetStatus(codes.Ok, "forced submission terminal")
}
