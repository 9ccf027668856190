package evaluator

import (
	"context"
	"strconv"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/codearena/judge-api/internal/judge"
	"github.com/codearena/judge-api/internal/types"
)

const name = "github.com/codearena/judge-api/internal/evaluator"

var tracer = otel.Tracer(name)

type (
	// TestCase is one judged case in its persisted order.
	TestCase struct {
		Input          string
		ExpectedOutput string
	}

	// Limits are the problem's declared execution limits. CPUTime is in
	// seconds, Memory in megabytes; nil means the judge's default applies.
	Limits struct {
		CPUTimeSecs *float64
		MemoryMB    *int64
	}

	// Outcome is the final result of judging one submission across its test
	// cases.
	Outcome struct {
		Verdict         types.Verdict
		TestCasesPassed int
		TotalTestCases  int
		ElapsedSecs     float64
		MemoryKB        int64
		Stderr          *string
		CompileOutput   *string
	}
)

// Evaluator drives one submission through its test cases, one judge run per
// case, strictly in order.
type Evaluator struct {
	executor     judge.Executor
	maxAttempts  uint64
	pollInterval time.Duration
}

func NewEvaluator(
	executor judge.Executor,
	maxAttempts uint64,
	pollInterval time.Duration,
) *Evaluator {
	return &Evaluator{
		executor:     executor,
		maxAttempts:  maxAttempts,
		pollInterval: pollInterval,
	}
}

// Evaluate judges source against cases sequentially, stopping at the first
// case whose verdict is not accepted. Zero cases is a data integrity problem,
// not a user error, and yields runtime_error. Judge transport failures and
// poll budget exhaustion are returned as errors; the caller owns forcing the
// submission to a terminal state.
func (e *Evaluator) Evaluate(
	ctx context.Context,
	source string,
	languageID int,
	limits Limits,
	cases []TestCase,
) (*Outcome, error) {
	ctx, span := tracer.Start(ctx, "Evaluator.Evaluate", trace.WithAttributes(
		attribute.Int("language.id", languageID),
		attribute.Int("cases.total", len(cases)),
	))
	defer span.End()

	outcome := &Outcome{
		Verdict:        types.VerdictAccepted,
		TotalTestCases: len(cases),
	}

	if len(cases) == 0 {
		outcome.Verdict = types.VerdictRuntimeError
		span.RecordError(nil)
		span.SetStatus(codes.Error, "problem has no judged test cases")
		return outcome, nil
	}

	for i, testCase := range cases {
		result, err := e.judgeCase(ctx, source, languageID, limits, testCase)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "failed to judge test case")
			return nil, err
		}

		if result.Time != nil {
			if elapsed, parseErr := strconv.ParseFloat(*result.Time, 64); parseErr == nil {
				outcome.ElapsedSecs += elapsed
			}
		}
		if result.Memory != nil && *result.Memory > outcome.MemoryKB {
			outcome.MemoryKB = *result.Memory
		}

		verdict := judge.VerdictFromStatus(result.Status.ID)
		if verdict != types.VerdictAccepted {
			outcome.Verdict = verdict
			outcome.TestCasesPassed = i
			outcome.Stderr = result.Stderr
			outcome.CompileOutput = result.CompileOutput

			span.SetAttributes(
				attribute.String("verdict", string(verdict)),
				attribute.Int("cases.passed", i),
			)
			span.RecordError(nil)
			span.SetStatus(codes.Ok, "early exit on failed test case")
			return outcome, nil
		}
	}

	outcome.TestCasesPassed = len(cases)

	span.SetAttributes(
		attribute.String("verdict", string(outcome.Verdict)),
		attribute.Int("cases.passed", outcome.TestCasesPassed),
	)
	span.RecordError(nil)
	span.SetStatus(codes.Ok, "all test cases passed")
	return outcome, nil
}

func (e *Evaluator) judgeCase(
	ctx context.Context,
	source string,
	languageID int,
	limits Limits,
	testCase TestCase,
) (*types.ExecutionResult, error) {
	stdin := testCase.Input
	expected := testCase.ExpectedOutput

	token, err := e.executor.Submit(ctx, types.ExecutionRequest{
		SourceCode:     source,
		LanguageID:     languageID,
		Stdin:          &stdin,
		ExpectedOutput: &expected,
		CPUTimeLimit:   limits.CPUTimeSecs,
		MemoryLimit:    limits.MemoryMB,
	})
	if err != nil {
		return nil, err
	}

	return e.executor.AwaitCompletion(ctx, token, e.maxAttempts, e.pollInterval)
}

// Score awards the difficulty table value only to accepted verdicts on scored
// problems. Practice problems and non-accepted verdicts score zero.
func Score(kind types.ProblemKind, difficulty types.Difficulty, verdict types.Verdict) int64 {
	if verdict != types.VerdictAccepted || kind != types.ProblemKindScored {
		return 0
	}

	return types.ScoreForDifficulty(difficulty)
}
