package evaluator_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/codearena/judge-api/internal/evaluator"
	mockjudge "github.com/codearena/judge-api/internal/judge/mock"
	"github.com/codearena/judge-api/internal/types"
)

const source = "print(input())"
const languageID = 71

func strptr(s string) *string { return &s }
func i64ptr(i int64) *int64   { return &i }

func result(statusID int, elapsed string, memoryKB int64) *types.ExecutionResult {
	return &types.ExecutionResult{
		Token:  "token",
		Status: types.ExecutionStatus{ID: statusID},
		Time:   strptr(elapsed),
		Memory: i64ptr(memoryKB),
	}
}

func TestEvaluateAllCasesPass(t *testing.T) {
	ctx := context.Background()
	ctrl := gomock.NewController(t)
	executor := mockjudge.NewMockExecutor(ctrl)

	cases := []evaluator.TestCase{
		{Input: "1", ExpectedOutput: "1"},
		{Input: "2", ExpectedOutput: "2"},
		{Input: "3", ExpectedOutput: "3"},
	}

	executor.EXPECT().
		Submit(gomock.Any(), gomock.Any()).
		Return("token", nil).
		Times(3)
	gomock.InOrder(
		executor.EXPECT().
			AwaitCompletion(gomock.Any(), "token", gomock.Any(), gomock.Any()).
			Return(result(3, "0.1", 2048), nil),
		executor.EXPECT().
			AwaitCompletion(gomock.Any(), "token", gomock.Any(), gomock.Any()).
			Return(result(3, "0.25", 4096), nil),
		executor.EXPECT().
			AwaitCompletion(gomock.Any(), "token", gomock.Any(), gomock.Any()).
			Return(result(3, "0.05", 1024), nil),
	)

	e := evaluator.NewEvaluator(executor, 10, time.Millisecond)
	outcome, err := e.Evaluate(ctx, source, languageID, evaluator.Limits{}, cases)
	require.NoError(t, err, "failed to evaluate")

	assert.Equal(t, types.VerdictAccepted, outcome.Verdict)
	assert.Equal(t, 3, outcome.TestCasesPassed)
	assert.Equal(t, 3, outcome.TotalTestCases)
	assert.InDelta(t, 0.4, outcome.ElapsedSecs, 1e-9)
	assert.Equal(t, int64(4096), outcome.MemoryKB)
}

func TestEvaluateStopsAtFirstFailure(t *testing.T) {
	ctx := context.Background()
	ctrl := gomock.NewController(t)
	executor := mockjudge.NewMockExecutor(ctrl)

	cases := []evaluator.TestCase{
		{Input: "1", ExpectedOutput: "1"},
		{Input: "2", ExpectedOutput: "2"},
		{Input: "3", ExpectedOutput: "3"},
	}

	failed := result(4, "0.2", 1024)
	failed.Stderr = strptr("wrong output")

	executor.EXPECT().
		Submit(gomock.Any(), gomock.Any()).
		Return("token", nil).
		Times(2)
	gomock.InOrder(
		executor.EXPECT().
			AwaitCompletion(gomock.Any(), "token", gomock.Any(), gomock.Any()).
			Return(result(3, "0.1", 1024), nil),
		executor.EXPECT().
			AwaitCompletion(gomock.Any(), "token", gomock.Any(), gomock.Any()).
			Return(failed, nil),
	)

	e := evaluator.NewEvaluator(executor, 10, time.Millisecond)
	outcome, err := e.Evaluate(ctx, source, languageID, evaluator.Limits{}, cases)
	require.NoError(t, err, "failed to evaluate")

	assert.Equal(t, types.VerdictWrongAnswer, outcome.Verdict)
	assert.Equal(t, 1, outcome.TestCasesPassed)
	assert.Equal(t, 3, outcome.TotalTestCases)
	require.NotNil(t, outcome.Stderr)
	assert.Equal(t, "wrong output", *outcome.Stderr)
}

func TestEvaluatePassesLimitsThrough(t *testing.T) {
	ctx := context.Background()
	ctrl := gomock.NewController(t)
	executor := mockjudge.NewMockExecutor(ctrl)

	cpu := 1.5
	memory := int64(128)

	executor.EXPECT().
		Submit(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, req types.ExecutionRequest) (string, error) {
			assert.Equal(t, source, req.SourceCode)
			assert.Equal(t, languageID, req.LanguageID)
			require.NotNil(t, req.CPUTimeLimit)
			assert.InDelta(t, cpu, *req.CPUTimeLimit, 1e-9)
			require.NotNil(t, req.MemoryLimit)
			assert.Equal(t, memory, *req.MemoryLimit)
			require.NotNil(t, req.Stdin)
			assert.Equal(t, "in", *req.Stdin)
			require.NotNil(t, req.ExpectedOutput)
			assert.Equal(t, "out", *req.ExpectedOutput)
			return "token", nil
		})
	executor.EXPECT().
		AwaitCompletion(gomock.Any(), "token", uint64(10), time.Millisecond).
		Return(result(3, "0.1", 1024), nil)

	e := evaluator.NewEvaluator(executor, 10, time.Millisecond)
	outcome, err := e.Evaluate(
		ctx,
		source,
		languageID,
		evaluator.Limits{CPUTimeSecs: &cpu, MemoryMB: &memory},
		[]evaluator.TestCase{{Input: "in", ExpectedOutput: "out"}},
	)
	require.NoError(t, err, "failed to evaluate")

	assert.Equal(t, types.VerdictAccepted, outcome.Verdict)
}

func TestEvaluateZeroCases(t *testing.T) {
	ctx := context.Background()
	ctrl := gomock.NewController(t)
	executor := mockjudge.NewMockExecutor(ctrl)

	e := evaluator.NewEvaluator(executor, 10, time.Millisecond)
	outcome, err := e.Evaluate(ctx, source, languageID, evaluator.Limits{}, nil)
	require.NoError(t, err, "zero cases is not a caller error")

	assert.Equal(t, types.VerdictRuntimeError, outcome.Verdict)
	assert.Equal(t, 0, outcome.TestCasesPassed)
	assert.Equal(t, 0, outcome.TotalTestCases)
}

func TestScore(t *testing.T) {
	cases := []struct {
		name       string
		kind       types.ProblemKind
		difficulty types.Difficulty
		verdict    types.Verdict
		expected   int64
	}{
		{"accepted easy", types.ProblemKindScored, types.DifficultyEasy, types.VerdictAccepted, 20},
		{"accepted medium", types.ProblemKindScored, types.DifficultyMedium, types.VerdictAccepted, 30},
		{"accepted hard", types.ProblemKindScored, types.DifficultyHard, types.VerdictAccepted, 50},
		{"wrong answer", types.ProblemKindScored, types.DifficultyHard, types.VerdictWrongAnswer, 0},
		{"practice problem", types.ProblemKindPractice, types.DifficultyHard, types.VerdictAccepted, 0},
		{"unknown difficulty", types.ProblemKindScored, types.Difficulty("insane"), types.VerdictAccepted, 0},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			assert.Equal(t, c.expected, evaluator.Score(c.kind, c.difficulty, c.verdict))
		})
	}
}
