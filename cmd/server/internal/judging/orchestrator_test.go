package judging_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/codearena/judge-api/cmd/server/internal/judging"
	mockjudging "github.com/codearena/judge-api/cmd/server/internal/judging/mock"
	"github.com/codearena/judge-api/cmd/server/internal/taskrunner"
	"github.com/codearena/judge-api/internal/evaluator"
	"github.com/codearena/judge-api/internal/types"
)

func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()

	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{
		SkipDefaultTransaction: true,
		Logger:                 gormlogger.Discard,
	})
	require.NoError(t, err)

	return db, mock
}

func submissionRows(id, userID, problemID uuid.UUID) *sqlmock.Rows {
	return sqlmock.
		NewRows([]string{"id", "status", "source_code", "language_id", "user_id", "problem_id"}).
		AddRow(id.String(), "pending", "print(1)", int64(71), userID.String(), problemID.String())
}

func problemRows(id uuid.UUID) *sqlmock.Rows {
	return sqlmock.
		NewRows([]string{"id", "title", "kind", "difficulty"}).
		AddRow(id.String(), "Two Sum", "scored", "medium")
}

func testCaseRows(problemID uuid.UUID) *sqlmock.Rows {
	return sqlmock.
		NewRows([]string{"id", "problem_id", "input", "expected_output", "ordinal"}).
		AddRow(uuid.NewString(), problemID.String(), "1 2", "3", 1)
}

// expectJudgingReads queues the reads and the running transition every
// judging run performs before the evaluator gets involved.
func expectJudgingReads(mock sqlmock.Sqlmock, submissionID, userID, problemID uuid.UUID) {
	mock.ExpectQuery(`SELECT \* FROM "submission"`).
		WillReturnRows(submissionRows(submissionID, userID, problemID))
	mock.ExpectQuery(`SELECT \* FROM "problem"`).
		WillReturnRows(problemRows(problemID))
	mock.ExpectQuery(`SELECT \* FROM "test_case"`).
		WillReturnRows(testCaseRows(problemID))
	mock.ExpectExec(`UPDATE "submission" SET "status"`).
		WillReturnResult(sqlmock.NewResult(0, 1))
}

func runJudging(t *testing.T, o *judging.Orchestrator, runner *taskrunner.Client, id uuid.UUID) {
	t.Helper()

	o.Enqueue(context.Background(), id, judging.Options{})

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, runner.Shutdown(shutdownCtx))
}

func TestJudgeAcceptedCreditsLedger(t *testing.T) {
	db, mock := newMockDB(t)
	ctrl := gomock.NewController(t)
	eval := mockjudging.NewMockCaseEvaluator(ctrl)
	ledger := mockjudging.NewMockLedger(ctrl)

	submissionID := uuid.New()
	userID := uuid.New()
	problemID := uuid.New()

	expectJudgingReads(mock, submissionID, userID, problemID)

	eval.EXPECT().
		Evaluate(gomock.Any(), "print(1)", 71, gomock.Any(), gomock.Any()).
		Return(&evaluator.Outcome{
			Verdict:         types.VerdictAccepted,
			TestCasesPassed: 1,
			TotalTestCases:  1,
			ElapsedSecs:     0.1,
			MemoryKB:        2048,
		}, nil)

	mock.ExpectExec(`UPDATE "submission" SET`).
		WillReturnResult(sqlmock.NewResult(0, 1))

	ledger.EXPECT().
		RecordSolve(gomock.Any(), userID.String(), problemID.String(), int64(30), gomock.Any()).
		Return(nil)

	runner := taskrunner.Create()
	o := judging.NewOrchestrator(db, eval, ledger, runner)
	runJudging(t, o, runner, submissionID)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestJudgeEvaluatorErrorForcesTerminal(t *testing.T) {
	db, mock := newMockDB(t)
	ctrl := gomock.NewController(t)
	eval := mockjudging.NewMockCaseEvaluator(ctrl)
	ledger := mockjudging.NewMockLedger(ctrl)

	submissionID := uuid.New()

	expectJudgingReads(mock, submissionID, uuid.New(), uuid.New())

	eval.EXPECT().
		Evaluate(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		Return(nil, errors.New("judge unreachable"))

	// The submission must not stay stuck in running.
	mock.ExpectExec(`UPDATE "submission" SET`).
		WillReturnResult(sqlmock.NewResult(0, 1))

	runner := taskrunner.Create()
	o := judging.NewOrchestrator(db, eval, ledger, runner)
	runJudging(t, o, runner, submissionID)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestJudgePanicForcesTerminal(t *testing.T) {
	db, mock := newMockDB(t)
	ctrl := gomock.NewController(t)
	eval := mockjudging.NewMockCaseEvaluator(ctrl)
	ledger := mockjudging.NewMockLedger(ctrl)

	submissionID := uuid.New()

	expectJudgingReads(mock, submissionID, uuid.New(), uuid.New())

	eval.EXPECT().
		Evaluate(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(
			context.Context, string, int, evaluator.Limits, []evaluator.TestCase,
		) (*evaluator.Outcome, error) {
			panic("judge client exploded")
		})

	// The panic is contained and the submission still reaches a terminal
	// state. No score is credited.
	mock.ExpectExec(`UPDATE "submission" SET`).
		WillReturnResult(sqlmock.NewResult(0, 1))

	runner := taskrunner.Create()
	o := judging.NewOrchestrator(db, eval, ledger, runner)
	runJudging(t, o, runner, submissionID)

	assert.NoError(t, mock.ExpectationsWereMet())
}
