package judging

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"

	"github.com/codearena/judge-api/internal/evaluator"
	"github.com/codearena/judge-api/internal/types"
)

const name = "github.com/codearena/judge-api/cmd/server/internal/judging"

var tracer = otel.Tracer(name)

// Ledger is the score cache the orchestrator credits solves to.
type Ledger interface {
	RecordSolve(
		ctx context.Context,
		userID string,
		problemID string,
		scoreDelta int64,
		solvedAt time.Time,
	) error
	Rebuild(ctx context.Context) error
}

// CaseEvaluator drives one submission through its test cases.
type CaseEvaluator interface {
	Evaluate(
		ctx context.Context,
		source string,
		languageID int,
		limits evaluator.Limits,
		cases []evaluator.TestCase,
	) (*evaluator.Outcome, error)
}

// LedgerAction is what the orchestrator does to the score ledger after a
// submission reaches a terminal verdict.
type LedgerAction int

const (
	// Nothing to credit.
	LedgerActionNone LedgerAction = iota
	// First-time accept on a scored problem: credit directly.
	LedgerActionRecordSolve
	// A rejudge changed this submission's score contribution; a direct credit
	// could double count, so recompute the whole cache from the record store.
	LedgerActionRebuild
)

// DecideLedgerAction picks the reconciliation path for one terminal verdict.
func DecideLedgerAction(
	rejudge bool,
	scored bool,
	verdict types.Verdict,
	priorScore int64,
	newScore int64,
) LedgerAction {
	if !scored {
		return LedgerActionNone
	}

	if rejudge {
		if newScore != priorScore {
			return LedgerActionRebuild
		}
		return LedgerActionNone
	}

	if verdict == types.VerdictAccepted {
		return LedgerActionRecordSolve
	}

	return LedgerActionNone
}
