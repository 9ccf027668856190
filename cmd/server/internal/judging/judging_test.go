package judging_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/codearena/judge-api/cmd/server/internal/judging"
	"github.com/codearena/judge-api/internal/types"
)

func TestDecideLedgerAction(t *testing.T) {
	cases := []struct {
		name       string
		rejudge    bool
		scored     bool
		verdict    types.Verdict
		priorScore int64
		newScore   int64
		expected   judging.LedgerAction
	}{
		{
			name:     "fresh accept on scored problem",
			scored:   true,
			verdict:  types.VerdictAccepted,
			newScore: 30,
			expected: judging.LedgerActionRecordSolve,
		},
		{
			name:     "fresh accept on practice problem",
			scored:   false,
			verdict:  types.VerdictAccepted,
			expected: judging.LedgerActionNone,
		},
		{
			name:     "fresh wrong answer",
			scored:   true,
			verdict:  types.VerdictWrongAnswer,
			expected: judging.LedgerActionNone,
		},
		{
			name:       "rejudge flips accept to wrong answer",
			rejudge:    true,
			scored:     true,
			verdict:    types.VerdictWrongAnswer,
			priorScore: 30,
			newScore:   0,
			expected:   judging.LedgerActionRebuild,
		},
		{
			name:     "rejudge flips wrong answer to accept",
			rejudge:  true,
			scored:   true,
			verdict:  types.VerdictAccepted,
			newScore: 50,
			expected: judging.LedgerActionRebuild,
		},
		{
			name:       "rejudge reproduces the same verdict",
			rejudge:    true,
			scored:     true,
			verdict:    types.VerdictAccepted,
			priorScore: 20,
			newScore:   20,
			expected:   judging.LedgerActionNone,
		},
		{
			name:     "rejudge on practice problem never touches the ledger",
			rejudge:  true,
			scored:   false,
			verdict:  types.VerdictAccepted,
			newScore: 0,
			expected: judging.LedgerActionNone,
		},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			assert.Equal(
				t,
				c.expected,
				judging.DecideLedgerAction(c.rejudge, c.scored, c.verdict, c.priorScore, c.newScore),
			)
		})
	}
}
