package judge_test

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/codearena/judge-api/internal/judge"
	"github.com/codearena/judge-api/internal/types"
)

func TestVerdictFromStatus(t *testing.T) {
	cases := []struct {
		statusID int
		expected types.Verdict
	}{
		{3, types.VerdictAccepted},
		{4, types.VerdictWrongAnswer},
		{5, types.VerdictTimeLimitExceeded},
		{6, types.VerdictCompileError},
		{7, types.VerdictRuntimeError},
		{11, types.VerdictRuntimeError},
		{13, types.VerdictRuntimeError},
		{14, types.VerdictRuntimeError},
		{15, types.VerdictMemoryLimitExceeded},
	}

	for _, c := range cases {
		t.Run(fmt.Sprintf("status %d", c.statusID), func(t *testing.T) {
			assert.Equal(t, c.expected, judge.VerdictFromStatus(c.statusID))
		})
	}
}

func TestVerdictFromStatusUnknownIsNeverAccepted(t *testing.T) {
	for _, statusID := range []int{0, 16, 99, -1} {
		assert.Equal(t, types.VerdictRuntimeError, judge.VerdictFromStatus(statusID))
	}
}

func TestLanguageID(t *testing.T) {
	id, ok := judge.LanguageID("python")
	assert.True(t, ok)
	assert.Equal(t, 71, id)

	_, ok = judge.LanguageID("brainfuck")
	assert.False(t, ok)
}
