package types_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/codearena/judge-api/internal/types"
)

func TestVerdictTerminal(t *testing.T) {
	assert.False(t, types.VerdictPending.Terminal())
	assert.False(t, types.VerdictRunning.Terminal())

	for _, v := range []types.Verdict{
		types.VerdictAccepted,
		types.VerdictWrongAnswer,
		types.VerdictTimeLimitExceeded,
		types.VerdictMemoryLimitExceeded,
		types.VerdictCompileError,
		types.VerdictRuntimeError,
	} {
		assert.True(t, v.Terminal(), "verdict %s should be terminal", v)
	}
}

func TestScoreForDifficulty(t *testing.T) {
	assert.Equal(t, int64(20), types.ScoreForDifficulty(types.DifficultyEasy))
	assert.Equal(t, int64(30), types.ScoreForDifficulty(types.DifficultyMedium))
	assert.Equal(t, int64(50), types.ScoreForDifficulty(types.DifficultyHard))
	assert.Equal(t, int64(0), types.ScoreForDifficulty(types.Difficulty("")))
}
