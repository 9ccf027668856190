package judge

import "github.com/codearena/judge-api/internal/types"

// The judge's numeric status vocabulary. Ids 1 and 2 are the only non-terminal
// statuses and are pinned by the wire contract; the rest are translated through
// the fixed table below.
var statusVerdicts = map[int]types.Verdict{
	1:  types.VerdictPending,
	2:  types.VerdictRunning,
	3:  types.VerdictAccepted,
	4:  types.VerdictWrongAnswer,
	5:  types.VerdictTimeLimitExceeded,
	6:  types.VerdictCompileError,
	7:  types.VerdictRuntimeError, // SIGSEGV
	8:  types.VerdictRuntimeError, // SIGXFSZ
	9:  types.VerdictRuntimeError, // SIGFPE
	10: types.VerdictRuntimeError, // SIGABRT
	11: types.VerdictRuntimeError, // non-zero exit
	12: types.VerdictRuntimeError, // other
	13: types.VerdictRuntimeError, // judge internal error, conflated on purpose
	14: types.VerdictRuntimeError, // exec format error
	15: types.VerdictMemoryLimitExceeded,
}

// VerdictFromStatus translates a judge status id into a verdict. Unrecognized
// ids map to runtime_error, never to accepted.
func VerdictFromStatus(statusID int) types.Verdict {
	verdict, ok := statusVerdicts[statusID]
	if !ok {
		return types.VerdictRuntimeError
	}

	return verdict
}
