package types

type Verdict string

const (
	VerdictPending             Verdict = "pending"               // Submission recorded, judging not started
	VerdictRunning             Verdict = "running"               // Test cases currently being judged
	VerdictAccepted            Verdict = "accepted"              // Every test case passed
	VerdictWrongAnswer         Verdict = "wrong_answer"          // Output mismatch on some test case
	VerdictTimeLimitExceeded   Verdict = "time_limit_exceeded"   // Exceeded the problem's cpu time limit
	VerdictMemoryLimitExceeded Verdict = "memory_limit_exceeded" // Exceeded the problem's memory limit
	VerdictCompileError        Verdict = "compile_error"         // Source failed to compile
	VerdictRuntimeError        Verdict = "runtime_error"         // Crashed, judge infrastructure failure, or data integrity guard
)

// Terminal reports whether a submission in this verdict is done being judged.
// Only a retry or rejudge may move a terminal submission back to pending.
func (v Verdict) Terminal() bool {
	switch v {
	case VerdictPending, VerdictRunning:
		return false
	default:
		return true
	}
}

type ProblemKind string

const (
	ProblemKindScored   ProblemKind = "scored"   // Difficulty bearing, awards points on accept
	ProblemKindPractice ProblemKind = "practice" // Ungraded
)

type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

// ScoreForDifficulty is the fixed difficulty to score table. Unknown or empty
// difficulties score zero.
func ScoreForDifficulty(d Difficulty) int64 {
	switch d {
	case DifficultyEasy:
		return 20
	case DifficultyMedium:
		return 30
	case DifficultyHard:
		return 50
	default:
		return 0
	}
}
