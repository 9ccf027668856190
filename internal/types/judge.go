package types

type (
	// ExecutionRequest is the wire body for submitting one run to the external
	// judge. MemoryLimit is in bytes on the wire; callers of the judge client
	// declare limits in megabytes and the client converts.
	ExecutionRequest struct {
		SourceCode     string   `json:"source_code"               validate:"required"`
		LanguageID     int      `json:"language_id"               validate:"required"`
		Stdin          *string  `json:"stdin,omitempty"`
		ExpectedOutput *string  `json:"expected_output,omitempty"`
		CPUTimeLimit   *float64 `json:"cpu_time_limit,omitempty"`
		MemoryLimit    *int64   `json:"memory_limit,omitempty"`
	}

	ExecutionStatus struct {
		ID          int    `json:"id"`
		Description string `json:"description"`
	}

	// ExecutionResult is the judge's view of one run, as returned by polling a
	// token. Fields other than Token and Status are absent until the run leaves
	// the queue.
	ExecutionResult struct {
		Token         string          `json:"token"`
		Status        ExecutionStatus `json:"status"`
		Stdout        *string         `json:"stdout,omitempty"`
		Stderr        *string         `json:"stderr,omitempty"`
		CompileOutput *string         `json:"compile_output,omitempty"`
		Time          *string         `json:"time,omitempty"`
		Memory        *int64          `json:"memory,omitempty"`
		ExitCode      *int            `json:"exit_code,omitempty"`
	}
)

const (
	// Judge status ids that mean the run has not finished. Every other id is
	// terminal.
	ExecutionStatusInQueue    int = 1
	ExecutionStatusProcessing int = 2
)

// InFlight reports whether the judge is still working on the run.
func (s ExecutionStatus) InFlight() bool {
	return s.ID == ExecutionStatusInQueue || s.ID == ExecutionStatusProcessing
}
