package types

type (
	PingResponse struct {
		Status string `json:"status" validate:"required"`
	}

	SubmissionCreate struct {
		UserID    string `json:"user_id"    validate:"required,uuid_rfc4122" format:"uuid"`
		ProblemID string `json:"problem_id" validate:"required,uuid_rfc4122" format:"uuid"`
		// Judge language name, e.g. "python" or "cpp"
		Language string `json:"language"    validate:"required,max=64"`
		// 256KiB max size
		SourceCode string `json:"source_code" validate:"required,max=262144"`
	}

	QuizSubmissionCreate struct {
		UserID         string `json:"user_id"          validate:"required,uuid_rfc4122" format:"uuid"`
		QuizQuestionID string `json:"quiz_question_id" validate:"required,uuid_rfc4122" format:"uuid"`
		// Index into the question's option list
		SelectedOption *int `json:"selected_option"  validate:"required,min=0"`
	}

	SubmissionResponse struct {
		SubmissionID    string  `json:"submission_id"     format:"uuid" validate:"required,uuid_rfc4122"`
		Status          Verdict `json:"status"                          validate:"required"`
		TestCasesPassed int     `json:"test_cases_passed"`
		TotalTestCases  int     `json:"total_test_cases"`
		ElapsedSecs     float64 `json:"elapsed_secs"`
		MemoryKB        int64   `json:"memory_kb"`
		Score           int64   `json:"score"`
		Stderr          *string `json:"stderr,omitempty"`
		CompileOutput   *string `json:"compile_output,omitempty"`
		// Unix timestamps at millisecond resolution
		CreatedAt   UnixMilli  `json:"created_at"             validate:"required"`
		CompletedAt *UnixMilli `json:"completed_at,omitempty"`
	}

	SubmissionListResponse struct {
		Submissions []SubmissionResponse `json:"submissions" validate:"required"`
		Total       int64                `json:"total"`
	}

	LeaderboardResponse struct {
		Entries []LeaderboardEntry `json:"entries" validate:"required"`
	}
)
