package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"github.com/codearena/judge-api/internal/types"
)

// Submission is the durable record of one judging attempt. Exactly one of
// ProblemID and QuizQuestionID is set. Terminal submissions are immutable;
// the only allowed state regression is retry/rejudge resetting back to
// pending.
type Submission struct {
	SourceCode     string
	LanguageID     datatypes.Null[int]
	SelectedOption datatypes.Null[int]
	Status         types.Verdict `gorm:"type:text;default:'pending'"`

	TestCasesPassed int
	TotalTestCases  int
	ElapsedSecs     float64
	MemoryKB        int64
	Score           int64
	Stderr          datatypes.Null[string]
	CompileOutput   datatypes.Null[string]
	CompletedAt     datatypes.Null[time.Time]

	Model
	UserID         uuid.UUID
	ProblemID      *uuid.UUID
	QuizQuestionID *uuid.UUID
}

func (Submission) TableName() string {
	return "submission"
}

func (s Submission) GetID() uuid.UUID {
	return s.ID
}

func (s Submission) IsQuiz() bool {
	return s.QuizQuestionID != nil
}

// ResetForRejudge clears every terminal field so the state machine can be
// re-entered at pending.
func (s *Submission) ResetForRejudge() {
	s.Status = types.VerdictPending
	s.TestCasesPassed = 0
	s.TotalTestCases = 0
	s.ElapsedSecs = 0
	s.MemoryKB = 0
	s.Score = 0
	s.Stderr = datatypes.Null[string]{}
	s.CompileOutput = datatypes.Null[string]{}
	s.CompletedAt = datatypes.Null[time.Time]{}
}
