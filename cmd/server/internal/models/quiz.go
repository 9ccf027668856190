package models

import (
	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type QuizQuestion struct {
	Prompt        string
	Options       datatypes.JSONSlice[string]
	CorrectOption int
	Model
}

func (QuizQuestion) TableName() string {
	return "quiz_question"
}

func (q QuizQuestion) GetID() uuid.UUID {
	return q.ID
}
