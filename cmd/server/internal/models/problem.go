package models

import (
	"context"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/codearena/judge-api/internal/types"
)

type Problem struct {
	Title      string
	Kind       types.ProblemKind `gorm:"type:text"`
	Difficulty types.Difficulty  `gorm:"type:text"`
	// Declared execution limits; invalid means the judge's defaults apply.
	CPUTimeLimitSecs datatypes.Null[float64]
	MemoryLimitMB    datatypes.Null[int64]
	Model
}

func (Problem) TableName() string {
	return "problem"
}

func (p Problem) GetID() uuid.UUID {
	return p.ID
}

// Scored reports whether accepts on this problem award points.
func (p Problem) Scored() bool {
	return p.Kind == types.ProblemKindScored
}

type TestCase struct {
	Input          string
	ExpectedOutput string
	Ordinal        int
	IsSample       bool
	Model
	ProblemID uuid.UUID
}

func (TestCase) TableName() string {
	return "test_case"
}

func (t TestCase) GetID() uuid.UUID {
	return t.ID
}

// JudgedTestCases returns the problem's non-sample test cases in their
// persisted order. This is the order submissions are judged in.
func JudgedTestCases(
	ctx context.Context,
	db *gorm.DB,
	problemID uuid.UUID,
) ([]TestCase, error) {
	ctx, span := tracer.Start(ctx, "JudgedTestCases")
	defer span.End()

	span.SetAttributes(attribute.String("problem.id", problemID.String()))

	db = db.WithContext(ctx)

	var cases []TestCase
	err := db.
		Where("problem_id = ? AND is_sample = false", problemID).
		Order("ordinal ASC").
		Find(&cases).Error
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to fetch test cases")
		return nil, err
	}

	span.SetAttributes(attribute.Int("cases.total", len(cases)))
	span.RecordError(nil)
	span.SetStatus(codes.Ok, "fetched test cases")
	return cases, nil
}
