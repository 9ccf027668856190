package v1

import (
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"gorm.io/datatypes"

	srverr "github.com/codearena/judge-api/cmd/server/internal/error"
	"github.com/codearena/judge-api/cmd/server/internal/judging"
	"github.com/codearena/judge-api/cmd/server/internal/models"
	"github.com/codearena/judge-api/cmd/server/internal/response"
	"github.com/codearena/judge-api/internal/audit"
	"github.com/codearena/judge-api/internal/judge"
	"github.com/codearena/judge-api/internal/logger"
	"github.com/codearena/judge-api/internal/types"
)

func submissionResponse(s *models.Submission) types.SubmissionResponse {
	var completedAt *types.UnixMilli
	if s.CompletedAt.Valid {
		t := types.NewUnixMilli(s.CompletedAt.V)
		completedAt = &t
	}

	return types.SubmissionResponse{
		SubmissionID:    s.ID.String(),
		Status:          s.Status,
		TestCasesPassed: s.TestCasesPassed,
		TotalTestCases:  s.TotalTestCases,
		ElapsedSecs:     s.ElapsedSecs,
		MemoryKB:        s.MemoryKB,
		Score:           s.Score,
		Stderr:          models.PtrFromNull(s.Stderr),
		CompileOutput:   models.PtrFromNull(s.CompileOutput),
		CreatedAt:       types.NewUnixMilli(s.CreatedAt),
		CompletedAt:     completedAt,
	}
}

func (h *Handler) CreateSubmission(c echo.Context) error {
	ctx, span := tracer.Start(c.Request().Context(), "CreateSubmission")
	defer span.End()

	db := h.DB.WithContext(ctx)

	span.AddEvent("received coding submission request")

	requestTime, ok := c.Get("time").(time.Time)
	if !ok {
		span.RecordError(srverr.ErrTypeAssertMismatch)
		span.SetStatus(codes.Error, fmt.Sprintf("time: %s", srverr.ErrTypeAssertMismatch))
		return response.InternalServerError
	}

	span.SetAttributes(
		attribute.Int64("request.timestamp_ms", requestTime.UnixMilli()),
	)

	var rdata types.SubmissionCreate

	span.AddEvent("parsing request body")
	err := c.Bind(&rdata)
	if err != nil {
		span.SetStatus(codes.Ok, "failed to parse request data")
		span.RecordError(err)
		return echo.NewHTTPError(
			http.StatusBadRequest,
			types.StringError("failed to parse request data"),
		)
	}

	span.AddEvent("validating request body")
	err = c.Validate(rdata)
	if err != nil {
		span.SetStatus(codes.Ok, "failed to validate request data")
		span.RecordError(err)
		return echo.NewHTTPError(http.StatusBadRequest, types.ValidationError(err))
	}

	languageID, known := judge.LanguageID(rdata.Language)
	if !known {
		span.SetStatus(codes.Ok, "unknown language")
		span.RecordError(nil)
		return echo.NewHTTPError(
			http.StatusBadRequest,
			types.Error{Message: "validation error", Fields: &map[string]string{
				"language": "is not a judged language",
			}},
		)
	}

	userID, err := uuid.Parse(rdata.UserID)
	if err != nil {
		span.SetStatus(codes.Ok, "failed to parse user id")
		span.RecordError(err)
		return echo.NewHTTPError(http.StatusBadRequest, types.StringError("invalid user_id"))
	}
	problemID, err := uuid.Parse(rdata.ProblemID)
	if err != nil {
		span.SetStatus(codes.Ok, "failed to parse problem id")
		span.RecordError(err)
		return echo.NewHTTPError(http.StatusBadRequest, types.StringError("invalid problem_id"))
	}

	span.SetAttributes(
		attribute.String("user.id", userID.String()),
		attribute.String("problem.id", problemID.String()),
		attribute.Int("language.id", languageID),
	)

	span.AddEvent("checking referenced user and problem exist")
	userExists, err := models.Exists[models.User](ctx, db, "id = ?", userID)
	if err != nil {
		span.SetStatus(codes.Error, "failed to check user exists")
		span.RecordError(err)
		return response.InternalServerError
	}
	problemExists, err := models.Exists[models.Problem](ctx, db, "id = ?", problemID)
	if err != nil {
		span.SetStatus(codes.Error, "failed to check problem exists")
		span.RecordError(err)
		return response.InternalServerError
	}
	if !userExists || !problemExists {
		span.SetStatus(codes.Ok, "referenced user or problem does not exist")
		span.RecordError(nil)
		return response.NotFoundError
	}

	// List the user on the board at score zero before any solve can land. A
	// cache failure here is not worth rejecting the submission over.
	if err = h.board.InitializeUser(ctx, userID.String()); err != nil {
		span.RecordError(err)
		logger.Logger.WarnContext(ctx, "failed to list user on leaderboard",
			"userID", userID, "error", err)
	}

	submission := models.Submission{
		SourceCode: rdata.SourceCode,
		LanguageID: datatypes.NewNull(languageID),
		Status:     types.VerdictPending,
		UserID:     userID,
		ProblemID:  &problemID,
	}

	span.AddEvent("inserting into database")
	err = db.Create(&submission).Error
	if err != nil {
		span.SetStatus(codes.Error, "failed to insert")
		span.RecordError(err)
		return response.InternalServerError
	}

	submissionID := submission.ID.String()
	userIDString := userID.String()
	span.SetAttributes(attribute.String("submission.id", submissionID))

	audit.LogSubmissionReceived(audit.Context{
		UserID:       &userIDString,
		SubmissionID: &submissionID,
	})

	span.AddEvent("enqueueing judging task")
	h.orchestrator.Enqueue(ctx, submission.ID, judging.Options{})

	span.RecordError(nil)
	span.SetStatus(codes.Ok, "accepted submission")
	return c.JSON(http.StatusAccepted, submissionResponse(&submission))
}

func (h *Handler) SubmissionStatus(c echo.Context) error {
	_, span := tracer.Start(c.Request().Context(), "SubmissionStatus")
	defer span.End()

	submission, ok := c.Get("submission").(*models.Submission)
	if !ok {
		span.RecordError(srverr.ErrTypeAssertMismatch)
		span.SetStatus(codes.Error, fmt.Sprintf("submission: %s", srverr.ErrTypeAssertMismatch))
		return response.InternalServerError
	}

	span.SetAttributes(
		attribute.String("submission.id", submission.ID.String()),
		attribute.String("submission.status", string(submission.Status)),
	)

	span.RecordError(nil)
	span.SetStatus(codes.Ok, "fetched submission")
	return c.JSON(http.StatusOK, submissionResponse(submission))
}

func (h *Handler) ListSubmissions(c echo.Context) error {
	ctx, span := tracer.Start(c.Request().Context(), "ListSubmissions")
	defer span.End()

	db := h.DB.WithContext(ctx)

	type requestData struct {
		UserID    *string `query:"user_id"    validate:"omitempty,uuid_rfc4122"`
		ProblemID *string `query:"problem_id" validate:"omitempty,uuid_rfc4122"`
		Status    *string `query:"status"     validate:"omitempty,oneof=pending running accepted wrong_answer time_limit_exceeded memory_limit_exceeded compile_error runtime_error"`
		Limit     *int    `query:"limit"      validate:"omitempty,min=1,max=200"`
		Offset    *int    `query:"offset"     validate:"omitempty,min=0"`
	}
	var rdata requestData

	span.AddEvent("parsing query parameters")
	err := c.Bind(&rdata)
	if err != nil {
		span.SetStatus(codes.Ok, "failed to parse request data")
		span.RecordError(err)
		return echo.NewHTTPError(
			http.StatusBadRequest,
			types.StringError("failed to parse request data"),
		)
	}

	span.AddEvent("validating query parameters")
	err = c.Validate(rdata)
	if err != nil {
		span.SetStatus(codes.Ok, "failed to validate request data")
		span.RecordError(err)
		return echo.NewHTTPError(http.StatusBadRequest, types.ValidationError(err))
	}

	limit := h.config.API.DefaultPageLimit
	if rdata.Limit != nil {
		limit = *rdata.Limit
	}
	offset := 0
	if rdata.Offset != nil {
		offset = *rdata.Offset
	}

	query := db.Model(&models.Submission{})
	if rdata.UserID != nil {
		query = query.Where("user_id = ?", *rdata.UserID)
	}
	if rdata.ProblemID != nil {
		query = query.Where("problem_id = ?", *rdata.ProblemID)
	}
	if rdata.Status != nil {
		query = query.Where("status = ?", *rdata.Status)
	}

	var total int64
	span.AddEvent("counting matching submissions")
	err = query.Count(&total).Error
	if err != nil {
		span.SetStatus(codes.Error, "failed to count submissions")
		span.RecordError(err)
		return response.InternalServerError
	}

	var submissions []models.Submission
	span.AddEvent("fetching submissions")
	err = query.
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&submissions).Error
	if err != nil {
		span.SetStatus(codes.Error, "failed to fetch submissions")
		span.RecordError(err)
		return response.InternalServerError
	}

	responses := make([]types.SubmissionResponse, 0, len(submissions))
	for i := range submissions {
		responses = append(responses, submissionResponse(&submissions[i]))
	}

	span.SetAttributes(
		attribute.Int("submissions.count", len(responses)),
		attribute.Int64("submissions.total", total),
	)

	span.RecordError(nil)
	span.SetStatus(codes.Ok, "listed submissions")
	return c.JSON(http.StatusOK, types.SubmissionListResponse{
		Submissions: responses,
		Total:       total,
	})
}

func (h *Handler) RejudgeSubmission(c echo.Context) error {
	ctx, span := tracer.Start(c.Request().Context(), "RejudgeSubmission")
	defer span.End()

	db := h.DB.WithContext(ctx)

	submission, ok := c.Get("submission").(*models.Submission)
	if !ok {
		span.RecordError(srverr.ErrTypeAssertMismatch)
		span.SetStatus(codes.Error, fmt.Sprintf("submission: %s", srverr.ErrTypeAssertMismatch))
		return response.InternalServerError
	}

	span.SetAttributes(
		attribute.String("submission.id", submission.ID.String()),
		attribute.String("submission.status", string(submission.Status)),
	)

	if submission.IsQuiz() {
		span.SetStatus(codes.Ok, "quiz submissions cannot be rejudged")
		span.RecordError(nil)
		return echo.NewHTTPError(
			http.StatusBadRequest,
			types.StringError("quiz submissions cannot be rejudged"),
		)
	}

	span.AddEvent("checking submission is terminal")
	if !submission.Status.Terminal() {
		span.SetStatus(codes.Ok, "submission is still being judged")
		span.RecordError(nil)
		return echo.NewHTTPError(
			http.StatusConflict,
			types.StringError("submission is still being judged"),
		)
	}

	priorScore := submission.Score
	submission.ResetForRejudge()

	span.AddEvent("resetting submission to pending")
	err := db.Save(submission).Error
	if err != nil {
		span.SetStatus(codes.Error, "failed to reset submission")
		span.RecordError(err)
		return response.InternalServerError
	}

	submissionID := submission.ID.String()
	userID := submission.UserID.String()
	audit.LogRejudgeRequested(audit.Context{
		UserID:       &userID,
		SubmissionID: &submissionID,
	})

	span.AddEvent("enqueueing rejudge task")
	h.orchestrator.Enqueue(ctx, submission.ID, judging.Options{
		Rejudge:    true,
		PriorScore: priorScore,
	})

	span.RecordError(nil)
	span.SetStatus(codes.Ok, "accepted rejudge")
	return c.JSON(http.StatusAccepted, submissionResponse(submission))
}
