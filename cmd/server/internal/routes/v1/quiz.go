package v1

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"gorm.io/datatypes"

	"github.com/codearena/judge-api/cmd/server/internal/models"
	"github.com/codearena/judge-api/cmd/server/internal/response"
	"github.com/codearena/judge-api/internal/audit"
	"github.com/codearena/judge-api/internal/types"
)

// CreateQuizSubmission grades in the request because a quiz answer needs no
// execution judge. The client gets the terminal verdict in the response body
// instead of polling.
func (h *Handler) CreateQuizSubmission(c echo.Context) error {
	ctx, span := tracer.Start(c.Request().Context(), "CreateQuizSubmission")
	defer span.End()

	db := h.DB.WithContext(ctx)

	span.AddEvent("received quiz submission request")

	var rdata types.QuizSubmissionCreate

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

	userID, err := uuid.Parse(rdata.UserID)
	if err != nil {
		span.SetStatus(codes.Ok, "failed to parse user id")
		span.RecordError(err)
		return echo.NewHTTPError(http.StatusBadRequest, types.StringError("invalid user_id"))
	}
	questionID, err := uuid.Parse(rdata.QuizQuestionID)
	if err != nil {
		span.SetStatus(codes.Ok, "failed to parse quiz question id")
		span.RecordError(err)
		return echo.NewHTTPError(
			http.StatusBadRequest,
			types.StringError("invalid quiz_question_id"),
		)
	}

	span.SetAttributes(
		attribute.String("user.id", userID.String()),
		attribute.String("quiz_question.id", questionID.String()),
		attribute.Int("selected_option", *rdata.SelectedOption),
	)

	span.AddEvent("checking referenced user and question exist")
	userExists, err := models.Exists[models.User](ctx, db, "id = ?", userID)
	if err != nil {
		span.SetStatus(codes.Error, "failed to check user exists")
		span.RecordError(err)
		return response.InternalServerError
	}
	questionExists, err := models.Exists[models.QuizQuestion](ctx, db, "id = ?", questionID)
	if err != nil {
		span.SetStatus(codes.Error, "failed to check quiz question exists")
		span.RecordError(err)
		return response.InternalServerError
	}
	if !userExists || !questionExists {
		span.SetStatus(codes.Ok, "referenced user or question does not exist")
		span.RecordError(nil)
		return response.NotFoundError
	}

	submission := models.Submission{
		SelectedOption: datatypes.NewNull(*rdata.SelectedOption),
		Status:         types.VerdictPending,
		UserID:         userID,
		QuizQuestionID: &questionID,
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

	span.AddEvent("judging quiz submission")
	judged, err := h.orchestrator.JudgeQuiz(ctx, &submission)
	if err != nil {
		span.SetStatus(codes.Error, "failed to judge quiz submission")
		span.RecordError(err)
		return response.InternalServerError
	}

	span.SetAttributes(attribute.String("verdict", string(judged.Status)))

	span.RecordError(nil)
	span.SetStatus(codes.Ok, "judged quiz submission")
	return c.JSON(http.StatusOK, submissionResponse(judged))
}
