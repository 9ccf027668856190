package v1

import (
	"github.com/labstack/echo/v4"
	"go.opentelemetry.io/otel"
	"gorm.io/gorm"

	"github.com/codearena/judge-api/cmd/server/internal/judging"
	servermiddleware "github.com/codearena/judge-api/cmd/server/internal/middleware"
	"github.com/codearena/judge-api/cmd/server/internal/models"
	"github.com/codearena/judge-api/internal/config"
	"github.com/codearena/judge-api/internal/leaderboard"
)

const name = "github.com/codearena/judge-api/cmd/server/internal/routes/v1"

var tracer = otel.Tracer(name)

type Handler struct {
	DB           *gorm.DB
	orchestrator *judging.Orchestrator
	board        *leaderboard.Store
	config       *config.Config
}

func NewHandler(
	db *gorm.DB,
	orchestrator *judging.Orchestrator,
	board *leaderboard.Store,
	cfg *config.Config,
) Handler {
	return Handler{
		DB:           db,
		orchestrator: orchestrator,
		board:        board,
		config:       cfg,
	}
}

func (h *Handler) AddRoutes(e *echo.Echo, middlewareHandler *servermiddleware.Handler) {
	v1Group := e.Group("/v1")

	v1Group.GET("/ping/", h.Ping)

	submissionGroup := v1Group.Group("/submissions")
	submissionGroup.POST("/", h.CreateSubmission)
	submissionGroup.GET("/", h.ListSubmissions)
	submissionGroup.GET(
		"/:submission_id/",
		h.SubmissionStatus,
		servermiddleware.PopulateFromIDParam[models.Submission](
			middlewareHandler,
			"submission_id",
			"submission",
		),
	)
	submissionGroup.POST(
		"/:submission_id/rejudge/",
		h.RejudgeSubmission,
		servermiddleware.PopulateFromIDParam[models.Submission](
			middlewareHandler,
			"submission_id",
			"submission",
		),
	)

	v1Group.POST("/quiz-submissions/", h.CreateQuizSubmission)

	leaderboardGroup := v1Group.Group("/leaderboard")
	leaderboardGroup.GET("/", h.Leaderboard)
	leaderboardGroup.POST("/rebuild/", h.RebuildLeaderboard)
	leaderboardGroup.GET(
		"/groups/:group_id/",
		h.GroupLeaderboard,
		servermiddleware.PopulateFromIDParam[models.Group](
			middlewareHandler,
			"group_id",
			"group",
		),
	)
	leaderboardGroup.GET(
		"/users/:user_id/",
		h.UserStanding,
		servermiddleware.PopulateFromIDParam[models.User](
			middlewareHandler,
			"user_id",
			"user",
		),
	)
}
