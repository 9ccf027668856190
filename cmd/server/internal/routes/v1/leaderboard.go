package v1

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	srverr "github.com/codearena/judge-api/cmd/server/internal/error"
	"github.com/codearena/judge-api/cmd/server/internal/models"
	"github.com/codearena/judge-api/cmd/server/internal/response"
	"github.com/codearena/judge-api/internal/audit"
	"github.com/codearena/judge-api/internal/leaderboard"
	"github.com/codearena/judge-api/internal/types"
)

type rankingPage struct {
	Limit  *int64 `query:"limit"  validate:"omitempty,min=1,max=200"`
	Offset *int64 `query:"offset" validate:"omitempty,min=0"`
}

func (p rankingPage) bounds(defaultLimit int64) (int64, int64) {
	limit := defaultLimit
	if p.Limit != nil {
		limit = *p.Limit
	}
	offset := int64(0)
	if p.Offset != nil {
		offset = *p.Offset
	}
	return limit, offset
}

func (h *Handler) defaultPageLimit() int64 {
	return int64(h.config.API.DefaultPageLimit)
}

func (h *Handler) Leaderboard(c echo.Context) error {
	ctx, span := tracer.Start(c.Request().Context(), "Leaderboard")
	defer span.End()

	var page rankingPage
	err := c.Bind(&page)
	if err != nil {
		span.SetStatus(codes.Ok, "failed to parse request data")
		span.RecordError(err)
		return echo.NewHTTPError(
			http.StatusBadRequest,
			types.StringError("failed to parse request data"),
		)
	}
	err = c.Validate(page)
	if err != nil {
		span.SetStatus(codes.Ok, "failed to validate request data")
		span.RecordError(err)
		return echo.NewHTTPError(http.StatusBadRequest, types.ValidationError(err))
	}

	limit, offset := page.bounds(h.defaultPageLimit())
	span.SetAttributes(
		attribute.Int64("limit", limit),
		attribute.Int64("offset", offset),
	)

	span.AddEvent("reading ranking page")
	entries, err := h.board.Top(ctx, limit, offset)
	if err != nil {
		span.SetStatus(codes.Error, "failed to read ranking page")
		span.RecordError(err)
		return response.InternalServerError
	}

	span.SetAttributes(attribute.Int("entries.count", len(entries)))
	span.RecordError(nil)
	span.SetStatus(codes.Ok, "read ranking page")
	return c.JSON(http.StatusOK, types.LeaderboardResponse{Entries: entries})
}

func (h *Handler) GroupLeaderboard(c echo.Context) error {
	ctx, span := tracer.Start(c.Request().Context(), "GroupLeaderboard")
	defer span.End()

	group, ok := c.Get("group").(*models.Group)
	if !ok {
		span.RecordError(srverr.ErrTypeAssertMismatch)
		span.SetStatus(codes.Error, fmt.Sprintf("group: %s", srverr.ErrTypeAssertMismatch))
		return response.InternalServerError
	}

	var page rankingPage
	err := c.Bind(&page)
	if err != nil {
		span.SetStatus(codes.Ok, "failed to parse request data")
		span.RecordError(err)
		return echo.NewHTTPError(
			http.StatusBadRequest,
			types.StringError("failed to parse request data"),
		)
	}
	err = c.Validate(page)
	if err != nil {
		span.SetStatus(codes.Ok, "failed to validate request data")
		span.RecordError(err)
		return echo.NewHTTPError(http.StatusBadRequest, types.ValidationError(err))
	}

	limit, offset := page.bounds(h.defaultPageLimit())
	span.SetAttributes(
		attribute.String("group.id", group.ID.String()),
		attribute.Int64("limit", limit),
		attribute.Int64("offset", offset),
	)

	span.AddEvent("reading group ranking page")
	entries, err := h.board.GroupTop(ctx, group.ID.String(), limit, offset)
	if err != nil {
		span.SetStatus(codes.Error, "failed to read group ranking page")
		span.RecordError(err)
		return response.InternalServerError
	}

	span.SetAttributes(attribute.Int("entries.count", len(entries)))
	span.RecordError(nil)
	span.SetStatus(codes.Ok, "read group ranking page")
	return c.JSON(http.StatusOK, types.LeaderboardResponse{Entries: entries})
}

func (h *Handler) UserStanding(c echo.Context) error {
	ctx, span := tracer.Start(c.Request().Context(), "UserStanding")
	defer span.End()

	user, ok := c.Get("user").(*models.User)
	if !ok {
		span.RecordError(srverr.ErrTypeAssertMismatch)
		span.SetStatus(codes.Error, fmt.Sprintf("user: %s", srverr.ErrTypeAssertMismatch))
		return response.InternalServerError
	}

	span.SetAttributes(attribute.String("user.id", user.ID.String()))

	span.AddEvent("reading user standing")
	standing, err := h.board.Standing(ctx, user.ID.String())
	if err != nil {
		span.SetStatus(codes.Error, "failed to read user standing")
		span.RecordError(err)
		return response.InternalServerError
	}

	span.RecordError(nil)
	span.SetStatus(codes.Ok, "read user standing")
	return c.JSON(http.StatusOK, standing)
}

func (h *Handler) RebuildLeaderboard(c echo.Context) error {
	ctx, span := tracer.Start(c.Request().Context(), "RebuildLeaderboard")
	defer span.End()

	span.AddEvent("rebuilding leaderboard")
	err := h.board.Rebuild(ctx)
	if err != nil {
		if errors.Is(err, leaderboard.ErrRebuildInProgress) {
			span.SetStatus(codes.Ok, "rebuild already running")
			span.RecordError(nil)
			return echo.NewHTTPError(
				http.StatusConflict,
				types.StringError("a rebuild is already running"),
			)
		}

		span.SetStatus(codes.Error, "failed to rebuild leaderboard")
		span.RecordError(err)
		return response.InternalServerError
	}

	audit.LogLeaderboardRebuilt(audit.Context{}, "manual")

	span.RecordError(nil)
	span.SetStatus(codes.Ok, "rebuilt leaderboard")
	return c.NoContent(http.StatusNoContent)
}
