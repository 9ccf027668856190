package cmds

import (
	"net/http"

	"github.com/spf13/cobra"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/codearena/judge-api/internal/logger"
)

var rebuildCmd = &cobra.Command{
	Use:   "rebuild-leaderboard",
	Short: "Recompute the whole leaderboard from the submission record store",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx, span := tracer.Start(cmd.Context(), "rebuildCmd")
		defer span.End()

		span.SetAttributes(attribute.String("api.url", apiURL))

		logger.Logger.InfoContext(ctx, "Requesting leaderboard rebuild", "apiURL", apiURL)

		req, err := http.NewRequestWithContext(
			ctx,
			http.MethodPost,
			apiURL+"/v1/leaderboard/rebuild/",
			nil,
		)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "failed to build request")
			return err
		}

		resp, err := apiClient().Do(req)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "failed to request rebuild")
			return err
		}
		defer resp.Body.Close()

		if err = checkStatus(resp, http.StatusNoContent); err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "rebuild request rejected")
			return err
		}

		logger.Logger.InfoContext(ctx, "Leaderboard rebuilt")

		span.RecordError(nil)
		span.SetStatus(codes.Ok, "rebuilt leaderboard")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(rebuildCmd)
}
