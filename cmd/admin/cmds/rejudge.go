package cmds

import (
	"encoding/json"
	"net/http"
	"os"

	"github.com/spf13/cobra"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/codearena/judge-api/internal/logger"
	"github.com/codearena/judge-api/internal/types"
)

var rejudgeSubmissionID string

var rejudgeCmd = &cobra.Command{
	Use:   "rejudge",
	Short: "Reset a terminal submission and run it through the judge again",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx, span := tracer.Start(cmd.Context(), "rejudgeCmd")
		defer span.End()

		span.SetAttributes(
			attribute.String("api.url", apiURL),
			attribute.String("submission.id", rejudgeSubmissionID),
		)

		logger.Logger.InfoContext(ctx, "Requesting rejudge", "submissionID", rejudgeSubmissionID)

		req, err := http.NewRequestWithContext(
			ctx,
			http.MethodPost,
			apiURL+"/v1/submissions/"+rejudgeSubmissionID+"/rejudge/",
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
			span.SetStatus(codes.Error, "failed to request rejudge")
			return err
		}
		defer resp.Body.Close()

		if err = checkStatus(resp, http.StatusAccepted); err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "rejudge request rejected")
			return err
		}

		var submission types.SubmissionResponse
		if err = json.NewDecoder(resp.Body).Decode(&submission); err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "failed to decode response")
			return err
		}

		logger.Logger.InfoContext(ctx, "Rejudge accepted",
			"submissionID", submission.SubmissionID,
			"status", submission.Status,
		)

		span.RecordError(nil)
		span.SetStatus(codes.Ok, "requested rejudge")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(rejudgeCmd)

	rejudgeCmd.Flags().
		StringVar(&rejudgeSubmissionID, "submission-id", "", "Submission to rejudge (required)")

	if err := rejudgeCmd.MarkFlagRequired("submission-id"); err != nil {
		logger.Logger.Error("error setting flag required", "flag", "submission-id", "error", err)
		os.Exit(1)
	}
}
