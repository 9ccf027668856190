package cmds

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/hashicorp/go-retryablehttp"
	"github.com/spf13/cobra"
	"go.opentelemetry.io/otel"
)

const name = "github.com/codearena/judge-api/cmd/admin/cmds"

var tracer = otel.Tracer(name)

var apiURL string

var rootCmd = &cobra.Command{
	Use:   "admin",
	Short: "Operator commands for the judge API",
}

func Execute(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	rootCmd.PersistentFlags().
		StringVar(&apiURL, "api-url", "http://localhost:1323", "Base URL of the judge API")
}

func apiClient() *http.Client {
	retryClient := retryablehttp.NewClient()
	retryClient.RetryMax = 3
	retryClient.RetryWaitMin = 100 * time.Millisecond
	retryClient.RetryWaitMax = 5 * time.Second
	retryClient.Logger = nil

	return retryClient.StandardClient()
}

func checkStatus(resp *http.Response, want int) error {
	if resp.StatusCode != want {
		return fmt.Errorf("api responded %s", resp.Status)
	}

	return nil
}
