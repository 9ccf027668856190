package main

import (
	"context"
	"os"

	"github.com/codearena/judge-api/cmd/admin/cmds"
	"github.com/codearena/judge-api/internal/logger"
)

func main() {
	logger.InitSlog()

	ctx := context.Background()

	if err := cmds.Execute(ctx); err != nil {
		logger.Logger.Error("error executing subcommands", "error", err)
		os.Exit(1)
	}
}
