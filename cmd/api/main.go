package main

import (
	"context"
	"os"

	"github.com/yigit/edurecords/internal/cli"
	"github.com/yigit/edurecords/internal/pkg/logger"
)

// @title Student Course Management API
// @version 1.0
// @description Student and course records with enrollment, search and statistics.

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:5000
// @BasePath /api
// @schemes http https

func main() {
	if err := cli.NewRootCommand().ExecuteContext(context.Background()); err != nil {
		logger.Error().Err(err).Msg("Command failed")
		os.Exit(1)
	}
}
