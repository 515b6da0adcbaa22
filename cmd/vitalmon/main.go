package main

import (
	"context"

	"codeberg.org/mutker/vitalmon/internal/logger"
)

var (
	version   = "dev"
	buildDate = "unknown"
	gitCommit = "unknown"
)

func main() {
	// Reconfigured from the loaded config; covers errors raised before that.
	logger.Init(logger.WarnLevel, logger.IsService())

	root := newRootCommand()
	if err := root.ExecuteContext(context.Background()); err != nil {
		logger.FatalWithCode(asCoded(err)).Msg("vitalmon failed")
	}
}
