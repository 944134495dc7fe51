// Package cli implements the givingbank-cli commands.
package cli

import (
	"time"

	"givingbank/internal/app"
	"givingbank/internal/config"
	"givingbank/internal/logging"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// opener returns the runtime for commands that need storage or profiles.
type opener func() (*app.Runtime, *config.Config, error)

func openFromEnv() (*app.Runtime, *config.Config, error) {
	cfg, err := config.LoadOffline()
	if err != nil {
		return nil, nil, err
	}
	log, err := logging.New(cfg.LogLevel)
	if err != nil {
		return nil, nil, err
	}
	defer log.Sync()

	rt, err := app.Open(cfg, log)
	if err != nil {
		log.Error("failed to open storage", zap.Error(err))
		return nil, nil, err
	}
	return rt, cfg, nil
}

func NewRoot() *cobra.Command {
	return newRoot(openFromEnv, time.Now)
}

func newRoot(open opener, now func() time.Time) *cobra.Command {
	root := &cobra.Command{
		Use:           "givingbank-cli",
		Short:         "Inspect volunteer levels, field checks and saved drafts",
		SilenceUsage:  true,
		SilenceErrors: false,
	}
	root.AddCommand(
		newLevelCommand(open),
		newCheckCommand(open, now),
		newDraftCommand(open),
	)
	return root
}
