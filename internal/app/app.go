// Package app opens the storage and profile data shared by the server, the
// MCP server and the CLI.
package app

import (
	"database/sql"
	"fmt"

	"givingbank/internal/config"
	"givingbank/internal/db"
	"givingbank/internal/drafts"
	"givingbank/internal/tiers"

	"github.com/spf13/afero"
	"go.uber.org/zap"
)

type Runtime struct {
	DB       *sql.DB // nil with the file draft backend
	Drafts   drafts.Store
	Profiles tiers.Registry
}

// Open builds the draft store and level profiles selected by cfg.
func Open(cfg *config.Config, log *zap.Logger) (*Runtime, error) {
	return open(cfg, log, afero.NewOsFs())
}

func open(cfg *config.Config, log *zap.Logger, fs afero.Fs) (*Runtime, error) {
	rt := &Runtime{Profiles: tiers.Default()}

	if cfg.TiersFile != "" {
		reg, err := tiers.LoadFile(fs, cfg.TiersFile)
		if err != nil {
			return nil, err
		}
		rt.Profiles = reg
		log.Info("loaded level profiles", zap.String("file", cfg.TiersFile), zap.Strings("profiles", reg.Names()))
	}

	switch cfg.DraftBackend {
	case "file":
		rt.Drafts = drafts.NewFileStore(fs, cfg.DraftDir)
	case "sqlite", "":
		database, err := db.Open(cfg.DBPath)
		if err != nil {
			return nil, fmt.Errorf("failed to open database: %w", err)
		}
		rt.DB = database
		rt.Drafts = drafts.NewSQLiteStore(database)
	default:
		return nil, fmt.Errorf("unknown draft backend %q", cfg.DraftBackend)
	}
	return rt, nil
}

func (rt *Runtime) Close() error {
	if rt.DB != nil {
		return rt.DB.Close()
	}
	return nil
}
