package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"

	"github.com/roach88/quotedraft/internal/assessment"
	"github.com/roach88/quotedraft/internal/config"
	"github.com/roach88/quotedraft/internal/draft"
	"github.com/roach88/quotedraft/internal/store"
)

// loadConfig resolves the config file and environment, then applies the
// --db and --backend overrides.
func loadConfig(opts *RootOptions) (*config.Config, error) {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "failed to load config", err)
	}
	if opts.Backend != "" {
		cfg.Backend = opts.Backend
	}
	if opts.Database != "" {
		cfg.DBPath = opts.Database
	}
	if err := cfg.Validate(); err != nil {
		return nil, WrapExitError(ExitCommandError, "invalid config", err)
	}
	return cfg, nil
}

// openDrafts loads config and returns the draft store it describes. The
// caller closes the store.
func openDrafts(ctx context.Context, opts *RootOptions) (*store.Drafts, *config.Config, error) {
	cfg, err := loadConfig(opts)
	if err != nil {
		return nil, nil, err
	}

	drafts, err := draft.OpenDrafts(ctx, cfg, store.WithLogger(slog.Default()))
	if err != nil {
		return nil, nil, WrapExitError(ExitCommandError, "failed to open draft store", err)
	}
	slog.Debug("draft store opened", "backend", cfg.Backend, "db", cfg.DBPath)
	return drafts, cfg, nil
}

// readAssessment decodes an assessment payload from a JSON file.
func readAssessment(path string) (assessment.Data, error) {
	var data assessment.Data
	raw, err := os.ReadFile(path)
	if err != nil {
		return data, WrapExitError(ExitCommandError, "failed to read assessment", err)
	}
	if err := json.Unmarshal(raw, &data); err != nil {
		return data, WrapExitError(ExitCommandError, fmt.Sprintf("invalid assessment JSON in %s", path), err)
	}
	return data, nil
}
