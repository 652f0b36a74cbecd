package cli

import (
	"context"
	"errors"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/roach88/keynav/internal/cache"
	"github.com/roach88/keynav/internal/config"
	"github.com/roach88/keynav/internal/fetch"
	"github.com/roach88/keynav/internal/key"
	"github.com/roach88/keynav/internal/schema"
	"github.com/roach88/keynav/internal/session"
)

// environment is the wiring shared by commands that touch the dataset.
type environment struct {
	cfg     config.Config
	logger  *slog.Logger
	store   *cache.Store
	fetcher *fetch.Fetcher
}

// newLogger configures logging based on the verbose flag.
func newLogger(opts *RootOptions, w io.Writer) *slog.Logger {
	logLevel := slog.LevelInfo
	if opts.Verbose {
		logLevel = slog.LevelDebug
	}
	handler := slog.NewTextHandler(w, &slog.HandlerOptions{
		Level: logLevel,
	})
	return slog.New(handler)
}

// openEnvironment loads config, opens the cache, and builds the fetcher.
// Failures are reported through formatter and returned as ExitErrors.
func openEnvironment(opts *RootOptions, cmd *cobra.Command, formatter *OutputFormatter) (*environment, error) {
	logger := newLogger(opts, cmd.ErrOrStderr())
	slog.SetDefault(logger)

	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return nil, formatter.Fail(ExitCommandError, ErrCodeConfig, "failed to load config", err)
	}
	if opts.CachePath != "" {
		cfg.CachePath = opts.CachePath
	}
	if err := cfg.Validate(); err != nil {
		return nil, formatter.Fail(ExitCommandError, ErrCodeConfig, "invalid config", err)
	}
	if !cfg.HasSource() {
		return nil, formatter.Fail(ExitCommandError, ErrCodeConfig,
			"no dataset source configured (set dataset_url or dataset_file)", nil)
	}

	src, err := newSource(cfg)
	if err != nil {
		return nil, formatter.Fail(ExitCommandError, ErrCodeConfig, "failed to build dataset source", err)
	}

	logger.Debug("opening cache", "path", cfg.CachePath)
	st, err := cache.Open(cfg.CachePath)
	if err != nil {
		return nil, formatter.Fail(ExitCommandError, ErrCodeCache, "failed to open cache", err)
	}

	f := fetch.New(src, st,
		fetch.WithTTL(cfg.CacheTTL),
		fetch.WithFullKey(cfg.FullKey),
		fetch.WithLogger(logger),
	)

	return &environment{cfg: cfg, logger: logger, store: st, fetcher: f}, nil
}

func newSource(cfg config.Config) (fetch.Source, error) {
	var v fetch.Validator
	if cfg.ValidateSchema {
		sv, err := schema.New()
		if err != nil {
			return nil, err
		}
		v = sv
	}

	if cfg.Offline() {
		return &fetch.FileSource{
			DatasetPath: cfg.DatasetFile,
			RecordsDir:  cfg.RecordsDir,
			Validator:   v,
		}, nil
	}
	return fetch.NewHTTPSource(cfg.DatasetURL, cfg.RecordsURL, cfg.HTTPTimeout, v), nil
}

func (e *environment) Close() {
	if err := e.store.Close(); err != nil {
		e.logger.Error("error closing cache", "error", err)
	}
}

// identity returns the requested key, defaulting to the full key.
func (e *environment) identity(requested string) string {
	if requested == "" {
		return e.cfg.FullKey
	}
	return requested
}

// loadSession loads identity into a fresh session and waits for the result.
func (e *environment) loadSession(ctx context.Context, identity string, formatter *OutputFormatter) (*session.Session, error) {
	s := session.New(e.fetcher, session.WithLogger(e.logger))

	select {
	case <-s.SetActiveKey(ctx, identity):
	case <-ctx.Done():
		return nil, formatter.Fail(ExitCommandError, ErrCodeGeneric, "interrupted", ctx.Err())
	}

	if err := s.Err(); err != nil {
		return nil, failLoad(formatter, err)
	}
	return s, nil
}

// failLoad maps a pipeline error onto an error code and exit code.
func failLoad(formatter *OutputFormatter, err error) error {
	var verr *schema.ValidationError
	switch {
	case errors.As(err, &verr):
		return formatter.Fail(ExitFailure, ErrCodeSchema, "payload failed schema validation", err)
	case fetch.IsTransport(err):
		return formatter.Fail(ExitCommandError, ErrCodeTransport, "failed to fetch key data", err)
	case key.IsMalformedTree(err):
		return formatter.Fail(ExitFailure, ErrCodeMalformed, "dataset does not form a valid key", err)
	default:
		return formatter.Fail(ExitFailure, ErrCodeGeneric, "failed to load key", err)
	}
}

func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
