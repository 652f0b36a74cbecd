package cli

import (
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/roach88/keynav/internal/cache"
	"github.com/roach88/keynav/internal/config"
)

// CacheResult is the payload of the cache command.
type CacheResult struct {
	Path      string     `json:"path"`
	Present   bool       `json:"present"`
	FetchedAt *time.Time `json:"fetched_at,omitempty"`
	Age       string     `json:"age,omitempty"`
	Fresh     bool       `json:"fresh"`
	Leads     int        `json:"leads"`
}

// RenderText implements TextRenderer.
func (r CacheResult) RenderText(w io.Writer) error {
	if !r.Present {
		_, err := fmt.Fprintf(w, "cache %s: empty\n", r.Path)
		return err
	}
	state := "stale"
	if r.Fresh {
		state = "fresh"
	}
	_, err := fmt.Fprintf(w, "cache %s: %d leads, fetched %s (%s ago, %s)\n",
		r.Path, r.Leads, r.FetchedAt.Format(time.RFC3339), r.Age, state)
	return err
}

// CacheOptions holds flags for the cache command.
type CacheOptions struct {
	*RootOptions

	// Now allows overriding the wall clock (for testing).
	// If nil, defaults to time.Now.
	Now func() time.Time
}

// NewCacheCommand creates the cache command.
func NewCacheCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &CacheOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Show the cached dataset snapshot",
		Long: `Show the cached dataset snapshot: when it was fetched, how old it is,
and whether it is still fresh under the configured cache_ttl.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCache(opts, cmd)
		},
	}

	return cmd
}

func runCache(opts *CacheOptions, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd)

	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeConfig, "failed to load config", err)
	}
	if opts.CachePath != "" {
		cfg.CachePath = opts.CachePath
	}
	if err := cfg.Validate(); err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeConfig, "invalid config", err)
	}

	st, err := cache.Open(cfg.CachePath)
	if err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeCache, "failed to open cache", err)
	}
	defer st.Close()

	entry, ok, err := st.ReadEntry(commandContext(cmd))
	if err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeCache, "failed to read cache", err)
	}

	result := CacheResult{Path: cfg.CachePath, Present: ok}
	if ok {
		now := time.Now
		if opts.Now != nil {
			now = opts.Now
		}
		at := time.UnixMilli(entry.FetchedAt).UTC()
		result.FetchedAt = &at
		result.Age = entry.Age(now()).Round(time.Second).String()
		result.Fresh = entry.Fresh(now(), cfg.CacheTTL)
		result.Leads = len(entry.Dataset)
	}
	return formatter.Success(result)
}
