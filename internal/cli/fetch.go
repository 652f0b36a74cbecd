package cli

import (
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"
)

// FetchOptions holds flags for the fetch command.
type FetchOptions struct {
	*RootOptions
	Force bool
}

// FetchResult is the payload of the fetch command.
type FetchResult struct {
	Leads     int        `json:"leads"`
	Forced    bool       `json:"forced"`
	FetchedAt *time.Time `json:"fetched_at,omitempty"`
}

// RenderText implements TextRenderer.
func (r FetchResult) RenderText(w io.Writer) error {
	verb := "Loaded"
	if r.Forced {
		verb = "Refreshed"
	}
	if r.FetchedAt == nil {
		_, err := fmt.Fprintf(w, "%s %d leads (not cached)\n", verb, r.Leads)
		return err
	}
	_, err := fmt.Fprintf(w, "%s %d leads (cached %s)\n", verb, r.Leads, r.FetchedAt.Format(time.RFC3339))
	return err
}

// NewFetchCommand creates the fetch command.
func NewFetchCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &FetchOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "fetch",
		Short: "Fetch the key dataset into the local cache",
		Long: `Fetch the key dataset into the local cache.

A fresh cached dataset is reused unless --force is given, in which case the
dataset is downloaded again and the cache rewritten.

Example:
  keynav fetch
  keynav fetch --force --format json`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFetch(opts, cmd)
		},
	}

	cmd.Flags().BoolVar(&opts.Force, "force", false, "ignore cache freshness and download again")

	return cmd
}

func runFetch(opts *FetchOptions, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd)
	env, err := openEnvironment(opts.RootOptions, cmd, formatter)
	if err != nil {
		return err
	}
	defer env.Close()

	ctx := commandContext(cmd)
	fetchDataset := env.fetcher.FetchDataset
	if opts.Force {
		fetchDataset = env.fetcher.Refresh
	}

	dataset, err := fetchDataset(ctx)
	if err != nil {
		return failLoad(formatter, err)
	}
	formatter.VerboseLog("Dataset holds %d leads", len(dataset))

	result := FetchResult{Leads: len(dataset), Forced: opts.Force}
	if entry, ok, err := env.fetcher.CachedEntry(ctx); err == nil && ok {
		at := time.UnixMilli(entry.FetchedAt).UTC()
		result.FetchedAt = &at
	}
	return formatter.Success(result)
}
