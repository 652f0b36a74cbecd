package cli

import (
	"fmt"
	"io"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/roach88/keynav/internal/key"
)

// FindResult is the payload of the find command.
type FindResult struct {
	Lead key.Lead `json:"lead"`
}

// RenderText implements TextRenderer.
func (r FindResult) RenderText(w io.Writer) error {
	l := r.Lead
	if _, err := fmt.Fprintf(w, "lead %d (parent %d): %s\n", l.LeadID, l.ParentID, l.Text); err != nil {
		return err
	}
	if l.Species != nil {
		_, err := fmt.Fprintf(w, "species: %s (record %d)\n", *l.Species, l.RecordID)
		return err
	}
	return nil
}

// NewFindCommand creates the find command.
func NewFindCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &KeyOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "find <lead-id>",
		Short: "Look up a lead in a key",
		Long: `Look up a lead by id in the pruned tree of a key.

Leads removed by the key's record filter are reported as not found.

Example:
  keynav find 7 --key bees`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFind(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Key, "key", "", "key identity (defaults to the full key)")

	return cmd
}

func runFind(opts *KeyOptions, arg string, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd)

	leadID, err := strconv.Atoi(arg)
	if err != nil || leadID <= 0 {
		return formatter.Fail(ExitCommandError, ErrCodeGeneric,
			fmt.Sprintf("invalid lead id %q: must be a positive integer", arg), nil)
	}

	env, err := openEnvironment(opts.RootOptions, cmd, formatter)
	if err != nil {
		return err
	}
	defer env.Close()

	identity := env.identity(opts.Key)
	s, err := env.loadSession(commandContext(cmd), identity, formatter)
	if err != nil {
		return err
	}
	defer s.Dispose()

	lead, ok := s.Find(leadID)
	if !ok {
		return formatter.Fail(ExitFailure, ErrCodeNotFound,
			fmt.Sprintf("lead %d is not part of key %q", leadID, identity), nil)
	}
	return formatter.SuccessForKey(identity, FindResult{Lead: lead})
}
