package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/roach88/keynav/internal/key"
	"github.com/roach88/keynav/internal/session"
)

// KeyOptions holds the flags shared by commands that navigate a key.
type KeyOptions struct {
	*RootOptions
	Key  string
	Node int
}

func (o *KeyOptions) bind(cmd *cobra.Command) {
	cmd.Flags().StringVar(&o.Key, "key", "", "key identity (defaults to the full key)")
	cmd.Flags().IntVar(&o.Node, "node", session.RootNode, "lead id to start from (0 = root)")
}

// StepsOptions holds flags for the steps command.
type StepsOptions struct {
	KeyOptions
	Descendants bool
}

// StepsResult is the payload of the steps command.
type StepsResult struct {
	Node  int        `json:"node"`
	Steps []key.Lead `json:"steps"`
}

// RenderText implements TextRenderer.
func (r StepsResult) RenderText(w io.Writer) error {
	for _, s := range r.Steps {
		line := fmt.Sprintf("%4d  %4d  %s", s.LeadID, s.ParentID, s.Text)
		if name := s.SpeciesName(); name != "" && name != s.Text {
			line += " [" + name + "]"
		}
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

// NewStepsCommand creates the steps command.
func NewStepsCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &StepsOptions{KeyOptions: KeyOptions{RootOptions: rootOpts}}

	cmd := &cobra.Command{
		Use:   "steps",
		Short: "Print the step list below a lead",
		Long: `Print the step list of a key starting at a lead.

The starting lead is numbered 1 and its descendants follow in pre-order, with
lead and parent ids shifted by the same offset.

Example:
  keynav steps --key butterflies
  keynav steps --key butterflies --node 2 --descendants`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSteps(opts, cmd)
		},
	}

	opts.bind(cmd)
	cmd.Flags().BoolVar(&opts.Descendants, "descendants", false, "omit the starting lead")

	return cmd
}

func runSteps(opts *StepsOptions, cmd *cobra.Command) error {
	return withNode(&opts.KeyOptions, cmd, func(s *session.Session, formatter *OutputFormatter) error {
		steps := s.Steps()
		if opts.Descendants {
			steps = s.Descendants()
		}
		return formatter.SuccessForKey(s.Identity(), StepsResult{Node: opts.Node, Steps: steps})
	})
}

// withNode loads the key, moves to the requested node, and hands the
// session to fn once the node is known to resolve.
func withNode(opts *KeyOptions, cmd *cobra.Command, fn func(*session.Session, *OutputFormatter) error) error {
	formatter := newFormatter(opts.RootOptions, cmd)
	env, err := openEnvironment(opts.RootOptions, cmd, formatter)
	if err != nil {
		return err
	}
	defer env.Close()

	identity := env.identity(opts.Key)
	formatter.VerboseLog("Loading key %q", identity)

	s, err := env.loadSession(commandContext(cmd), identity, formatter)
	if err != nil {
		return err
	}
	defer s.Dispose()

	s.SetCurrentNode(opts.Node)
	s.Steps()
	if !s.CurrentNodeValid() {
		if s.Tree().Empty() {
			return formatter.Fail(ExitFailure, ErrCodeNotFound,
				fmt.Sprintf("key %q selects no leads", identity), nil)
		}
		return formatter.Fail(ExitFailure, ErrCodeNotFound,
			fmt.Sprintf("lead %d is not part of key %q", opts.Node, identity), nil)
	}

	return fn(s, formatter)
}
