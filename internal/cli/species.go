package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/keynav/internal/key"
	"github.com/roach88/keynav/internal/session"
)

// SpeciesOptions holds flags for the species command.
type SpeciesOptions struct {
	KeyOptions
	Records bool
}

// SpeciesResult is the payload of the species command.
type SpeciesResult struct {
	Node    int                      `json:"node"`
	Species []key.SpeciesEntry       `json:"species,omitempty"`
	Records []key.SpeciesWithRecords `json:"records,omitempty"`
}

// RenderText implements TextRenderer.
func (r SpeciesResult) RenderText(w io.Writer) error {
	if r.Records != nil {
		for _, s := range r.Records {
			ids := make([]string, len(s.Records))
			for i, id := range s.Records {
				ids[i] = fmt.Sprint(id)
			}
			if _, err := fmt.Fprintf(w, "%s\t%s\n", s.Name, strings.Join(ids, ",")); err != nil {
				return err
			}
		}
		return nil
	}
	for _, s := range r.Species {
		line := s.Name
		if s.Image != nil {
			line += "\t" + *s.Image
		}
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

// NewSpeciesCommand creates the species command.
func NewSpeciesCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &SpeciesOptions{KeyOptions: KeyOptions{RootOptions: rootOpts}}

	cmd := &cobra.Command{
		Use:   "species",
		Short: "List the species reachable from a lead",
		Long: `List the species reachable from a lead, once each, sorted by name.

With --records, each species is listed with the record ids behind it
instead of its image.

Example:
  keynav species --key bees
  keynav species --node 3 --records --format json`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSpecies(opts, cmd)
		},
	}

	opts.bind(cmd)
	cmd.Flags().BoolVar(&opts.Records, "records", false, "group record ids under each species")

	return cmd
}

func runSpecies(opts *SpeciesOptions, cmd *cobra.Command) error {
	return withNode(&opts.KeyOptions, cmd, func(s *session.Session, formatter *OutputFormatter) error {
		result := SpeciesResult{Node: opts.Node}
		if opts.Records {
			result.Records = s.SpeciesWithRecords()
		} else {
			result.Species = s.Species()
		}
		return formatter.SuccessForKey(s.Identity(), result)
	})
}
