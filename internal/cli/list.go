package cli

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/samber/lo"
	"github.com/spf13/cobra"

	"versiongen/internal/plan"
)

// ListEntry describes one versioned declaration.
type ListEntry struct {
	Package string   `json:"package"`
	Type    string   `json:"type"`
	Version uint8    `json:"version"`
	Wrapper string   `json:"wrapper"`
	Layout  string   `json:"layout"`
	Naming  string   `json:"naming"`
	Codecs  []string `json:"codecs"`
	Generic bool     `json:"generic,omitempty"`
}

// NewListCommand creates the list command.
func NewListCommand(rootOpts *RootOptions) *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:           "list [packages...]",
		Short:         "List versioned declarations and their wrapper names",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runList(rootOpts, configPath, args, cmd)
		},
	}

	cmd.Flags().StringVar(&configPath, "config", "", "configuration file shared by all packages (default: versiongen.yaml in each package)")

	return cmd
}

func runList(rootOpts *RootOptions, configPath string, patterns []string, cmd *cobra.Command) error {
	formatter := rootOpts.formatter(cmd)
	log := rootOpts.newLogger(cmd.ErrOrStderr())

	p := &pipeline{opts: rootOpts, log: log, configPath: configPath}

	result, err := p.run(patterns)
	if err != nil {
		return formatter.Fail(err)
	}

	entries := listEntries(result)

	// Declarations that were rejected are reported, but the valid ones are
	// still listed.
	reportErr := report(log, result.Diagnostics)

	if formatter.JSON() {
		if err := formatter.Success(entries); err != nil {
			return err
		}
	} else if len(entries) > 0 {
		w := tabwriter.NewWriter(formatter.Writer, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "PACKAGE\tTYPE\tVERSION\tWRAPPER\tLAYOUT\tCODECS")

		for _, e := range entries {
			fmt.Fprintf(w, "%s\t%s\t%d\t%s\t%s\t%s\n",
				e.Package, e.Type, e.Version, e.Wrapper, e.Layout, strings.Join(e.Codecs, ","))
		}

		if err := w.Flush(); err != nil {
			return err
		}
	}

	return reportErr
}

func listEntries(p *plan.Plan) []ListEntry {
	entries := []ListEntry{}

	for _, pp := range p.Packages {
		for _, b := range pp.Bundles {
			entries = append(entries, ListEntry{
				Package: pp.Package.Path,
				Type:    b.Name(),
				Version: b.Version,
				Wrapper: b.Wrapper.Name,
				Layout:  b.Options.Layout.String(),
				Naming:  b.Options.Naming.String(),
				Codecs:  lo.Map(b.Options.Codecs, func(c plan.Codec, _ int) string { return c.String() }),
				Generic: b.Original.IsGeneric(),
			})
		}
	}

	return entries
}
