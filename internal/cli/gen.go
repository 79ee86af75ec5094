package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"versiongen/internal/gen"
)

// GenOptions holds flags for the gen command.
type GenOptions struct {
	Config string
	DryRun bool
	Output string
}

// GenResult is the JSON payload of a successful gen run.
type GenResult struct {
	DryRun      bool             `json:"dryRun,omitempty"`
	Files       []string         `json:"files"`
	Removed     []string         `json:"removed,omitempty"`
	Diagnostics []DiagnosticView `json:"diagnostics,omitempty"`
}

// NewGenCommand creates the gen command.
func NewGenCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &GenOptions{}

	cmd := &cobra.Command{
		Use:   "gen [packages...]",
		Short: "Generate versioned wrappers",
		Long: `Generate the versioned wrapper, conversions and codec methods of every
annotated declaration, one file per package.

Nothing is written when any declaration is rejected. Output left behind by
earlier runs that no longer has declarations to hold is removed.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGen(rootOpts, opts, args, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Config, "config", "", "configuration file shared by all packages (default: versiongen.yaml in each package)")
	cmd.Flags().BoolVar(&opts.DryRun, "dry-run", false, "print generated code instead of writing it")
	cmd.Flags().StringVarP(&opts.Output, "output", "o", "", "generated file name, overriding configuration")

	return cmd
}

func runGen(rootOpts *RootOptions, opts *GenOptions, patterns []string, cmd *cobra.Command) error {
	formatter := rootOpts.formatter(cmd)
	log := rootOpts.newLogger(cmd.ErrOrStderr())

	if err := validateOutputName(opts.Output); err != nil {
		return formatter.Fail(err)
	}

	p := &pipeline{opts: rootOpts, log: log, configPath: opts.Config, output: opts.Output}

	result, err := p.run(patterns)
	if err != nil {
		return formatter.Fail(err)
	}

	if err := report(log, result.Diagnostics); err != nil {
		_ = formatter.Error(ErrCodeDiagnostics, err.Error(), diagnosticViews(result.Diagnostics))
		return err
	}

	files, orphans, err := render(result, !opts.DryRun)
	if err != nil {
		return formatter.Fail(err)
	}

	out := GenResult{DryRun: opts.DryRun, Files: []string{}, Diagnostics: diagnosticViews(result.Diagnostics)}
	for _, f := range files {
		out.Files = append(out.Files, f.Path())
	}

	if opts.DryRun {
		if !formatter.JSON() {
			for _, f := range files {
				fmt.Fprintf(formatter.Writer, "==> %s <==\n%s", f.Path(), f.Content)
			}
		}

		out.Removed = orphans

		return formatter.Success(out)
	}

	if err := gen.WriteFiles(files); err != nil {
		return formatter.Fail(WrapExitError(ExitCommandError, "writing generated code", err))
	}

	for _, f := range files {
		log.Debugf("wrote %s (%d bytes)", f.Path(), len(f.Content))
	}

	if err := gen.RemoveFiles(orphans); err != nil {
		return formatter.Fail(WrapExitError(ExitCommandError, "removing earlier output", err))
	}

	out.Removed = orphans

	if !formatter.JSON() {
		for _, path := range out.Files {
			fmt.Fprintf(formatter.Writer, "wrote %s\n", path)
		}

		for _, path := range out.Removed {
			fmt.Fprintf(formatter.Writer, "removed %s\n", path)
		}
	}

	return formatter.Success(out)
}

// validateOutputName checks an --output value; like the output setting of
// versiongen.yaml it must name a Go file in the package directory.
func validateOutputName(name string) error {
	if name == "" {
		return nil
	}

	if !strings.HasSuffix(name, ".go") || strings.ContainsAny(name, `/\`) {
		return NewExitError(ExitCommandError, fmt.Sprintf("invalid --output %q: must be a .go file name without directories", name))
	}

	return nil
}
