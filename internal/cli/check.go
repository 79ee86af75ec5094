package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"versiongen/internal/gen"
)

// CheckOptions holds flags for the check command.
type CheckOptions struct {
	Config string
	Stale  bool
}

// CheckResult is the JSON payload of a successful check run.
type CheckResult struct {
	Declarations int              `json:"declarations"`
	Stale        []string         `json:"stale,omitempty"`
	Diagnostics  []DiagnosticView `json:"diagnostics,omitempty"`
}

// NewCheckCommand creates the check command.
func NewCheckCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &CheckOptions{}

	cmd := &cobra.Command{
		Use:   "check [packages...]",
		Short: "Report diagnostics without writing files",
		Long: `Run every check gen runs and report the diagnostics.

With --stale, also fail when a generated file on disk differs from what gen
would write now, or when earlier output has no declarations left to hold.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCheck(rootOpts, opts, args, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Config, "config", "", "configuration file shared by all packages (default: versiongen.yaml in each package)")
	cmd.Flags().BoolVar(&opts.Stale, "stale", false, "fail when generated files are out of date")

	return cmd
}

func runCheck(rootOpts *RootOptions, opts *CheckOptions, patterns []string, cmd *cobra.Command) error {
	formatter := rootOpts.formatter(cmd)
	log := rootOpts.newLogger(cmd.ErrOrStderr())

	p := &pipeline{opts: rootOpts, log: log, configPath: opts.Config}

	result, err := p.run(patterns)
	if err != nil {
		return formatter.Fail(err)
	}

	if err := report(log, result.Diagnostics); err != nil {
		_ = formatter.Error(ErrCodeDiagnostics, err.Error(), diagnosticViews(result.Diagnostics))
		return err
	}

	out := CheckResult{
		Declarations: len(result.Bundles()),
		Diagnostics:  diagnosticViews(result.Diagnostics),
	}

	if opts.Stale {
		files, orphans, err := render(result, false)
		if err != nil {
			return formatter.Fail(err)
		}

		for _, f := range files {
			stale, err := gen.Stale(f)
			if err != nil {
				return formatter.Fail(WrapExitError(ExitCommandError, "comparing generated code", err))
			}

			if stale {
				out.Stale = append(out.Stale, f.Path())
			}
		}

		out.Stale = append(out.Stale, orphans...)
	}

	if len(out.Stale) > 0 {
		err := NewExitError(ExitFailure, fmt.Sprintf("%d generated file(s) out of date; run versiongen gen", len(out.Stale)))
		for _, path := range out.Stale {
			log.WithField("file", path).Error("out of date")
		}

		_ = formatter.Error(ErrCodeStale, err.Error(), out.Stale)

		return err
	}

	if !formatter.JSON() {
		fmt.Fprintf(formatter.Writer, "ok: %d declaration(s) checked\n", out.Declarations)
	}

	return formatter.Success(out)
}
