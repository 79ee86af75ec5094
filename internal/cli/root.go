// Package cli implements the versiongen command line.
package cli

import (
	"fmt"
	"io"

	"github.com/samber/lo"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Verbose bool
	Format  string // "json" | "text"
	// Dir is the directory package patterns are resolved from.
	Dir string
	// Tags are extra build tags used when loading packages.
	Tags []string
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// NewRootCommand creates the root command for the versiongen CLI.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "versiongen",
		Short: "Generate versioned wrappers for Go structs",
		Long: `versiongen reads //versiongen:version directives (or versiongen.yaml entries)
and generates, next to each annotated struct, a wrapper type carrying a
version tag, conversions in both directions, and codec methods that save
and load the struct through the wrapper.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !lo.Contains(ValidFormats, opts.Format) {
				return fmt.Errorf("invalid format %q: must be one of %v", opts.Format, ValidFormats)
			}
			return nil
		},
	}

	// Global flags
	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text)")
	cmd.PersistentFlags().StringVarP(&opts.Dir, "dir", "C", "", "resolve package patterns from this directory")
	cmd.PersistentFlags().StringSliceVar(&opts.Tags, "tags", nil, "build tags used when loading packages")

	// Add subcommands
	cmd.AddCommand(NewGenCommand(opts))
	cmd.AddCommand(NewCheckCommand(opts))
	cmd.AddCommand(NewListCommand(opts))

	return cmd
}

// newLogger builds the logger for one command run. Logs go to w, normally
// stderr, so they never mix with command output.
func (o *RootOptions) newLogger(w io.Writer) *logrus.Logger {
	log := logrus.New()
	log.SetOutput(w)

	if o.Format == "json" {
		log.SetFormatter(&logrus.JSONFormatter{DisableTimestamp: true})
	} else {
		log.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})
	}

	log.SetLevel(logrus.InfoLevel)
	if o.Verbose {
		log.SetLevel(logrus.DebugLevel)
	}

	return log
}

func (o *RootOptions) formatter(cmd *cobra.Command) *OutputFormatter {
	return &OutputFormatter{Format: o.Format, Writer: cmd.OutOrStdout()}
}
