// Command versiongen generates versioned wrappers, conversions and codec
// redirection for annotated Go structs.
//
// Usage:
//
//	versiongen gen ./...
//	versiongen check --stale ./...
//	versiongen list --format json ./...
//
// A declaration opts in with a directive in its doc comment:
//
//	//versiongen:version 3 layout=flatten codecs=json,yaml
//	type Order struct { ... }
package main

import (
	"errors"
	"fmt"
	"os"

	"versiongen/internal/cli"
)

func main() {
	command := cli.NewRootCommand()
	if err := command.Execute(); err != nil {
		// Commands report their own failures; flag and usage errors are not.
		var exitErr *cli.ExitError
		if !errors.As(err, &exitErr) {
			fmt.Fprintln(os.Stderr, "error:", err)
		}
		os.Exit(cli.GetExitCode(err))
	}
}
