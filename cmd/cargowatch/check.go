package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/yacobolo/cargowatch"
)

var checkCmd = &cobra.Command{
	Use:   "check <file.rs>",
	Short: "Check the crate containing a file once and print its diagnostics",
	Long: `Run one check as if the given file had just been saved: locate the
enclosing Cargo.toml, run the checker there, and print every diagnostic.
Exits 1 when any error-level diagnostic is reported.`,
	Args: cobra.ExactArgs(1),
	PreRunE: func(cmd *cobra.Command, _ []string) error {
		return loadConfig(cmd)
	},
	RunE: runCheck,
}

func init() {
	addCheckFlags(checkCmd)
	addOutputFlags(checkCmd)
}

func runCheck(cmd *cobra.Command, args []string) error {
	path, err := filepath.Abs(args[0])
	if err != nil {
		return fmt.Errorf("resolving %s: %w", args[0], err)
	}

	checker, collection, err := newTerminalChecker()
	if err != nil {
		return err
	}
	if !checker.Matches(path) {
		return fmt.Errorf("%s does not end with %s", args[0], checker.Config().Extension)
	}

	result, err := checker.OnSave(cmd.Context(), path)
	if err != nil {
		return fmt.Errorf("check failed: %w", err)
	}

	snapshot := collection.Snapshot()
	if !getBoolWithFallback("quiet", "quiet", false) {
		format := cargowatch.DetermineOutputFormat(getStringWithFallback("output-format", "output.format", ""))
		output := buildOutputConfig(result.Root)
		cargowatch.WriteOutput(os.Stdout, snapshot, format, output)
		if getBoolWithFallback("verbose", "verbose", false) && format != cargowatch.OutputJSON {
			verbose := cargowatch.NewVerboseReporter(os.Stdout, output.UseColors)
			verbose.PrintStatistics(result)
			verbose.PrintWarnings(result)
		}
	}

	// Only errors fail the command; warnings and hints are informational
	if cargowatch.Summarize(snapshot).Errors > 0 {
		os.Exit(1)
	}
	return nil
}

// newTerminalChecker wires a Checker to an in-memory collection and a stderr notifier.
func newTerminalChecker() (*cargowatch.Checker, *cargowatch.Collection, error) {
	manifests, err := cargowatch.NewManifestCache(64)
	if err != nil {
		return nil, nil, err
	}
	collection := cargowatch.NewCollection()
	notifier := cargowatch.NewStreamNotifier(os.Stderr,
		buildOutputConfig("").UseColors,
		getBoolWithFallback("verbose", "verbose", false))
	checker := cargowatch.NewChecker(buildCheckConfig(), cargowatch.ExecRunner{}, collection, notifier,
		cargowatch.WithManifestCache(manifests))
	return checker, collection, nil
}
