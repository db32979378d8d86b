package main

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "cargowatch",
	Short: "Run cargo check on save and publish per-file diagnostics",
	Long: `cargowatch finds the Cargo.toml above a saved Rust file, runs
cargo check --message-format=json there, and republishes the results
as per-file diagnostics: in the terminal (check, watch) or to an
editor over the Language Server Protocol (lsp).`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	// Global persistent flags (inherited by all subcommands)
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Show status for every phase of a run")
	rootCmd.PersistentFlags().Bool("quiet", false, "Suppress diagnostic output (exit code only)")
	rootCmd.PersistentFlags().Bool("color", false, "Force color output")
	rootCmd.PersistentFlags().String("config", ".cargowatch.yaml", "Config file path")

	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(watchCmd)
	rootCmd.AddCommand(lspCmd)
	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(completionCmd)
	rootCmd.AddCommand(versionCmd)
}

// addCheckFlags registers the flags shared by every command that runs checks.
func addCheckFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.String("command", "cargo", "Checker executable")
	f.StringSlice("args", []string{"check", "--message-format=json"}, "Checker arguments")
	f.String("manifest", "Cargo.toml", "Manifest file marking the project root")
	f.String("extension", ".rs", "Extension of files that trigger a check")
}

// addOutputFlags registers terminal output flags.
func addOutputFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.String("output-format", "", "Output format: issues|summary|json")
	f.Bool("print-lines", true, "Show source lines with diagnostics")
	f.Bool("show-hints", false, "Include hint-level diagnostics from secondary spans")
}
