package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Generate a default .cargowatch.yaml config file",
	Long:  `Create a .cargowatch.yaml configuration file in the current directory with sensible defaults.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		force, _ := cmd.Flags().GetBool("force")

		if _, err := os.Stat(".cargowatch.yaml"); err == nil && !force {
			return fmt.Errorf(".cargowatch.yaml already exists (use --force to overwrite)")
		}

		if err := os.WriteFile(".cargowatch.yaml", []byte(defaultConfig), 0644); err != nil {
			return fmt.Errorf("writing config file: %w", err)
		}

		fmt.Println("Created .cargowatch.yaml")
		return nil
	},
}

const defaultConfig = `# cargowatch configuration

verbose: false
color: false

# Checker invocation
check:
  command: cargo
  args:
    - check
    - --message-format=json
  manifest: Cargo.toml
  extension: .rs

# Terminal output (check and watch)
output:
  format: issues           # issues | summary | json
  print-lines: true
  show-hints: false

# File watching
watch:
  debounce: 100ms
  gitignore: true
  ignore:
    - "target/**"
    - ".git/**"
`

func init() {
	initCmd.Flags().Bool("force", false, "Overwrite existing config file")
}
