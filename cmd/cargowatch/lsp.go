package main

import (
	"errors"
	"log"
	"os"

	"github.com/spf13/cobra"
	"github.com/yacobolo/cargowatch"
	"github.com/yacobolo/cargowatch/internal/lsp"
)

var lspCmd = &cobra.Command{
	Use:   "lsp",
	Short: "Run the cargowatch language server over stdio",
	Long: `Serve diagnostics to an editor over the Language Server Protocol.
Every textDocument/didSave of a Rust file triggers a check; results are
sent as textDocument/publishDiagnostics.`,
	PreRunE: func(cmd *cobra.Command, _ []string) error {
		return loadConfig(cmd)
	},
	RunE: runLSP,
}

func init() {
	addCheckFlags(lspCmd)
}

func runLSP(cmd *cobra.Command, _ []string) error {
	manifests, err := cargowatch.NewManifestCache(64)
	if err != nil {
		return err
	}
	server := lsp.NewServer(os.Stdin, os.Stdout, lsp.ServerOptions{
		Config:    buildCheckConfig(),
		Runner:    cargowatch.ExecRunner{},
		Manifests: manifests,
		Logger:    log.New(os.Stderr, "lsp: ", log.LstdFlags),
		Version:   version,
	})
	if err := server.Run(cmd.Context()); err != nil {
		if errors.Is(err, lsp.ErrExit) {
			return nil
		}
		return err
	}
	return nil
}
