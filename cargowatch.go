// Package cargowatch turns `cargo check` runs into per-file diagnostics.
//
// A host reports document saves to a Checker. For each save of a Rust source
// file the Checker finds the enclosing Cargo.toml, runs the checker process
// there, decodes its newline-delimited JSON output, and republishes the
// diagnostics for every file it knows about.
//
// # Checking
//
//	checker := cargowatch.NewChecker(cargowatch.DefaultConfig(),
//		cargowatch.ExecRunner{}, cargowatch.NewCollection(), nil)
//	result, err := checker.OnSave(ctx, "/home/me/demo/src/main.rs")
//
// # Severity
//
// Each span of a compiler message becomes one diagnostic:
//
//   - primary span, level "error"  → SeverityError
//   - primary span, any other level → SeverityWarning
//   - secondary span               → SeverityHint
//
// Secondary spans carry "message: label" so they read as cross references to
// the primary location.
//
// # Hosts
//
// cmd/cargowatch provides three hosts: a one-shot `check`, a filesystem
// `watch`, and an `lsp` server over stdio.
package cargowatch
