package main

import (
	"context"
	"fmt"
	"os"
	"sync"

	"github.com/spf13/cobra"
	"github.com/yacobolo/cargowatch"
	"github.com/yacobolo/cargowatch/internal/watch"
	"golang.org/x/sync/errgroup"
)

var watchCmd = &cobra.Command{
	Use:   "watch [dir]",
	Short: "Watch a directory and check on every Rust file save",
	Long: `Watch a directory tree (default: current directory) and run a check
each time a Rust source file is written. Diagnostics are reprinted after
every run. Stop with Ctrl-C.`,
	Args: cobra.MaximumNArgs(1),
	PreRunE: func(cmd *cobra.Command, _ []string) error {
		return loadConfig(cmd)
	},
	RunE: runWatch,
}

func init() {
	addCheckFlags(watchCmd)
	addOutputFlags(watchCmd)
	f := watchCmd.Flags()
	f.StringSlice("ignore", watch.DefaultIgnore, "Glob patterns (relative to the watched dir) to ignore")
	f.Duration("debounce", watch.DefaultDebounce, "Quiet period before a write counts as a save")
	f.Bool("gitignore", true, "Skip paths matched by the watched dir's .gitignore")
}

func runWatch(cmd *cobra.Command, args []string) error {
	dir := "."
	if len(args) == 1 {
		dir = args[0]
	}

	checker, collection, err := newTerminalChecker()
	if err != nil {
		return err
	}

	notifier := cargowatch.NewStreamNotifier(os.Stderr, buildOutputConfig("").UseColors, true)
	opts := buildWatchOptions(dir)
	opts.OnError = func(err error) { notifier.Warn(err.Error()) }
	w, err := watch.New(opts)
	if err != nil {
		return err
	}
	notifier.Status(cargowatch.StateIdle, fmt.Sprintf("watching %s (%d directories)", w.Root(), len(w.WatchList())))

	quiet := getBoolWithFallback("quiet", "quiet", false)
	format := cargowatch.DetermineOutputFormat(getStringWithFallback("output-format", "output.format", ""))
	var printMu sync.Mutex

	handle := func(ctx context.Context, path string) {
		result, err := checker.OnSave(ctx, path)
		if err != nil || result == nil || result.Discarded || quiet {
			return
		}
		printMu.Lock()
		defer printMu.Unlock()
		cargowatch.WriteOutput(os.Stdout, collection.Snapshot(), format, buildOutputConfig(result.Root))
	}

	g, gctx := errgroup.WithContext(cmd.Context())
	g.Go(func() error {
		return w.Run(gctx, handle)
	})
	g.Go(func() error {
		<-gctx.Done()
		return w.Close()
	})
	return g.Wait()
}
