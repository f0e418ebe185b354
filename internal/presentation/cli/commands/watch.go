package commands

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/jbctechsolutions/gtc/internal/infrastructure/watcher"
)

// NewWatchCmd creates the command that recounts files when they change.
func NewWatchCmd(ro *rootOptions, flags *GlobalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "watch <file|glob>...",
		Short: "Count tokens and recount whenever the files change",
		Long: `Count tokens in the given files, then watch them and print a fresh
count after each change until interrupted. Glob patterns also pick up
files created after the watch starts.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWatch(cmd, ro, flags, args)
		},
	}
}

func runWatch(cmd *cobra.Command, ro *rootOptions, flags *GlobalFlags, args []string) error {
	app, err := initializeApp(cmd, ro, flags)
	if err != nil {
		return &ExitError{Code: ExitFatal, Err: err}
	}
	defer app.Container.Close()

	ctx := cmd.Context()
	counter := app.Container.Counter()
	logger := app.Container.Logger()

	recount := func() error {
		report, err := counter.Count(ctx, app.request(args))
		if err != nil {
			return reportFatal(app.Formatter, err)
		}
		return app.Formatter.Report(report)
	}

	// A fatal first count ends the watch.
	if err := recount(); err != nil {
		return err
	}

	w, err := watcher.New(watcher.Config{Debounce: app.Config.Watch.Debounce}, args)
	if err != nil {
		return &ExitError{Code: ExitFatal, Err: fmt.Errorf("failed to create watcher: %w", err)}
	}
	defer w.Close()

	if err := w.Start(); err != nil {
		return &ExitError{Code: ExitFatal, Err: fmt.Errorf("failed to watch files: %w", err)}
	}

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-w.Events():
			if !ok {
				return nil
			}
			logger.InfoContext(ctx, "file changed", "path", event.Path, "event", string(event.Type))
			fmt.Fprintf(cmd.ErrOrStderr(), "\n[%s] %s %s\n", event.Timestamp.Format(time.TimeOnly), event.Type, event.Path)
			// Later fatal errors, such as every file removed, are reported and watching continues.
			_ = recount()

		case err, ok := <-w.Errors():
			if !ok {
				return nil
			}
			logger.WarnContext(ctx, "watch error", "error", err.Error())
		}
	}
}
