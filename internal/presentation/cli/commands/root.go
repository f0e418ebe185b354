// Package commands implements the CLI commands for gtc.
package commands

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/jbctechsolutions/gtc/internal/application"
	"github.com/jbctechsolutions/gtc/internal/application/counting"
	domainErrors "github.com/jbctechsolutions/gtc/internal/domain/errors"
	"github.com/jbctechsolutions/gtc/internal/infrastructure/config"
	"github.com/jbctechsolutions/gtc/internal/presentation/cli/output"
)

// Version information - set at build time via ldflags.
var (
	Version   = "1.0.0"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// Exit codes.
const (
	ExitOK          = 0
	ExitFileErrors  = 1
	ExitFatal       = 2
	ExitInterrupted = 130
)

const listHint = "Use --list-encodings to see available options."

// GlobalFlags holds the CLI flags shared by the root command and its
// subcommands.
type GlobalFlags struct {
	ConfigFile    string
	Output        string
	Verbose       bool
	Model         string
	Encoding      string
	ListEncodings bool
}

// ExitError carries the process exit code for a failed run. Err is nil
// when the failure was already reported to the user.
type ExitError struct {
	Code int
	Err  error
}

func (e *ExitError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("exit status %d", e.Code)
	}
	return e.Err.Error()
}

func (e *ExitError) Unwrap() error {
	return e.Err
}

// AppContext holds the application runtime context of one invocation.
type AppContext struct {
	Config    *config.Config
	Formatter *output.Formatter
	Flags     *GlobalFlags
	Container *application.Container
}

// rootOptions configures command construction.
type rootOptions struct {
	configDir     string
	containerOpts []application.Option
}

// RootOption customizes NewRootCmd.
type RootOption func(*rootOptions)

// WithConfigDir sets the directory searched for config.yaml.
func WithConfigDir(dir string) RootOption {
	return func(o *rootOptions) {
		o.configDir = dir
	}
}

// WithContainerOptions passes options through to the application container.
func WithContainerOptions(opts ...application.Option) RootOption {
	return func(o *rootOptions) {
		o.containerOpts = append(o.containerOpts, opts...)
	}
}

// NewRootCmd creates the root command for the gtc CLI.
func NewRootCmd(opts ...RootOption) *cobra.Command {
	ro := &rootOptions{}
	for _, opt := range opts {
		opt(ro)
	}
	flags := &GlobalFlags{}

	rootCmd := &cobra.Command{
		Use:   "gtc [flags] <file|glob>...",
		Short: "GPT Token Counter - count tokens in files using tiktoken",
		Long: `gtc counts BPE tokens in files with the encoding used by a GPT model.
Useful for estimating API costs and context window usage.

Examples:
  gtc README.md
  gtc docs/*.md
  gtc '**/*.md' --model gpt-4
  gtc file.md --encoding cl100k_base
  gtc file.md -v`,
		Version:       Version,
		Args:          cobra.ArbitraryArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCount(cmd, ro, flags, args)
		},
	}
	rootCmd.SetVersionTemplate("{{.Name}} {{.Version}}\n")

	pf := rootCmd.PersistentFlags()
	pf.StringVarP(&flags.ConfigFile, "config", "c", "", "config file path (default: ~/.gtc/config.yaml)")
	pf.StringVarP(&flags.Output, "output", "o", "text", "output format: text, json")
	pf.BoolVarP(&flags.Verbose, "verbose", "v", false, "show encoding details and per-file character counts")
	pf.StringVarP(&flags.Model, "model", "m", "", "model name (default: gpt-5). Examples: gpt-5, gpt-4o, gpt-4")
	pf.StringVarP(&flags.Encoding, "encoding", "e", "", "encoding name, overrides --model. Examples: cl100k_base, o200k_base")
	rootCmd.Flags().BoolVar(&flags.ListEncodings, "list-encodings", false, "list available encodings and model mappings, then exit")

	rootCmd.AddCommand(NewVersionCmd(flags))
	rootCmd.AddCommand(NewInitCmd(ro, flags))
	rootCmd.AddCommand(NewMCPCmd(ro, flags))
	rootCmd.AddCommand(NewWatchCmd(ro, flags))

	return rootCmd
}

// initializeApp loads configuration and builds the container for one run.
func initializeApp(cmd *cobra.Command, ro *rootOptions, flags *GlobalFlags) (*AppContext, error) {
	format, err := output.ParseFormat(flags.Output)
	if err != nil {
		return nil, err
	}

	formatter := output.NewFormatter(
		output.WithWriter(cmd.OutOrStdout()),
		output.WithErrWriter(cmd.ErrOrStderr()),
		output.WithFormat(format),
		output.WithColor(format != output.FormatJSON && output.ColorFor(cmd.OutOrStdout())),
		output.WithErrColor(output.ColorFor(cmd.ErrOrStderr())),
		output.WithVerbose(flags.Verbose),
	)

	cfg, err := loadConfig(ro.configDir, flags.ConfigFile)
	if err != nil {
		return nil, err
	}

	containerOpts := append([]application.Option{application.WithLogOutput(cmd.ErrOrStderr())}, ro.containerOpts...)
	container, err := application.NewContainer(cfg, flags.Verbose, containerOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize application: %w", err)
	}

	return &AppContext{
		Config:    container.Config(),
		Formatter: formatter,
		Flags:     flags,
		Container: container,
	}, nil
}

// loadConfig loads configuration from the specified file or default location.
func loadConfig(configDir, configPath string) (*config.Config, error) {
	loader, err := config.NewLoader(configDir)
	if err != nil {
		return nil, fmt.Errorf("failed to create config loader: %w", err)
	}

	return loader.Load(configPath)
}

// request builds a counting request. Unset flags fall back to the config
// defaults held by the container's resolver.
func (a *AppContext) request(args []string) counting.Request {
	return counting.Request{Patterns: args, Model: a.Flags.Model, Encoding: a.Flags.Encoding}
}

func runCount(cmd *cobra.Command, ro *rootOptions, flags *GlobalFlags, args []string) error {
	app, err := initializeApp(cmd, ro, flags)
	if err != nil {
		return &ExitError{Code: ExitFatal, Err: err}
	}
	defer app.Container.Close()

	counter := app.Container.Counter()

	if flags.ListEncodings {
		return app.Formatter.Encodings(counter.ListEncodings())
	}

	report, err := counter.Count(cmd.Context(), app.request(args))
	if err != nil {
		return reportFatal(app.Formatter, err)
	}

	if err := app.Formatter.Report(report); err != nil {
		return err
	}

	if report.HasFailures() {
		return &ExitError{Code: ExitFileErrors}
	}
	return nil
}

// reportFatal prints a fatal counting error and maps it to an exit code.
// Errors that are not fatal count errors are returned for Execute to print.
func reportFatal(formatter *output.Formatter, err error) error {
	if errors.Is(err, context.Canceled) {
		return &ExitError{Code: ExitInterrupted, Err: errors.New("interrupted")}
	}
	if !domainErrors.IsFatal(err) {
		return &ExitError{Code: ExitFatal, Err: err}
	}

	hint := ""
	if errors.Is(err, domainErrors.ErrUnknownModel) || errors.Is(err, domainErrors.ErrUnknownEncoding) {
		hint = listHint
	}

	formatter.Fatal(errors.New(domainErrors.UserMessage(err)), hint)
	return &ExitError{Code: ExitFatal}
}

// ExitCode maps an error returned by the root command to a process exit code.
func ExitCode(err error) int {
	if err == nil {
		return ExitOK
	}
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	if errors.Is(err, context.Canceled) {
		return ExitInterrupted
	}
	return ExitFatal
}

// Execute runs the root command with graceful shutdown support and exits
// with the code for the outcome.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	rootCmd := NewRootCmd()
	err := rootCmd.ExecuteContext(ctx)

	var exitErr *ExitError
	if err != nil && (!errors.As(err, &exitErr) || exitErr.Err != nil) {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	}

	code := ExitCode(err)
	stop()
	os.Exit(code)
}
