package commands

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/jbctechsolutions/gtc/internal/infrastructure/config"
	"github.com/jbctechsolutions/gtc/internal/presentation/cli/output"
)

// InitResult holds the result of the init command for JSON output.
type InitResult struct {
	ConfigDir   string `json:"config_dir"`
	ConfigFile  string `json:"config_file"`
	Initialized bool   `json:"initialized"`
}

// NewInitCmd creates the init command.
func NewInitCmd(ro *rootOptions, flags *GlobalFlags) *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a default gtc configuration file",
		Long: `Write a config.yaml with the default settings to ~/.gtc/, or to the
path given with --config. An existing file is kept unless --force is set.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInit(cmd, ro, flags, force)
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "overwrite existing configuration")

	return cmd
}

func runInit(cmd *cobra.Command, ro *rootOptions, flags *GlobalFlags, force bool) error {
	format, err := output.ParseFormat(flags.Output)
	if err != nil {
		return &ExitError{Code: ExitFatal, Err: err}
	}
	formatter := output.NewFormatter(
		output.WithWriter(cmd.OutOrStdout()),
		output.WithErrWriter(cmd.ErrOrStderr()),
		output.WithFormat(format),
	)

	loader, err := config.NewLoader(ro.configDir)
	if err != nil {
		return &ExitError{Code: ExitFatal, Err: fmt.Errorf("failed to create config loader: %w", err)}
	}

	result := InitResult{
		ConfigDir:  loader.ConfigDir(),
		ConfigFile: loader.DefaultConfigPath(),
	}
	if flags.ConfigFile != "" {
		result.ConfigFile = flags.ConfigFile
		result.ConfigDir = filepath.Dir(flags.ConfigFile)
	}

	if _, err := os.Stat(result.ConfigFile); err == nil && !force {
		return &ExitError{Code: ExitFatal, Err: fmt.Errorf("config file already exists: %s (use --force to overwrite)", result.ConfigFile)}
	}

	if err := loader.Save(config.NewDefaultConfig(), result.ConfigFile); err != nil {
		return &ExitError{Code: ExitFatal, Err: err}
	}
	result.Initialized = true

	if format == output.FormatJSON {
		return formatter.JSON(result)
	}
	return formatter.Println("Wrote %s", result.ConfigFile)
}
