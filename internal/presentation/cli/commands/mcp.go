package commands

import (
	"context"
	"errors"

	"github.com/spf13/cobra"

	adapterMCP "github.com/jbctechsolutions/gtc/internal/adapters/mcp"
)

// NewMCPCmd creates the command that serves the counting tools over MCP.
func NewMCPCmd(ro *rootOptions, flags *GlobalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "mcp",
		Short: "Run the token counter as an MCP server on stdio",
		Long: `Serve count_tokens, count_tokens_multi, count_text_tokens and
list_encodings to MCP clients over stdin and stdout. Logs go to stderr.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := initializeApp(cmd, ro, flags)
			if err != nil {
				return &ExitError{Code: ExitFatal, Err: err}
			}
			defer app.Container.Close()

			return RunMCPServer(cmd, app)
		},
	}
}

// RunMCPServer serves MCP requests from the command's stdin until it closes
// or the command context is cancelled.
func RunMCPServer(cmd *cobra.Command, app *AppContext) error {
	c := app.Container
	srv := adapterMCP.NewServer(c.Counter(), c.Logger(), c.Tracer(), Version)
	err := srv.Serve(cmd.Context(), cmd.InOrStdin(), cmd.OutOrStdout())
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}
