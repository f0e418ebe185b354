// gtc-mcp serves the gtc token counting tools to MCP clients over stdio.
package main

import (
	"os"

	"github.com/jbctechsolutions/gtc/internal/presentation/cli/commands"
)

func main() {
	os.Args = append([]string{os.Args[0], "mcp"}, os.Args[1:]...)
	commands.Execute()
}
