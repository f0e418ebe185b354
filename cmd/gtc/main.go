// GTC CLI entry point
//
// gtc counts GPT tokens in files using the BPE encodings behind OpenAI
// models, for estimating API costs and context window usage.
package main

import "github.com/jbctechsolutions/gtc/internal/presentation/cli/commands"

func main() {
	commands.Execute()
}
