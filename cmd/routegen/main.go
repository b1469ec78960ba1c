// Command routegen generates Go route tables and OpenAPI documents from
// .routes declaration files.
package main

import (
	"os"

	"github.com/conduit-lang/routegen/internal/cli/commands"
)

var (
	// Version information - set at build time via -ldflags
	Version   = "dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

func main() {
	commands.Version = Version
	commands.GitCommit = GitCommit
	commands.BuildDate = BuildDate

	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
