// Command draftctl inspects and maintains the assessment draft store.
package main

import (
	"fmt"
	"os"

	"github.com/roach88/quotedraft/internal/cli"
	"github.com/roach88/quotedraft/internal/config"
)

func main() {
	if err := config.LoadDotEnv(".env"); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(cli.ExitCommandError)
	}

	if err := cli.NewRootCommand().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(cli.GetExitCode(err))
	}
}
