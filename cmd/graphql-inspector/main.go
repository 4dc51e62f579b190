package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/cameron-headspace/graphql-inspector/pkg/cli"
)

func main() {
	rootCmd := cli.NewRootCommand()

	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		// a failed check has already been reported on stdout
		if !errors.Is(err, cli.ErrCheckFailed) {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		os.Exit(cli.GetExitCode(err))
	}
}
