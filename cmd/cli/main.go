package main

import (
	"fmt"
	"os"

	"github.com/dmitrijs2005/healthsync/internal/client/cli"
)

func main() {
	if err := cli.NewRootCommand(os.Getenv).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
