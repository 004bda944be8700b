// Package main provides the tinybars CLI.
package main

import (
	"os"

	"github.com/eslym/tinybars/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
