// Package main provides the surbind CLI.
package main

import (
	"fmt"
	"os"

	"github.com/leapstack-labs/surbind/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
