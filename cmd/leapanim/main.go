// Package main provides the leapanim CLI.
package main

import (
	"os"

	"github.com/leapstack-labs/leapanim/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
