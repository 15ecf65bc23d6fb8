// Package main provides the coffeelint command.
package main

import (
	"os"

	"github.com/leapstack-labs/coffeelint/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
