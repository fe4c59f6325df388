// Package main provides the entry point for the mlq CLI.
package main

import (
	"os"

	"github.com/joemfb/ml-common-ng/cmd/mlq/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
