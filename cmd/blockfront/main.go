// Package main is the entry point for the blockfront application.
package main

import (
	"os"

	"github.com/jmylchreest/blockfront/cmd/blockfront/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
