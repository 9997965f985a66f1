// Package main is the entry point for the basketd server.
package main

import (
	"os"

	"github.com/basketwatch/basketwatch/cmd/basketd/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
