// Package main is the entry point for the bw CLI client.
package main

import (
	"github.com/basketwatch/basketwatch/cmd/bw/cmd"
)

func main() {
	cmd.Execute()
}
