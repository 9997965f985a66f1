// Package main generates CLI reference documentation from the bw command tree.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/spf13/cobra/doc"

	"github.com/basketwatch/basketwatch/cmd/bw/cmd"
)

func main() {
	output := flag.String("output", "docs/cli", "output directory for generated markdown")
	flag.Parse()

	if err := os.MkdirAll(*output, 0o750); err != nil {
		log.Fatalf("creating output directory: %v", err)
	}

	root := cmd.Root()
	root.DisableAutoGenTag = true

	if err := doc.GenMarkdownTree(root, *output); err != nil {
		log.Fatalf("generating docs: %v", err)
	}

	pages, err := filepath.Glob(filepath.Join(*output, "*.md"))
	if err != nil {
		log.Fatalf("listing generated docs: %v", err)
	}
	fmt.Printf("generated %d CLI doc pages in %s/\n", len(pages), *output)
}
