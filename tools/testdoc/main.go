// testdoc generates docs/TESTS.md from the Scenario/Expected doc comments
// carried by the grm test suites.
//
//go:generate go run . -root ../.. -out ../../docs/TESTS.md
package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
)

func main() {
	var (
		rootDir         string
		outputFile      string
		integrationOnly bool
	)

	flag.StringVar(&rootDir, "root", ".", "root directory to scan for test files")
	flag.StringVar(&outputFile, "out", "docs/TESTS.md", "output markdown file")
	flag.BoolVar(&integrationOnly, "integration", false, "only include integration tests (*_integration_test.go)")
	flag.Parse()

	absRoot, err := filepath.Abs(rootDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error resolving root directory: %v\n", err)
		os.Exit(1)
	}

	packages, err := ParseTestFiles(absRoot, integrationOnly)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error parsing test files: %v\n", err)
		os.Exit(1)
	}

	if err := os.MkdirAll(filepath.Dir(outputFile), 0o755); err != nil {
		fmt.Fprintf(os.Stderr, "error creating output directory: %v\n", err)
		os.Exit(1)
	}

	f, err := os.Create(outputFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error creating output file: %v\n", err)
		os.Exit(1)
	}
	defer f.Close()

	if err := RenderMarkdown(f, packages); err != nil {
		fmt.Fprintf(os.Stderr, "error rendering markdown: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Generated %s from %d packages\n", outputFile, len(packages))
}
