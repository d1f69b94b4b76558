// scan-secrets checks files for likely credential leaks before they reach a
// commit. Findings print file:line only; token values are suppressed.
//
// Exit codes: 0 = clean, 1 = findings, 2 = usage error.
package main

import (
	"fmt"
	"os"

	"github.com/nyralabs/nyra-realtime/internal/secrets"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, "usage: scan-secrets <file> [file ...]")
		os.Exit(2)
	}

	findings, err := secrets.ScanFiles(os.Args[1:])
	if err != nil {
		fmt.Fprintln(os.Stderr, "scan failed:", err)
		os.Exit(2)
	}

	if len(findings) > 0 {
		fmt.Println("Potential secrets detected in the following files (values are suppressed):")
		for _, f := range findings {
			fmt.Printf("  %s\n", f)
		}
		fmt.Println("Please remove any secrets and keep them in .env.local instead")
		os.Exit(1)
	}

	fmt.Println("No likely secrets found.")
}
