package main

import (
	"fmt"
	"os"

	"github.com/marcelsud/webhook-gateway/providers"
)

/* validate-providers - Standalone CLI tool to validate providers.yaml
 * Usage: go run cmd/validate-providers/main.go [providers.yaml]
 * Exit codes: 0 = valid, 1 = invalid
 */

func main() {
	providersFile := "providers.yaml"
	if len(os.Args) > 1 {
		providersFile = os.Args[1]
	}

	fmt.Printf("Validating providers file: %s\n\n", providersFile)

	// Overrides are validated against an empty global secret so a
	// provider enabled without its own secret fails loudly here
	loader := providers.NewLoader("")
	if err := loader.Load(providersFile); err != nil {
		fmt.Fprintf(os.Stderr, "❌ VALIDATION FAILED\n\n")
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	loaded := loader.List()
	fmt.Printf("✓ VALIDATION PASSED\n\n")
	fmt.Printf("Effective provider configuration:\n")

	for i, p := range loaded {
		fmt.Printf("\n%d. Provider: %s\n", i+1, p.Name)
		fmt.Printf("   Enabled:     %t\n", p.Enabled)
		fmt.Printf("   Has secret:  %t\n", p.Secret != "")
	}
}
