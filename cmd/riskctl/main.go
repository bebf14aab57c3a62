// Command riskctl scores transactions locally with the same engine the
// risk service runs, and prints the effective engine configuration.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
