// sitegate-admin is the operator CLI: signing-material provisioning and
// checks, token minting and inspection, and lock-state management
// against the same state file the server uses.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "sitegate-admin: %v\n", err)
		os.Exit(1)
	}
}
