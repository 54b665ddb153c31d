// Command vaultctl is the terminal client for a vault-core deployment's
// Directory and Bucket services.
package main

import (
	"fmt"
	"os"

	"github.com/AntonioVentilii/vault-core/internal/vaultctl/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
