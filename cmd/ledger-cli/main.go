// Command ledger-cli manages the ledger from a terminal using the same
// configuration as the server.
package main

import (
	"context"
	"fmt"
	"os"
)

func main() {
	a := newApp(os.Stdout)
	if err := run(context.Background(), a, os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
