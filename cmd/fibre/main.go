// Command fibre runs the Fibre demo tree headless or in a terminal.
package main

import (
	"fmt"
	"os"

	"github.com/go-drift/fibre/cmd/fibre/cmd"
)

func main() {
	if err := cmd.Execute(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
