package main

import (
	"fmt"
	"os"

	"github.com/flexprice/catalog/cmd/catalog/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
