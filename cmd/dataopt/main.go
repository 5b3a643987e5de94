// Command dataopt normalizes, validates and re-serializes records from the
// command line and prints a JSON report.
package main

import (
	"fmt"
	"os"

	"github.com/pkg/errors"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		if !errors.Is(err, errReported) {
			fmt.Fprintln(os.Stderr, "Error:", err)
		}
		os.Exit(1)
	}
}
