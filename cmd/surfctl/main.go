// Command surfctl bundles the surf forecast app's maintenance tools:
// build artifact cleanup, the connection smoke test, the test-db server
// and database migrations.
package main

import (
	"errors"
	"fmt"
	"os"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		if !errors.Is(err, errChecksFailed) {
			fmt.Fprintln(os.Stderr, "Error:", err)
		}
		os.Exit(1)
	}
}
