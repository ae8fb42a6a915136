// Command metricsctl queries a hospital metrics table from the shell using the same
// tools the API exposes.
package main

import (
	"os"
)

func main() {
	if err := newRootCmd(os.Stdout).Execute(); err != nil {
		os.Exit(1)
	}
}
