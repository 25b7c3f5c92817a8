// SPDX-License-Identifier: MIT

// Command ctgscreen screens a YAML case for post-contingency branch
// overloads and prints the report as JSON.
package main

import (
	"os"

	"github.com/katalvlaran/ctgflow/cmd/ctgscreen/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
