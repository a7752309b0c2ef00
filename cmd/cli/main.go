// logweave - Merged Log Viewer
//
// logweave merges multiple independently-formatted log files into one
// chronologically ordered, side-by-side view.
package main

import (
	"os"

	"github.com/logweave/logweave/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
