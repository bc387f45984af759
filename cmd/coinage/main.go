// Command coinage manages a catalog of coined words.
package main

import (
	"os"

	"github.com/mesh-intelligence/coinage/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
