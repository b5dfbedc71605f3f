// Package main is the entry point for the wardgate CLI binary.
package main

import (
	"os"

	cli "wardgate/pkg/cli"
)

func main() {
	os.Exit(cli.Execute())
}
