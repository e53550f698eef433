// Package main is the entry point for the furnwatch CLI.
package main

import (
	"github.com/mfinch/furniture-watch/cmd/furnwatch/cmd"
)

func main() {
	cmd.Execute()
}
