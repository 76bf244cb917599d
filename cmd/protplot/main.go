// Package main is the entry point for the protplot CLI tool.
package main

import (
	"github.com/protplot/protplot/internal/cmd"
)

func main() {
	cmd.Execute()
}
