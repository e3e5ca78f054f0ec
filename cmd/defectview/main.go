// Package main is the entry point for the defectview CLI tool.
package main

import (
	"github.com/agis/defectview/internal/cmd"
)

func main() {
	cmd.Execute()
}
