// Package main provides the entry point for the confradar CLI tool.
package main

import (
	"github.com/confradar/confradar/cmd/confradar/cmd"
)

// Version information populated by goreleaser.
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

func main() {
	cmd.Execute(version, commit, date)
}
