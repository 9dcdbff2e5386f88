package main

import (
	"aeocheck/internal/cli"
)

// These variables are populated by the build via -ldflags with -X main.version=....
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

func main() {
	cli.SetBuildInfo(version, commit, date)
	cli.Execute()
}
