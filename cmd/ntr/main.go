package main

import (
	"os"

	"ntr/internal/cli/commands"
	"ntr/pkg/ntr"
)

var version = "dev"

// The standalone binary runs command suites (*.ntr.yaml). Go suites are
// linked into a project binary that calls ntr.Main or ntr.RunAll.
func main() {
	os.Exit(commands.Execute(ntr.Default, version))
}
