package main

import (
	"github.com/rzbill/sigil/pkg/cli/cmd"
)

func main() {
	cmd.Execute()
}
