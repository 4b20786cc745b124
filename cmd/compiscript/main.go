package main

import (
	"os"

	"github.com/compiscript/compiscript/cmd/compiscript/cmd"
)

func main() {
	os.Exit(cmd.Execute())
}
