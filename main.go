package main

import (
	"os"

	"github.com/Lumos-Labs-HQ/seedgen/cmd"
)

func main() {
	os.Exit(cmd.Execute())
}
