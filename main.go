package main

import (
	"os"

	"github.com/lohvht/plox/cmd"
)

func main() {
	os.Exit(cmd.Run())
}
