package main

import (
	"os"

	"github.com/hashicorp-forge/facet/internal/cmd"
)

func main() {
	os.Exit(cmd.Main(os.Args))
}
