package main

import (
	"os"

	"github.com/voxelview/voxelview/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
