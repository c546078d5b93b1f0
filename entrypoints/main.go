package main

import (
	"github.com/pixelforge-games/studio-api/cmd"
)

func main() {
	cmd.Execute()
}
