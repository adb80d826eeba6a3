package main

import (
	"os"

	"github.com/ThatCatDev/modelgate/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
