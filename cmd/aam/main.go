package main

import (
	"os"

	"github.com/koustreak/aam/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
