package main

import (
	"os"

	"github.com/MyelinBots/vitals-go/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
