package main

import (
	"os"

	"github.com/njchilds90/htmlwhitelist/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
