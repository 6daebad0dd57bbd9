package main

import (
	"os"

	"github.com/physai-textbook/docsite/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
