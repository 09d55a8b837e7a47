package main

import (
	"os"

	"github.com/i474232898/uv-alert/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
