package main

import (
	"os"

	"github.com/appspark/waitlist/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
