package main

import (
	"os"

	"restaurant-staffing/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
