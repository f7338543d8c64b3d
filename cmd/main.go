package main

import (
	"os"

	"neuroscent-quiz/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
