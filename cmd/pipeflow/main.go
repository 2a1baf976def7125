package main

import (
	"fmt"
	"os"

	"github.com/pipeflow/pipeflow/cmd/pipeflow/cli"
)

func main() {
	os.Exit(run())
}

func run() int {
	if err := cli.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return 1
	}
	return 0
}
