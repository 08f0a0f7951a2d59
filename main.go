package main

import (
	"os"

	"github.com/conneroisu/stache/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
