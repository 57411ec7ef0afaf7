package main

import (
	"os"

	"github.com/litebase/pagedb/pkg/cli/cmd"
)

func main() {
	if err := cmd.NewRoot(); err != nil {
		os.Exit(1)
	}
}
