package main

import (
	"os"

	"github.com/iwvelando/fincalculate/cmd/fincalculate/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
