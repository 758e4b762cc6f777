package main

import (
	"os"

	"github.com/oremus-labs/token-relay/internal/relaycli"
)

func main() {
	if err := relaycli.Execute(); err != nil {
		os.Exit(1)
	}
}
