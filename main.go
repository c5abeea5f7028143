package main

import (
	"fmt"
	"os"

	"github.com/hoehoe5252-yong/yong2/internal/bootstrap"
)

func main() {
	if err := bootstrap.Start(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
