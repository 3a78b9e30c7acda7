// ABOUTME: Entry point for the rev CLI
// ABOUTME: Command-line and terminal UI client for the RE-V platform

package main

import (
	"fmt"
	"os"

	"github.com/chikadol/rev-frontend-sub000/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
