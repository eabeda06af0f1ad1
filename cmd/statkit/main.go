package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/statcan-go/statscan/cmd/statkit/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		var exitErr *commands.ExitError
		if errors.As(err, &exitErr) {
			if exitErr.Message != "" {
				fmt.Fprintln(os.Stderr, exitErr.Message)
			}
			os.Exit(exitErr.Code)
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
