package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/fatih/color"

	"github.com/terassyi/statefile"
)

var (
	version   = "dev"
	commit    = "unknown"
	buildDate = "unknown"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "%s %v\n", color.New(color.FgRed, color.Bold).Sprint("Error:"), err)

		var lockErr *statefile.LockError
		if errors.As(err, &lockErr) {
			fmt.Fprintln(os.Stderr, color.New(color.FgGreen).Sprint(lockErr.Hint()))
		}
		os.Exit(1)
	}
}
