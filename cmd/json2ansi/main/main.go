package main

import (
	"fmt"
	"os"

	"github.com/arthur-debert/json2ansi/cmd/json2ansi"
)

func main() {
	rootCmd := json2ansi.NewRootCmd()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, json2ansi.FormatError(err))
		os.Exit(1)
	}
}
