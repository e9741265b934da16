package main

import (
	"fmt"
	"os"

	"github.com/arthur-debert/coredroid/cmd/coredroid"
	"github.com/arthur-debert/coredroid/pkg/ui"
)

func main() {
	rootCmd := coredroid.NewRootCmd()
	if err := rootCmd.Execute(); err != nil {
		format := ui.DetectFormat(os.Stderr)
		fmt.Fprintln(os.Stderr, ui.Style(format, ui.ErrorStyle, fmt.Sprintf("Error: %v", err)))
		os.Exit(1)
	}
}
