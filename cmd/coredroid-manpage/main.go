package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra/doc"

	"github.com/arthur-debert/coredroid/cmd/coredroid"
	"github.com/arthur-debert/coredroid/internal/version"
)

func main() {
	rootCmd := coredroid.NewRootCmd()

	header := &doc.GenManHeader{
		Title:   "COREDROID",
		Section: "1",
		Source:  "coredroid " + version.Version,
		Manual:  "coredroid manual",
	}

	if err := doc.GenMan(rootCmd, header, os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "Error generating man page: %v\n", err)
		os.Exit(1)
	}
}
