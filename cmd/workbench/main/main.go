package main

import (
	"fmt"
	"os"

	"github.com/arthur-debert/workbench/cmd/workbench"
	"github.com/arthur-debert/workbench/pkg/ui"
)

func main() {
	rootCmd := workbench.NewRootCmd()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, ui.RenderError(err, ui.DetectFormat(os.Stderr)))
		os.Exit(1)
	}
}
