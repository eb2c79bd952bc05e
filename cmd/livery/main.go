// Package main is the entry point for the livery theming tool: it compiles
// theme payload files against a token schema and emits CSS custom properties.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	root := newRootCmd()
	root.SetArgs(args)

	if err := root.Execute(); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, "Error: "+err.Error())
		return 1
	}
	return 0
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "livery",
		Short:         "Compile design-token themes into CSS custom properties",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(newCSSCmd())
	root.AddCommand(newCheckCmd())

	return root
}
