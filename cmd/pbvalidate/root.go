package main

import (
	"log"

	"github.com/spf13/cobra"
)

func newRootCmd(logger *log.Logger) *cobra.Command {
	root := &cobra.Command{
		Use:           "pbvalidate",
		Short:         "Validate participatory-budgeting (.pb) election files",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(newCheckCmd(logger))
	return root
}
