package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "manage",
		Short:         "Maintenance commands for the medical portal",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.AddCommand(NewMigrateCmd())
	cmd.AddCommand(NewEmailTemplateCmd())
	return cmd
}
