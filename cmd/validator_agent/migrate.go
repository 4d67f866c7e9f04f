package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply pending database migrations",
	RunE: func(cmd *cobra.Command, _ []string) error {
		database, err := connect(cmd)
		if err != nil {
			return err
		}
		defer database.Close()

		applied, err := database.Migrate(cmd.Context())
		if err != nil {
			return err
		}
		if len(applied) == 0 {
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), "Database is up to date")
			return nil
		}
		for _, name := range applied {
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Applied %s\n", name)
		}
		return nil
	},
}

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Create the default course catalog",
	Long:  "Creates the built-in technical courses when the catalog is empty. Running it again is a no-op.",
	RunE: func(cmd *cobra.Command, _ []string) error {
		database, err := connect(cmd)
		if err != nil {
			return err
		}
		defer database.Close()

		created, err := database.Seed(cmd.Context())
		if err != nil {
			return err
		}
		_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Created %d courses\n", created)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(seedCmd)
}
