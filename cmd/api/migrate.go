package main

import (
	"github.com/spf13/cobra"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update the database schema and exit",
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg := bootstrap()
		database, err := openDatabase(cfg)
		if err != nil {
			return err
		}
		closeDatabase(database)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}
