package main

import (
	"github.com/spf13/cobra"
)

// runMigrate opens the store, which applies any pending migration, and exits.
func runMigrate(cmd *cobra.Command, envFile string) error {
	cfg, err := loadConfig(cmd, envFile)
	if err != nil {
		return err
	}
	logger := newLogger(cfg, cmd.OutOrStdout())

	st, err := openStore(cmd.Context(), cfg, logger)
	if err != nil {
		return err
	}
	return st.Close()
}
