package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply the store schema and exit",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		cfg, log, err := setup(cmd)
		if err != nil {
			return err
		}

		st, err := openStore(ctx, cfg, log)
		if err != nil {
			return fmt.Errorf("open store: %w", err)
		}
		defer st.close(ctx) // nolint: errcheck

		if err := st.migrate(ctx); err != nil {
			return fmt.Errorf("migrate %s: %w", st.name, err)
		}

		log.Info().Str("store", st.name).Msg("migration complete")
		return nil
	},
}
