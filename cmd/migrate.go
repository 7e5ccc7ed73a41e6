package main

import (
	"github.com/spf13/cobra"

	"github.com/wellside/barber-booking/migrations"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Применить миграции схемы БД",
	RunE:  runMigrate,
}

func runMigrate(cmd *cobra.Command, _ []string) error {
	cfg, log, err := bootstrap()
	if err != nil {
		return err
	}
	defer log.Close()

	db, err := openDatabase(cfg.Database, log)
	if err != nil {
		return err
	}
	defer db.Close()

	applied, err := migrations.Run(cmd.Context(), db, log)
	if err != nil {
		log.Error("Migration failed: %v", err)
		return err
	}

	log.Info("Migrations complete: %d applied", applied)
	return nil
}
