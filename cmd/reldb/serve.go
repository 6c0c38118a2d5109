package main

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"reldb"
	"reldb/server/reldbwire"
)

func newServeCmd() *cobra.Command {
	var (
		addr     string
		dataFile string
		persist  bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the SQL engine as a TCP server",
		RunE: func(cmd *cobra.Command, args []string) error {
			if addr == "" {
				addr = cfg.Server.Addr
			}
			if dataFile == "" {
				dataFile = cfg.Storage.DataFile
			}

			opts := reldb.Options{Name: cfg.AppName, Logger: log}
			if persist {
				opts.DataFile = dataFile
			}
			db, err := reldb.Open(opts)
			if err != nil {
				return err
			}
			if tables := db.Database().ListTables(); len(tables) > 0 {
				log.Infow("database restored", "file", dataFile, "tables", len(tables))
			}

			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			srv := reldbwire.NewServer(addr, db.Executor(), log)
			err = srv.Run(ctx)

			if db.Persistent() {
				if serr := db.Save(); serr != nil {
					log.Errorw("could not persist database on shutdown", "file", dataFile, "err", serr)
				} else {
					log.Infow("database persisted", "file", dataFile)
				}
			}
			return err
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (defaults to config)")
	cmd.Flags().StringVar(&dataFile, "data", "", "database snapshot file (defaults to config)")
	cmd.Flags().BoolVar(&persist, "persist", false, "restore on start and save on shutdown")
	return cmd
}
