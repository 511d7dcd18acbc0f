package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/tanpawarit/Chative-Reservation-Agent/agent/capacity"
	configx "github.com/tanpawarit/Chative-Reservation-Agent/pkg/config"
	postgresx "github.com/tanpawarit/Chative-Reservation-Agent/pkg/postgres"
)

func newMigrateCmd() *cobra.Command {
	var seed bool

	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Create the restaurants, reservations and feedback tables",
		RunE: func(cmd *cobra.Command, args []string) error {
			dbCfg, err := configx.New[postgresx.Config]("DB")
			if err != nil {
				return fmt.Errorf("load db config: %w", err)
			}

			ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
			defer cancel()

			db, err := postgresx.Open(*dbCfg)
			if err != nil {
				return err
			}
			defer db.Close()

			if err := postgresx.Ping(ctx, db); err != nil {
				return err
			}
			if err := capacity.CreateSchema(ctx, db); err != nil {
				return err
			}
			log.Info().Msg("schema is up to date")

			if seed {
				n, err := capacity.Seed(ctx, db)
				if err != nil {
					return err
				}
				log.Info().Int("restaurants", n).Msg("seeded restaurants")
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&seed, "seed", false, "load the restaurant catalogue when the table is empty")
	return cmd
}
