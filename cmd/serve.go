package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/tanpawarit/Chative-Reservation-Agent/agent/api"
	contractx "github.com/tanpawarit/Chative-Reservation-Agent/agent/contract"
	llmx "github.com/tanpawarit/Chative-Reservation-Agent/agent/llm"
	configx "github.com/tanpawarit/Chative-Reservation-Agent/pkg/config"
	openrouterx "github.com/tanpawarit/Chative-Reservation-Agent/pkg/openrouter"
)

func newServeCmd() *cobra.Command {
	var opts storeOptions

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the chat agent over HTTP",
		RunE: func(cmd *cobra.Command, args []string) error {
			httpCfg, err := configx.New[api.Config]("HTTP")
			if err != nil {
				return fmt.Errorf("load http config: %w", err)
			}

			ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer cancel()

			orch, closeStore, err := buildAgent(ctx, opts)
			if err != nil {
				return err
			}
			defer closeStore()

			warnIfModelUnavailable(ctx)

			srv := &api.Server{Agent: orch, Logger: log.Logger, TurnTimeout: httpCfg.TurnBudget()}
			log.Info().Dur("turn_timeout", srv.TurnTimeout).Msg("chat turn deadline")
			return api.Start(ctx, *httpCfg, srv.Routes())
		},
	}

	cmd.Flags().BoolVar(&opts.migrate, "migrate", false, "create missing tables on startup")
	cmd.Flags().BoolVar(&opts.seed, "seed", false, "load the restaurant catalogue when the table is empty")
	cmd.Flags().BoolVar(&opts.inMemory, "in-memory", false, "use a seeded in-memory store instead of Postgres")
	return cmd
}

// warnIfModelUnavailable checks the planner model so a bad key or model id
// shows up at startup rather than on the first request.
func warnIfModelUnavailable(ctx context.Context) {
	llmCfg, err := configx.New[llmx.Config]("LLM")
	if err != nil {
		return
	}
	orCfg := llmCfg.OpenRouterFor(contractx.AgentTypePlanner)
	if err := openrouterx.VerifyModel(ctx, openrouterx.NewClient(orCfg), orCfg.Model); err != nil {
		log.Warn().Err(err).Str("model", orCfg.Model).Msg("model check failed")
	}
}
