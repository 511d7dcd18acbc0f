package cmd

import (
	"context"
	"errors"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	contractx "github.com/tanpawarit/Chative-Reservation-Agent/agent/contract"
	llmx "github.com/tanpawarit/Chative-Reservation-Agent/agent/llm"
	configx "github.com/tanpawarit/Chative-Reservation-Agent/pkg/config"
	openrouterx "github.com/tanpawarit/Chative-Reservation-Agent/pkg/openrouter"
	postgresx "github.com/tanpawarit/Chative-Reservation-Agent/pkg/postgres"
)

func newPingCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "ping",
		Short: "Check database connectivity and the configured models",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
			defer cancel()

			var (
				out  = cmd.OutOrStdout()
				ok   = color.New(color.FgGreen)
				fail = color.New(color.FgRed)
				errs []error
			)
			report := func(name string, err error) {
				if err != nil {
					fail.Fprintf(out, "%-12s %v\n", name, err)
					errs = append(errs, err)
					return
				}
				ok.Fprintf(out, "%-12s ok\n", name)
			}

			report("database", pingDatabase(ctx))

			llmCfg, err := configx.New[llmx.Config]("LLM")
			if err != nil {
				report("llm", err)
				return errors.Join(errs...)
			}
			for _, role := range []contractx.AgentType{contractx.AgentTypePlanner, contractx.AgentTypeSummarizer} {
				orCfg := llmCfg.OpenRouterFor(role)
				err := openrouterx.VerifyModel(ctx, openrouterx.NewClient(orCfg), orCfg.Model)
				report(string(role), err)
			}
			return errors.Join(errs...)
		},
	}
}

func pingDatabase(ctx context.Context) error {
	dbCfg, err := configx.New[postgresx.Config]("DB")
	if err != nil {
		return err
	}
	db, err := postgresx.Open(*dbCfg)
	if err != nil {
		return err
	}
	defer db.Close()
	return postgresx.Ping(ctx, db)
}
