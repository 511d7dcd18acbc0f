package cmd

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/tanpawarit/Chative-Reservation-Agent/agent/agents/assistant"
	"github.com/tanpawarit/Chative-Reservation-Agent/agent/agents/orchestrator"
	"github.com/tanpawarit/Chative-Reservation-Agent/agent/capacity"
	llmx "github.com/tanpawarit/Chative-Reservation-Agent/agent/llm"
	statex "github.com/tanpawarit/Chative-Reservation-Agent/agent/state"
	toolx "github.com/tanpawarit/Chative-Reservation-Agent/agent/tool"
	configx "github.com/tanpawarit/Chative-Reservation-Agent/pkg/config"
	postgresx "github.com/tanpawarit/Chative-Reservation-Agent/pkg/postgres"
)

type storeOptions struct {
	inMemory bool
	migrate  bool
	seed     bool
}

// openCapacityStore returns the reservation store and a close func. The
// in-memory store is always seeded.
func openCapacityStore(ctx context.Context, opts storeOptions) (capacity.Store, func(), error) {
	if opts.inMemory {
		store := capacity.NewMemoryStore()
		if err := capacity.SeedMemory(ctx, store); err != nil {
			return nil, nil, err
		}
		log.Info().Msg("using in-memory reservation store")
		return store, func() {}, nil
	}

	dbCfg, err := configx.New[postgresx.Config]("DB")
	if err != nil {
		return nil, nil, fmt.Errorf("load db config: %w", err)
	}
	db, err := postgresx.Open(*dbCfg)
	if err != nil {
		return nil, nil, err
	}
	closeDB := func() {
		if err := db.Close(); err != nil {
			log.Warn().Err(err).Msg("close database")
		}
	}
	if err := postgresx.Ping(ctx, db); err != nil {
		closeDB()
		return nil, nil, err
	}

	if opts.migrate || opts.seed {
		if err := capacity.CreateSchema(ctx, db); err != nil {
			closeDB()
			return nil, nil, err
		}
	}
	if opts.seed {
		n, err := capacity.Seed(ctx, db)
		if err != nil {
			closeDB()
			return nil, nil, err
		}
		log.Info().Int("restaurants", n).Msg("seeded restaurants")
	}

	store, err := capacity.NewBunStore(db)
	if err != nil {
		closeDB()
		return nil, nil, err
	}
	return store, closeDB, nil
}

func newToolRegistry(store capacity.Store) (*toolx.Registry, error) {
	toolCfg, err := configx.New[toolx.Config]("TOOL")
	if err != nil {
		return nil, fmt.Errorf("load tool config: %w", err)
	}
	return toolx.NewReservationRegistry(store, *toolCfg)
}

// buildAgent wires models, tools and conversation state into an Orchestrator.
func buildAgent(ctx context.Context, opts storeOptions) (*orchestrator.Orchestrator, func(), error) {
	llmCfg, err := configx.New[llmx.Config]("LLM")
	if err != nil {
		return nil, nil, fmt.Errorf("load llm config: %w", err)
	}
	agentCfg, err := configx.New[orchestrator.Config]("AGENT")
	if err != nil {
		return nil, nil, fmt.Errorf("load agent config: %w", err)
	}

	store, closeStore, err := openCapacityStore(ctx, opts)
	if err != nil {
		return nil, nil, err
	}
	tools, err := newToolRegistry(store)
	if err != nil {
		closeStore()
		return nil, nil, err
	}
	models, err := assistant.NewRegistry(ctx, *llmCfg)
	if err != nil {
		closeStore()
		return nil, nil, err
	}

	conversations := statex.NewMemoryStore(statex.WithTTL(agentCfg.SessionTTL))
	orch, err := orchestrator.New(conversations, models, tools, *agentCfg)
	if err != nil {
		closeStore()
		return nil, nil, err
	}
	return orch, closeStore, nil
}
