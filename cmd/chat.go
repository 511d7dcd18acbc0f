package cmd

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"

	"github.com/fatih/color"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
	contractx "github.com/tanpawarit/Chative-Reservation-Agent/agent/contract"
)

type chatAgent interface {
	HandleMessage(ctx context.Context, sessionID string, text string) (contractx.TurnResult, error)
	Reset(ctx context.Context, sessionID string) error
}

func newChatCmd() *cobra.Command {
	var (
		opts      storeOptions
		reasoning bool
	)

	cmd := &cobra.Command{
		Use:   "chat",
		Short: "Talk to the agent in the terminal",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
			defer cancel()

			orch, closeStore, err := buildAgent(ctx, opts)
			if err != nil {
				return err
			}
			defer closeStore()

			return runChat(ctx, orch, cmd.InOrStdin(), cmd.OutOrStdout(), reasoning)
		},
	}

	cmd.Flags().BoolVar(&opts.inMemory, "in-memory", false, "use a seeded in-memory store instead of Postgres")
	cmd.Flags().BoolVar(&reasoning, "reasoning", false, "print each tool call and its raw result")
	return cmd
}

func runChat(ctx context.Context, agent chatAgent, in io.Reader, out io.Writer, showReasoning bool) error {
	var (
		prompt    = color.New(color.FgCyan, color.Bold)
		assistant = color.New(color.FgGreen)
		toolLine  = color.New(color.FgYellow)
		failure   = color.New(color.FgRed)
	)

	sessionID := uuid.NewString()
	fmt.Fprintf(out, "FoodieSpot assistant (session %s). Type /reset to start over, /exit to quit.\n", sessionID)

	scanner := bufio.NewScanner(in)
	for {
		prompt.Fprint(out, "you> ")
		if !scanner.Scan() {
			fmt.Fprintln(out)
			return scanner.Err()
		}
		text := strings.TrimSpace(scanner.Text())
		switch text {
		case "":
			continue
		case "/exit", "/quit":
			return nil
		case "/reset":
			if err := agent.Reset(ctx, sessionID); err != nil {
				failure.Fprintf(out, "reset failed: %v\n", err)
				continue
			}
			sessionID = uuid.NewString()
			fmt.Fprintf(out, "new session %s\n", sessionID)
			continue
		}

		res, err := agent.HandleMessage(ctx, sessionID, text)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			failure.Fprintf(out, "Error processing query: %v\n", err)
			continue
		}
		if showReasoning {
			for _, tr := range res.Reasoning {
				toolLine.Fprintf(out, "  [%s] %s\n", tr.Tool, tr.Result)
			}
		}
		assistant.Fprintf(out, "assistant> %s\n", res.Reply)
	}
}
