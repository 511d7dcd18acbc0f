package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/tanpawarit/Chative-Reservation-Agent/agent/capacity"
)

func newToolsCmd() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "tools",
		Short: "List the tools offered to the model",
		RunE: func(cmd *cobra.Command, args []string) error {
			reg, err := newToolRegistry(capacity.NewMemoryStore())
			if err != nil {
				return err
			}
			tools, err := reg.ListTools(cmd.Context())
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(tools)
			}

			name := color.New(color.FgCyan, color.Bold)
			for _, t := range tools {
				name.Fprintln(out, t.Name)
				fmt.Fprintf(out, "  %s\n  schema: %s\n\n", t.Description, t.InputSchema)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print the tool list as JSON")
	return cmd
}
