package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newOrderCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "order <graph.json>",
		Short: "Print the execution order of a graph without computing it",
		Long: `Print the topological execution order of a graph description. Nodes
that participate in a feedback loop have no topological position and
are not listed.`,
		Example: `  faulter order motor_rig.json`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			desc, err := loadDescription(args[0])
			if err != nil {
				return err
			}
			eng, _, err := newEngine()
			if err != nil {
				return err
			}

			order, err := eng.ExecutionOrder(desc)
			if err != nil {
				return err
			}

			if jsonOutput {
				return printJSON(map[string]any{"execution_order": order})
			}
			for i, id := range order {
				fmt.Printf("%d. %s\n", i+1, id)
			}
			return nil
		},
	}
	return cmd
}
