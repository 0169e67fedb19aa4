package commands

import (
	"fmt"
	"sort"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

func newSolveCommand() *cobra.Command {
	var initialPairs []string

	cmd := &cobra.Command{
		Use:   "solve <graph.json>",
		Short: "Evaluate a graph and print the final variable values",
		Long: `Evaluate a graph description: compute every node in dependency order,
iterating feedback loops to a fixed point, and print the resulting
variable values together with the execution order.`,
		Example: `  # Solve a graph
  faulter solve motor_rig.json

  # Solve with initial variable values
  faulter solve motor_rig.json --initial torque=5 --initial speed=1500

  # Machine-readable output
  faulter solve motor_rig.json --json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			desc, err := loadDescription(args[0])
			if err != nil {
				return err
			}
			initial, err := parseInitial(initialPairs)
			if err != nil {
				return err
			}

			eng, _, err := newEngine()
			if err != nil {
				return err
			}

			log.Debug().Str("graph", args[0]).Msg("Solving graph")
			res, err := eng.Run(desc, initial)
			if err != nil {
				return err
			}

			if jsonOutput {
				return printJSON(res)
			}

			fmt.Printf("Execution order: %v\n", res.ExecutionOrder)
			if !res.Converged {
				fmt.Printf("Warning: feedback loop did not converge after %d iterations\n", res.Iterations)
			} else if res.Iterations > 0 {
				fmt.Printf("Converged after %d iterations\n", res.Iterations)
			}

			names := make([]string, 0, len(res.State))
			for name := range res.State {
				names = append(names, name)
			}
			sort.Strings(names)

			fmt.Println("Final state:")
			for _, name := range names {
				fmt.Printf("  %s = %g\n", name, res.State[name])
			}
			return nil
		},
	}

	cmd.Flags().StringSliceVarP(&initialPairs, "initial", "i", nil, "initial variable value (name=value, repeatable)")

	return cmd
}
