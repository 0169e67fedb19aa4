package commands

import (
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

func newSweepCommand() *cobra.Command {
	var (
		nodeID       string
		initialPairs []string
		storeName    string
		libraryPath  string
	)

	cmd := &cobra.Command{
		Use:   "sweep <graph.json>",
		Short: "Run a parameter sweep and print the signature vector",
		Long: `Run the parameter sweep configured on a sweep node: solve the graph
once per sample of the sweep variable and collect the output variable
into a signature vector. Each sample starts from a fresh variable
store, so feedback loops reconverge independently.`,
		Example: `  # Run the sweep configured on node sweep-1
  faulter sweep motor_rig.json --node sweep-1

  # Run and store the result as the "healthy" signature
  faulter sweep motor_rig.json --node sweep-1 --store healthy`,
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

			res, err := eng.RunSweep(desc, nodeID, initial)
			if err != nil {
				return err
			}

			if storeName != "" {
				store, err := loadLibrary(libraryPath)
				if err != nil {
					return err
				}
				store.Add(storeName, res.SignatureVector, map[string]any{
					"sweep_var":  res.SweepVar,
					"output_var": res.OutputVar,
					"steps":      res.Steps,
				})
				if err := saveLibrary(libraryPath, store); err != nil {
					return err
				}
				log.Info().
					Str("name", storeName).
					Str("library", libraryPath).
					Msg("Signature stored")
			}

			if jsonOutput {
				return printJSON(res)
			}

			fmt.Printf("Sweep %s over [%g..%g] (%d steps), output %s:\n",
				res.SweepVar, res.SweepValues[0], res.SweepValues[len(res.SweepValues)-1],
				res.Steps, res.OutputVar)
			for i := range res.SweepValues {
				fmt.Printf("  %s=%g  %s=%g\n",
					res.SweepVar, res.SweepValues[i], res.OutputVar, res.SignatureVector[i])
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&nodeID, "node", "n", "", "id of the sweep node to run")
	cmd.Flags().StringSliceVarP(&initialPairs, "initial", "i", nil, "initial variable value (name=value, repeatable)")
	cmd.Flags().StringVar(&storeName, "store", "", "store the signature vector under this name")
	cmd.Flags().StringVar(&libraryPath, "library", "signatures.json", "signature library file")
	cmd.MarkFlagRequired("node")

	return cmd
}
