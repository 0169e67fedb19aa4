package commands

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"
)

func newSignatureCommand() *cobra.Command {
	var libraryPath string

	cmd := &cobra.Command{
		Use:   "signature",
		Short: "Manage the signature library",
		Long: `Manage the library of reference signature vectors used for fault
diagnosis. Signatures are typically produced by 'sweep --store' but can
also be added directly from a comma-separated vector.`,
	}

	cmd.PersistentFlags().StringVar(&libraryPath, "library", "signatures.json", "signature library file")

	addCmd := &cobra.Command{
		Use:   "add <name> <vector>",
		Short: "Add a signature from a comma-separated vector",
		Example: `  faulter signature add healthy 1.2,1.4,1.7,2.1
  faulter signature add worn_bearing 1.5,1.9,2.6,3.4 --library rig.json`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			vec, err := parseVector(args[1])
			if err != nil {
				return err
			}

			store, err := loadLibrary(libraryPath)
			if err != nil {
				return err
			}
			store.Add(args[0], vec, nil)
			if err := saveLibrary(libraryPath, store); err != nil {
				return err
			}
			fmt.Printf("Stored signature %q (%d samples)\n", args[0], len(vec))
			return nil
		},
	}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List stored signatures",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := loadLibrary(libraryPath)
			if err != nil {
				return err
			}

			summaries := store.List()
			sort.Slice(summaries, func(i, j int) bool {
				return summaries[i].Name < summaries[j].Name
			})

			if jsonOutput {
				return printJSON(summaries)
			}
			if len(summaries) == 0 {
				fmt.Println("No signatures stored")
				return nil
			}
			for _, s := range summaries {
				fmt.Printf("%-20s %4d samples  range [%g, %g]\n", s.Name, s.Length, s.Min, s.Max)
			}
			return nil
		},
	}

	rmCmd := &cobra.Command{
		Use:   "rm <name>",
		Short: "Remove a stored signature",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := loadLibrary(libraryPath)
			if err != nil {
				return err
			}
			if !store.Has(args[0]) {
				return fmt.Errorf("signature %q not in library", args[0])
			}
			store.Remove(args[0])
			if err := saveLibrary(libraryPath, store); err != nil {
				return err
			}
			fmt.Printf("Removed signature %q\n", args[0])
			return nil
		},
	}

	cmd.AddCommand(addCmd)
	cmd.AddCommand(listCmd)
	cmd.AddCommand(rmCmd)

	return cmd
}
