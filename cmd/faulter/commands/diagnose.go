package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/faulter/faulter/pkg/signature"
)

func newDiagnoseCommand() *cobra.Command {
	var (
		vectorStr   string
		threshold   float64
		method      string
		libraryPath string
	)

	cmd := &cobra.Command{
		Use:   "diagnose",
		Short: "Compare a live vector against the signature library",
		Long: `Compare a live measurement vector against every signature in the
library and report the closest match. A fault is flagged when the
maximum residual against the closest signature exceeds the threshold.`,
		Example: `  faulter diagnose --vector 1.2,1.5,1.9,2.4 --threshold 0.5

  # Match by shape rather than magnitude
  faulter diagnose --vector 1.2,1.5,1.9,2.4 --method cosine`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			live, err := parseVector(vectorStr)
			if err != nil {
				return err
			}
			if method != signature.MethodEuclidean && method != signature.MethodCosine {
				return fmt.Errorf("unsupported method %q, expected euclidean or cosine", method)
			}

			store, err := loadLibrary(libraryPath)
			if err != nil {
				return err
			}

			diag := signature.NewComparator(store).Diagnose(live, threshold, method)

			if jsonOutput {
				return printJSON(diag)
			}

			if diag.Message != "" {
				fmt.Println(diag.Message)
			}
			if diag.ClosestSignature != "" {
				fmt.Printf("Closest signature: %s (distance %g, cosine %g)\n",
					diag.ClosestSignature, diag.Distance, diag.CosineSimilarity)
				fmt.Printf("Max residual: %g (threshold %g)\n", diag.Residual.Max, threshold)
			}
			if diag.FaultDetected {
				fmt.Println("FAULT DETECTED")
			} else {
				fmt.Println("No fault detected")
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&vectorStr, "vector", "", "live measurement vector (comma-separated)")
	cmd.Flags().Float64Var(&threshold, "threshold", 0.5, "max residual above which a fault is flagged")
	cmd.Flags().StringVar(&method, "method", signature.MethodEuclidean, "comparison method (euclidean or cosine)")
	cmd.Flags().StringVar(&libraryPath, "library", "signatures.json", "signature library file")
	cmd.MarkFlagRequired("vector")

	return cmd
}
