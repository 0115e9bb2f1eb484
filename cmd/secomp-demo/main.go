// Command secomp-demo exercises the secure comparison engine end to end
// over a freshly generated Paillier/DGK keypair: the compare subcommand
// walks a fixed scenario table through a real Session, and bench times
// cache-amortized versus cache-exhausted comparisons.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	configFile   string
	bitLength    int
	kappa        int
	cacheSize    int
	reuseAllowed bool

	rootCmd = &cobra.Command{
		Use:   "secomp-demo",
		Short: "Demonstrate the secomp secure comparison engine",
	}

	compareCmd = &cobra.Command{
		Use:   "compare",
		Short: "Run the built-in scenario table through a live Session",
		RunE:  runCompare,
	}

	benchCmd = &cobra.Command{
		Use:   "bench",
		Short: "Time cache-amortized vs. cache-exhausted comparisons",
		RunE:  runBench,
	}
)

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "YAML configuration file (optional; when set, its BlindingFactorCache values replace --l, --kappa, --cache-size and --reuse)")
	rootCmd.PersistentFlags().IntVar(&bitLength, "l", 16, "comparison bit-length bound")
	rootCmd.PersistentFlags().IntVar(&kappa, "kappa", 40, "statistical security parameter")
	rootCmd.PersistentFlags().IntVar(&cacheSize, "cache-size", 8, "blinding-factor cache capacity")
	rootCmd.PersistentFlags().BoolVar(&reuseAllowed, "reuse", true, "allow the cache to wrap and reuse tuples once exhausted")

	benchCmd.Flags().Int("iterations", 20, "number of comparisons to time")

	rootCmd.AddCommand(compareCmd, benchCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
