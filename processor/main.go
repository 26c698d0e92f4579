// Command processor runs the allocation calculator offline: it computes an
// allocation from a JSON snapshot and exports approval payloads to xlsx.
package main

import (
	"os"

	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "processor",
		Short:         "Offline tools for purchase request allocation",
		SilenceUsage:  true,
		SilenceErrors: false,
	}
	root.AddCommand(newAllocateCmd(), newExportCmd())
	return root
}
