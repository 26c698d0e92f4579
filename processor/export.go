package main

import (
	"encoding/json"
	"fmt"
	"os"

	"procurement-app/procurement/allocation"
	"procurement-app/services"

	"github.com/spf13/cobra"
)

func newExportCmd() *cobra.Command {
	var input, output, code string
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write an approval payload as an xlsx workbook",
		RunE: func(cmd *cobra.Command, args []string) error {
			r, closeFn, err := openInput(input, cmd.InOrStdin())
			if err != nil {
				return err
			}
			defer closeFn()

			var payload allocation.Payload
			if err := json.NewDecoder(r).Decode(&payload); err != nil {
				return fmt.Errorf("decode payload: %w", err)
			}

			f, err := os.Create(output)
			if err != nil {
				return err
			}
			defer f.Close()

			rows := services.ExportRowsFromPayload(payload, nil)
			if err := services.WriteAllocationWorkbook(f, code, rows, payload.SplitItems); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %d allocations and %d split items to %s\n", len(rows), len(payload.SplitItems), output)
			return nil
		},
	}
	cmd.Flags().StringVarP(&input, "input", "i", "-", "payload JSON file")
	cmd.Flags().StringVarP(&output, "out", "o", "allocation.xlsx", "output workbook")
	cmd.Flags().StringVar(&code, "code", "", "purchase request code for the header")
	return cmd
}
