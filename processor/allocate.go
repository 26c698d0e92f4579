package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"procurement-app/procurement/allocation"
	"procurement-app/procurement/verification"
	"procurement-app/services"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

// snapshot is the allocate command input: the request lines, the stock per
// line, and the verification state.
type snapshot struct {
	Lines []allocation.RequestLine                    `json:"lines"`
	Stock map[string][]allocation.WarehouseStockEntry `json:"stock"`
	services.VerificationInput
}

type lineOutput struct {
	allocation.Result
	Error string `json:"error,omitempty"`
}

type allocateOutput struct {
	Lines    []lineOutput             `json:"lines"`
	Blockers []allocation.BlockedLine `json:"blockers"`
	Payload  allocation.Payload       `json:"payload"`
}

func newAllocateCmd() *cobra.Command {
	var input string
	cmd := &cobra.Command{
		Use:   "allocate",
		Short: "Compute the allocation for a snapshot file (- for stdin)",
		RunE: func(cmd *cobra.Command, args []string) error {
			r, closeFn, err := openInput(input, cmd.InOrStdin())
			if err != nil {
				return err
			}
			defer closeFn()
			return runAllocate(r, cmd.OutOrStdout())
		},
	}
	cmd.Flags().StringVarP(&input, "input", "i", "-", "snapshot JSON file")
	return cmd
}

func runAllocate(r io.Reader, w io.Writer) error {
	decimal.MarshalJSONWithoutQuotes = true

	var snap snapshot
	if err := json.NewDecoder(r).Decode(&snap); err != nil {
		return fmt.Errorf("decode snapshot: %w", err)
	}

	sess := verification.NewSession(snap.Lines)
	for _, l := range snap.Lines {
		if breakdown, ok := snap.Stock[l.ID]; ok {
			sess.ApplyStock(l.ID, l.ProductID, breakdown)
		}
	}
	if err := services.ApplyVerification(sess, snap.VerificationInput); err != nil {
		return err
	}

	out := allocateOutput{Blockers: []allocation.BlockedLine{}, Payload: sess.Payload(nil)}
	for _, lr := range sess.Compute(nil) {
		lo := lineOutput{Result: lr.Result}
		if lr.Err != nil {
			lo.Error = lr.Err.Error()
		}
		out.Lines = append(out.Lines, lo)
	}
	var incomplete *allocation.IncompleteAllocationError
	if errors.As(sess.ApprovalBlockers(nil), &incomplete) {
		out.Blockers = incomplete.Lines
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

func openInput(path string, stdin io.Reader) (io.Reader, func(), error) {
	if path == "" || path == "-" {
		return stdin, func() {}, nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, err
	}
	return f, func() { f.Close() }, nil
}
