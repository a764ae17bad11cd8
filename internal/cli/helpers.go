package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/ethereum/go-ethereum/common"
	"github.com/spf13/cobra"
	"github.com/trebuchet-org/govctl/internal/cli/render"
	"github.com/trebuchet-org/govctl/internal/domain"
)

// parseAccountArg returns the optional address argument, or the zero
// address to fall back to --account and the wallet
func parseAccountArg(args []string) (common.Address, error) {
	if len(args) == 0 {
		return common.Address{}, nil
	}
	if !common.IsHexAddress(args[0]) {
		return common.Address{}, domain.ValidationError("parse account", fmt.Errorf("%w: %q", domain.ErrInvalidAddress, args[0]))
	}
	return common.HexToAddress(args[0]), nil
}

func parseProposalID(raw string) (uint64, error) {
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return 0, domain.ValidationError("parse proposal id", fmt.Errorf("invalid proposal id %q", raw))
	}
	return id, nil
}

// readInput reads a file argument; "-" reads stdin
func readInput(cmd *cobra.Command, path string) ([]byte, error) {
	if path == "-" {
		return io.ReadAll(cmd.InOrStdin())
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return data, nil
}

// PrintError writes err to w. Batch errors list every failing field.
func PrintError(w io.Writer, err error) {
	var batch *domain.BatchError
	if errors.As(err, &batch) {
		render.NewProposalRenderer(w).RenderBatchError(batch)
		return
	}
	fmt.Fprintln(w, render.FormatError(err.Error()))
}
