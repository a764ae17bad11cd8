package render

import (
	"fmt"
	"io"

	"github.com/ethereum/go-ethereum/common"
	"github.com/trebuchet-org/govctl/internal/txflow"
	"github.com/trebuchet-org/govctl/internal/usecase"
)

// RenderTransaction prints the outcome of one on-chain write
func RenderTransaction(out io.Writer, result *usecase.TxResult) error {
	if result == nil {
		return nil
	}
	switch result.State {
	case txflow.Confirmed:
		fmt.Fprintln(out, FormatSuccess(fmt.Sprintf("%s confirmed", result.Label)))
	case txflow.Failed:
		fmt.Fprintln(out, FormatError(fmt.Sprintf("%s failed", result.Label)))
	default:
		fmt.Fprintf(out, "%s: %s\n", result.Label, result.State)
	}
	if result.TxHash != (common.Hash{}) {
		fmt.Fprintf(out, "Tx: %s\n", addressStyle.Sprint(result.TxHash.Hex()))
	}
	return nil
}
