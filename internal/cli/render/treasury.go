package render

import (
	"fmt"
	"io"

	"github.com/ethereum/go-ethereum/common"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/trebuchet-org/govctl/internal/actions"
	"github.com/trebuchet-org/govctl/internal/domain"
	"github.com/trebuchet-org/govctl/internal/usecase"
)

// TreasuryRenderer renders DAO holdings and transfer history
type TreasuryRenderer struct {
	out io.Writer
}

// NewTreasuryRenderer creates a new treasury renderer
func NewTreasuryRenderer(out io.Writer) *TreasuryRenderer {
	return &TreasuryRenderer{out: out}
}

// Render renders every part of the overview. A failed part prints its error
// in place.
func (r *TreasuryRenderer) Render(result *usecase.TreasuryResult) error {
	section(r.out, "💰 Balances")
	if balances, err := result.Balances.Get(); err != nil {
		fmt.Fprintln(r.out, FormatError(err.Error()))
	} else {
		t := newTable(r.out)
		t.AppendHeader(table.Row{"ASSET", "AMOUNT", "TOKEN"})
		for _, b := range balances {
			t.AppendRow(table.Row{b.Symbol, actions.FormatAmount(b.Amount, b.Decimals), faintStyle.Sprint(orDash(b.Token))})
		}
		t.Render()
	}
	fmt.Fprintln(r.out)

	r.renderTransfers("📥 Deposits", result.Deposits, false, "--deposits-page")
	fmt.Fprintln(r.out)
	r.renderTransfers("📤 Withdrawals", result.Withdrawals, true, "--withdrawals-page")
	return nil
}

func (r *TreasuryRenderer) renderTransfers(title string, res domain.Result[*domain.TransferPage], outgoing bool, pageFlag string) {
	section(r.out, title)
	page, err := res.Get()
	if err != nil {
		fmt.Fprintln(r.out, FormatError(err.Error()))
		return
	}
	if len(page.Transfers) == 0 {
		fmt.Fprintln(r.out, faintStyle.Sprint("No transfers"))
		return
	}

	counterparty := "FROM"
	if outgoing {
		counterparty = "TO"
	}
	t := newTable(r.out)
	t.AppendHeader(table.Row{"DATE", counterparty, "VALUE", "ASSET", "TX"})
	for _, tr := range page.Transfers {
		other := tr.From
		if outgoing {
			other = tr.To
		}
		t.AppendRow(table.Row{
			formatTime(tr.Timestamp),
			shortHex(other),
			orDash(tr.Value),
			orDash(tr.Asset),
			faintStyle.Sprint(shortHex(tr.Hash)),
		})
	}
	t.Render()
	if page.NextPageKey != "" {
		fmt.Fprintln(r.out, faintStyle.Sprintf("More results: %s %s", pageFlag, page.NextPageKey))
	}
}

func shortHex(s string) string {
	if common.IsHexAddress(s) {
		return ShortAddress(common.HexToAddress(s))
	}
	if len(s) > 14 {
		return s[:8] + "…" + s[len(s)-4:]
	}
	return orDash(s)
}
