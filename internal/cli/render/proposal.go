package render

import (
	"fmt"
	"io"
	"math/big"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/fatih/color"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/trebuchet-org/govctl/internal/actions"
	"github.com/trebuchet-org/govctl/internal/domain"
	"github.com/trebuchet-org/govctl/internal/usecase"
)

// ProposalRenderer renders proposals and encoded action lists
type ProposalRenderer struct {
	out io.Writer
}

// NewProposalRenderer creates a new proposal renderer
func NewProposalRenderer(out io.Writer) *ProposalRenderer {
	return &ProposalRenderer{out: out}
}

// RenderPreview shows what a proposal will do before it is submitted
func (r *ProposalRenderer) RenderPreview(preview *usecase.ProposalPreview) error {
	draft := preview.Draft
	section(r.out, fmt.Sprintf("📋 %s", draft.Metadata.Title))
	if draft.Metadata.Summary != "" {
		fmt.Fprintln(r.out, draft.Metadata.Summary)
	}
	fmt.Fprintf(r.out, "Voting: %s → %s\n", formatTime(draft.StartDate), formatTime(draft.EndDate))
	fmt.Fprintln(r.out)
	for i, d := range preview.Actions.Descriptions {
		r.renderDescription(i, d)
	}
	return nil
}

// RenderEncoded lists the raw calls of an encoded action list
func (r *ProposalRenderer) RenderEncoded(encoded *usecase.EncodedActions) error {
	for i, d := range encoded.Descriptions {
		r.renderDescription(i, d)
	}
	section(r.out, "Calls")
	t := newTable(r.out)
	t.AppendHeader(table.Row{"#", "TO", "VALUE", "DATA"})
	for i, raw := range encoded.Raw {
		t.AppendRow(table.Row{i + 1, raw.To.Hex(), valueString(raw.Value), faintStyle.Sprint(hexutil.Encode(raw.Data))})
	}
	t.Render()
	return nil
}

// RenderBatchError lists every field error grouped by action
func (r *ProposalRenderer) RenderBatchError(err *domain.BatchError) {
	fmt.Fprintln(r.out, FormatError(fmt.Sprintf("%d action error(s)", len(err.Errors))))
	for _, fe := range err.Errors {
		where := "proposal"
		if fe.Index >= 0 {
			where = fmt.Sprintf("action %d", fe.Index+1)
		}
		if fe.Field != "" {
			where += "." + fe.Field
		}
		fmt.Fprintf(r.out, "  %s %s\n", expiredStyle.Sprint(where+":"), fe.Message)
	}
}

// RenderProposal renders one on-chain proposal with its actions
func (r *ProposalRenderer) RenderProposal(view *usecase.ProposalView, now time.Time) error {
	p := view.Proposal
	section(r.out, fmt.Sprintf("📋 Proposal #%d: %s", p.ID, orDash(p.Metadata.Title)))
	fmt.Fprintf(r.out, "Status:  %s\n", proposalState(p, now))
	fmt.Fprintf(r.out, "Voting:  %s → %s\n", formatTime(p.StartDate), formatTime(p.EndDate))
	fmt.Fprintf(r.out, "Tally:   yes %s · no %s · abstain %s\n", valueString(p.Tally.Yes), valueString(p.Tally.No), valueString(p.Tally.Abstain))
	if p.Metadata.Summary != "" {
		fmt.Fprintf(r.out, "\n%s\n", p.Metadata.Summary)
	}
	for _, res := range p.Metadata.Resources {
		fmt.Fprintf(r.out, "🔗 %s\n", res)
	}
	fmt.Fprintln(r.out)

	if len(view.Actions) == 0 {
		fmt.Fprintln(r.out, faintStyle.Sprint("No actions"))
		return nil
	}
	for i, a := range view.Actions {
		if a.Description != nil {
			r.renderDescription(i, a.Description)
			continue
		}
		fmt.Fprintf(r.out, "%d. %s\n", i+1, pendingStyle.Sprint("Unrecognized call"))
		fmt.Fprintf(r.out, "   To:    %s\n", a.Raw.To.Hex())
		fmt.Fprintf(r.out, "   Value: %s\n", valueString(a.Raw.Value))
		fmt.Fprintf(r.out, "   Data:  %s\n", faintStyle.Sprint(hexutil.Encode(a.Raw.Data)))
		if a.Err != nil {
			fmt.Fprintf(r.out, "   %s\n", faintStyle.Sprint(a.Err))
		}
	}
	return nil
}

// RenderProposalList renders a table of proposals
func (r *ProposalRenderer) RenderProposalList(proposals []*domain.Proposal, now time.Time) error {
	if len(proposals) == 0 {
		fmt.Fprintln(r.out, "No proposals found")
		return nil
	}
	t := newTable(r.out)
	t.AppendHeader(table.Row{"ID", "TITLE", "STATUS", "ENDS", "YES", "NO"})
	for _, p := range proposals {
		t.AppendRow(table.Row{
			p.ID, orDash(p.Metadata.Title), proposalState(p, now), formatTime(p.EndDate),
			valueString(p.Tally.Yes), valueString(p.Tally.No),
		})
	}
	t.Render()
	return nil
}

// RenderActionKinds lists the registered action kinds
func (r *ProposalRenderer) RenderActionKinds(registry *actions.Registry) error {
	t := newTable(r.out)
	t.AppendHeader(table.Row{"NAME", "TITLE"})
	for _, name := range registry.Names() {
		t.AppendRow(table.Row{labelStyle.Sprint(name), actions.DisplayName(name)})
	}
	t.Render()
	return nil
}

func (r *ProposalRenderer) renderDescription(i int, d *actions.Description) {
	fmt.Fprintf(r.out, "%d. %s\n", i+1, color.New(color.Bold).Sprint(d.Title))
	if d.Summary != "" {
		fmt.Fprintf(r.out, "   %s\n", d.Summary)
	}
	width := 0
	for _, f := range d.Fields {
		width = max(width, len(f.Label))
	}
	for _, f := range d.Fields {
		fmt.Fprintf(r.out, "   %s %s\n", faintStyle.Sprint(f.Label+":"+strings.Repeat(" ", width-len(f.Label))), f.Value)
	}
	fmt.Fprintln(r.out)
}

func proposalState(p *domain.Proposal, now time.Time) string {
	switch {
	case p.Executed:
		return verifiedStyle.Sprint("executed")
	case p.Open && now.Before(p.EndDate):
		return pendingStyle.Sprint("open")
	default:
		return faintStyle.Sprint("closed")
	}
}

func valueString(v *big.Int) string {
	if v == nil {
		return "0"
	}
	return v.String()
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Local().Format("2006-01-02 15:04")
}
