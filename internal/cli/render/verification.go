package render

import (
	"fmt"
	"io"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/trebuchet-org/govctl/internal/domain"
	"github.com/trebuchet-org/govctl/internal/usecase"
	"github.com/trebuchet-org/govctl/internal/verification"
)

// VerificationRenderer renders verification status and pending records
type VerificationRenderer struct {
	out io.Writer
}

// NewVerificationRenderer creates a new verification renderer
func NewVerificationRenderer(out io.Writer) *VerificationRenderer {
	return &VerificationRenderer{out: out}
}

// RenderStatus renders the per-provider status of one account
func (r *VerificationRenderer) RenderStatus(result *usecase.VerificationStatusResult) error {
	section(r.out, fmt.Sprintf("📋 Verification status for %s", result.Account.Hex()))
	fmt.Fprintln(r.out)

	if len(result.Providers) == 0 {
		fmt.Fprintln(r.out, "No stamps recorded for this account")
	} else {
		t := newTable(r.out)
		t.AppendHeader(table.Row{"PROVIDER", "STATUS", "EXPIRES IN", "USER HASH"})
		for _, p := range result.Providers {
			t.AppendRow(table.Row{
				p.ProviderID,
				statusLabel(p.Status),
				verification.FormatTimeLeft(p.Status.TimeLeft),
				faintStyle.Sprint(orDash(p.UserHash)),
			})
		}
		t.Render()
	}

	if n := len(result.Thresholds); n > 0 {
		fmt.Fprintln(r.out)
		fmt.Fprintf(r.out, "Current validity: %d days\n", result.Thresholds[n-1].ValidityDays)
	}

	if len(result.Pending) > 0 {
		fmt.Fprintln(r.out)
		r.renderPending(result.Pending, result.Now)
	}

	fmt.Fprintln(r.out)
	if result.Verified() {
		fmt.Fprintln(r.out, FormatSuccess("Account is verified"))
	} else {
		fmt.Fprintln(r.out, FormatError("account is not verified"))
	}
	return nil
}

// RenderPending renders the pending verifications of an account
func (r *VerificationRenderer) RenderPending(result *usecase.PendingListResult, now time.Time) error {
	if len(result.Pending) == 0 {
		fmt.Fprintf(r.out, "No pending verifications for %s\n", result.Account.Hex())
	} else {
		r.renderPending(result.Pending, now)
	}
	if result.Dropped > 0 {
		fmt.Fprintln(r.out, faintStyle.Sprintf("Removed %d expired pending verification(s)", result.Dropped))
	}
	return nil
}

func (r *VerificationRenderer) renderPending(pending []domain.PendingVerification, now time.Time) {
	section(r.out, "⏳ Pending verifications")
	t := newTable(r.out)
	t.AppendHeader(table.Row{"PROVIDER", "STARTED", "URL"})
	for _, p := range pending {
		age := now.Sub(time.Unix(p.RecordedAt, 0)).Truncate(time.Second)
		t.AppendRow(table.Row{p.ProviderID, pendingStyle.Sprintf("%s ago", age), orDash(p.URL)})
	}
	t.Render()
}

// RenderStart renders the next step after a verification was started
func (r *VerificationRenderer) RenderStart(result *usecase.StartVerificationResult) error {
	if result.Replaced {
		fmt.Fprintln(r.out, FormatWarning(fmt.Sprintf("Replaced an earlier pending %s verification", result.Pending.ProviderID)))
	}
	fmt.Fprintln(r.out, FormatSuccess(fmt.Sprintf("Verification with %s started for %s", result.Pending.ProviderID, result.Request.Address)))
	if result.Message != "" {
		fmt.Fprintln(r.out, result.Message)
	}
	if result.URL != "" {
		fmt.Fprintf(r.out, "\n🔗 Continue at: %s\n", labelStyle.Sprint(result.URL))
	}
	fmt.Fprintln(r.out, faintStyle.Sprint("Run 'govctl verify complete <callback-url>' once the provider redirects you."))
	return nil
}

func statusLabel(s domain.VerificationStatus) string {
	switch {
	case s.Verified:
		return verifiedStyle.Sprint("✅ verified")
	case s.Expired:
		return expiredStyle.Sprint("❌ expired")
	default:
		return faintStyle.Sprint("not verified")
	}
}
