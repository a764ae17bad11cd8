// Package verification computes whether identity stamps are currently valid.
// Everything here is a pure function of its inputs.
package verification

import (
	"fmt"
	"math"
	"sort"

	"github.com/trebuchet-org/govctl/internal/domain"
)

// ThresholdForTimestamp returns the validity days in force at ts: the entry with the
// latest EffectiveFrom that is <= ts. Entries sharing an EffectiveFrom resolve to the
// larger ValidityDays. Returns 0 when no entry qualifies. history is not modified.
func ThresholdForTimestamp(ts uint64, history domain.ThresholdHistory) uint64 {
	found := false
	var best domain.Threshold
	for _, h := range history {
		if h.EffectiveFrom > ts {
			continue
		}
		if !found || h.EffectiveFrom > best.EffectiveFrom ||
			(h.EffectiveFrom == best.EffectiveFrom && h.ValidityDays > best.ValidityDays) {
			best = h
			found = true
		}
	}
	if !found {
		return 0
	}
	return best.ValidityDays
}

// ExpiresAt returns the instant a verification made at verifiedAt stops being valid.
func ExpiresAt(verifiedAt uint64, history domain.ThresholdHistory) uint64 {
	days := ThresholdForTimestamp(verifiedAt, history)
	if days > (math.MaxUint64-verifiedAt)/domain.SecondsPerDay {
		return math.MaxUint64
	}
	return verifiedAt + days*domain.SecondsPerDay
}

// IsVerified computes the status of stamp at now. A nil stamp or one without
// verification events has no precondition and a nil TimeLeft.
func IsVerified(stamp *domain.Stamp, history domain.ThresholdHistory, now uint64) domain.VerificationStatus {
	last, ok := stamp.LastVerifiedAt()
	if !ok {
		return domain.VerificationStatus{}
	}

	boundary := ExpiresAt(last, history)
	left := secondsBetween(now, boundary)
	status := domain.VerificationStatus{
		PreCondition: true,
		TimeLeft:     &left,
	}
	if now < boundary {
		status.Verified = true
	} else {
		status.Expired = true
	}
	return status
}

// StatusForProvider finds the stamp for provider and computes its status.
func StatusForProvider(stamps []domain.Stamp, provider string, history domain.ThresholdHistory, now uint64) domain.VerificationStatus {
	for i := range stamps {
		if stamps[i].ProviderID == provider {
			return IsVerified(&stamps[i], history, now)
		}
	}
	return IsVerified(nil, history, now)
}

// Summarize computes the status of every stamp, sorted by provider.
func Summarize(stamps []domain.Stamp, history domain.ThresholdHistory, now uint64) []domain.ProviderStatus {
	out := make([]domain.ProviderStatus, 0, len(stamps))
	for i := range stamps {
		out = append(out, domain.ProviderStatus{
			ProviderID: stamps[i].ProviderID,
			UserHash:   stamps[i].UserHash,
			Status:     IsVerified(&stamps[i], history, now),
		})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].ProviderID < out[j].ProviderID })
	return out
}

// PrunePending splits pending records into those still live and those past PendingTTL.
func PrunePending(pending []domain.PendingVerification, now int64) (kept, dropped []domain.PendingVerification) {
	for _, p := range pending {
		if p.Expired(now) {
			dropped = append(dropped, p)
		} else {
			kept = append(kept, p)
		}
	}
	return kept, dropped
}

// FormatTimeLeft renders a TimeLeft value, e.g. "3d 4h" or "expired".
func FormatTimeLeft(seconds *int64) string {
	if seconds == nil {
		return "-"
	}
	s := *seconds
	if s <= 0 {
		return "expired"
	}
	days := s / domain.SecondsPerDay
	hours := (s % domain.SecondsPerDay) / 3600
	minutes := (s % 3600) / 60
	switch {
	case days > 0:
		return fmt.Sprintf("%dd %dh", days, hours)
	case hours > 0:
		return fmt.Sprintf("%dh %dm", hours, minutes)
	case minutes > 0:
		return fmt.Sprintf("%dm", minutes)
	default:
		return fmt.Sprintf("%ds", s)
	}
}

// secondsBetween returns to - from, clamped to the int64 range.
func secondsBetween(from, to uint64) int64 {
	if to >= from {
		d := to - from
		if d > math.MaxInt64 {
			return math.MaxInt64
		}
		return int64(d)
	}
	d := from - to
	if d > math.MaxInt64 {
		return math.MinInt64
	}
	return -int64(d)
}
