package domain

// SecondsPerDay converts threshold days into seconds.
const SecondsPerDay = 86400

// PendingTTL is how long a started verification stays pending, in seconds.
const PendingTTL = 3600

// Stamp is the on-chain record of verification events for one identity provider.
// VerifiedAt is append-only and non-decreasing; the last element is the newest event.
type Stamp struct {
	ProviderID string   `json:"providerId"`
	UserHash   string   `json:"userHash"`
	VerifiedAt []uint64 `json:"verifiedAt"`
}

// LastVerifiedAt returns the most recent verification time.
func (s *Stamp) LastVerifiedAt() (uint64, bool) {
	if s == nil || len(s.VerifiedAt) == 0 {
		return 0, false
	}
	return s.VerifiedAt[len(s.VerifiedAt)-1], true
}

// Threshold says that from EffectiveFrom onward a verification is valid for ValidityDays.
type Threshold struct {
	EffectiveFrom uint64 `json:"effectiveFrom"`
	ValidityDays  uint64 `json:"validityDays"`
}

// ThresholdHistory is every threshold change the DAO has recorded.
type ThresholdHistory []Threshold

// VerificationStatus is the computed state of one stamp.
// TimeLeft is nil when PreCondition is false and negative once expired.
type VerificationStatus struct {
	Verified     bool   `json:"verified"`
	Expired      bool   `json:"expired"`
	PreCondition bool   `json:"preCondition"`
	TimeLeft     *int64 `json:"timeLeftUntilExpiration"`
}

// ProviderStatus pairs a provider with its computed status.
type ProviderStatus struct {
	ProviderID string             `json:"providerId"`
	UserHash   string             `json:"userHash,omitempty"`
	Status     VerificationStatus `json:"status"`
}

// PendingVerification marks a verification that was started off-chain but not yet recorded.
type PendingVerification struct {
	Address    string `json:"address"`
	ProviderID string `json:"providerId"`
	RecordedAt int64  `json:"recordedAt"`
	URL        string `json:"url,omitempty"`
}

// Expired reports whether the pending record outlived PendingTTL.
func (p PendingVerification) Expired(now int64) bool {
	return now-p.RecordedAt > PendingTTL
}

// KnownProviders lists the identity providers the verifier supports.
var KnownProviders = []string{"github", "proofofhumanity"}
