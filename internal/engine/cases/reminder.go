package cases

import "time"

// AlertTier classifies how overdue a case's follow-up contact is.
type AlertTier string

const (
	TierNormal   AlertTier = "normal"
	TierMedium   AlertTier = "medium"
	TierHigh     AlertTier = "high"
	TierCritical AlertTier = "critical"
)

// DefaultIntervalDays is the last fallback of the interval chain:
// case value, then organization default, then 7.
const DefaultIntervalDays = 7

// Cases never contacted are always overdue.
const neverContactedDays = 1 << 30

// Escalation is derived on read; it is never stored.
type Escalation struct {
	ElapsedDays int       `json:"elapsed_days"`
	Tier        AlertTier `json:"tier"`
}

// ResolveInterval collapses the interval fallback chain into one place.
// Non-positive values are treated as unset.
func ResolveInterval(caseDays, orgDefault int) int {
	if caseDays >= 1 {
		return caseDays
	}
	if orgDefault >= 1 {
		return orgDefault
	}
	return DefaultIntervalDays
}

func midnight(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// ElapsedDays counts whole days between midnight-normalized timestamps.
// A nil lastContact yields the "always overdue" sentinel.
func ElapsedDays(lastContact *time.Time, now time.Time) int {
	if lastContact == nil {
		return neverContactedDays
	}
	return int(midnight(now).Sub(midnight(*lastContact)).Hours() / 24)
}

// Classify maps elapsed days against the reminder interval onto a tier.
// Bands are checked most-urgent first; each threshold is clamped to at
// least one day so tiny intervals still order correctly. With the default
// interval of 7: 0-1 normal, 2-4 medium, 5-6 high, 7+ critical.
func Classify(lastContact *time.Time, intervalDays int, now time.Time) Escalation {
	if intervalDays < 1 {
		intervalDays = DefaultIntervalDays
	}

	elapsed := ElapsedDays(lastContact, now)

	tier := TierNormal
	switch {
	case elapsed >= intervalDays:
		tier = TierCritical
	case elapsed >= clampDay(intervalDays-2):
		tier = TierHigh
	case elapsed >= clampDay(intervalDays-5):
		tier = TierMedium
	}

	return Escalation{ElapsedDays: elapsed, Tier: tier}
}

func clampDay(d int) int {
	if d < 1 {
		return 1
	}
	return d
}
