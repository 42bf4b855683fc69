// Package alerts ingests the school alert sheet: it fetches the published CSV,
// parses it into typed records, orders them by severity and derives the
// banner and list read models shown to users.
package alerts

// Severity is the display tier of an alert.
type Severity string

const (
	SeverityCritical Severity = "Critical"
	SeverityWarning  Severity = "Warning"
	SeverityInfo     Severity = "Info"
)

// ParseSeverity maps a sheet value to a Severity. Matching is case-sensitive.
// Anything unrecognized, including the empty string, becomes SeverityInfo.
func ParseSeverity(s string) Severity {
	switch Severity(s) {
	case SeverityCritical, SeverityWarning, SeverityInfo:
		return Severity(s)
	default:
		return SeverityInfo
	}
}

// Alert is one row of the alert sheet. Values are never mutated after parsing.
type Alert struct {
	ID       int      `json:"id"`
	Severity Severity `json:"severity"`
	Title    string   `json:"title"`
	Message  string   `json:"message"`
	Date     string   `json:"date"` // display text only, never parsed
}

// IsCritical reports whether the alert is eligible for the home banner.
func (a Alert) IsCritical() bool {
	return a.Severity == SeverityCritical
}
