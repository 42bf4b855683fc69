package alerts

import (
	"errors"
	"fmt"
)

// FeedState is the lifecycle of one fetch of the alert sheet.
type FeedState int

const (
	FeedLoading FeedState = iota
	FeedLoaded
	FeedFailed
)

func (s FeedState) String() string {
	switch s {
	case FeedLoading:
		return "loading"
	case FeedLoaded:
		return "loaded"
	case FeedFailed:
		return "failed"
	default:
		return fmt.Sprintf("FeedState(%d)", int(s))
	}
}

// Feed is the outcome of fetching and parsing the sheet. A loaded feed with
// no alerts is a normal state, distinct from a failed one.
type Feed struct {
	State  FeedState
	Alerts []Alert
	// Reason explains a failure for operators. It is never shown to users.
	Reason string
	// Generation orders feeds; a Board ignores anything older than what it holds.
	Generation uint64
}

// Loading returns the initial feed held before the first fetch completes.
func Loading() Feed {
	return Feed{State: FeedLoading}
}

// Loaded wraps parsed alerts. A nil slice is normalized to empty.
func Loaded(records []Alert) Feed {
	if records == nil {
		records = []Alert{}
	}
	return Feed{State: FeedLoaded, Alerts: records}
}

// Failed records a fetch failure with an operator-facing reason.
func Failed(err error) Feed {
	return Feed{State: FeedFailed, Alerts: []Alert{}, Reason: err.Error()}
}

// UserMessage is the only failure text the user interface may show.
const UserMessage = "Could not retrieve school alerts at this time."

var (
	// ErrNotConfigured means the sheet URL is unset or a placeholder.
	ErrNotConfigured = errors.New("alert sheet url not configured")
	// ErrTransport covers non-success statuses and network failures.
	ErrTransport = errors.New("alert sheet transport failure")
)
