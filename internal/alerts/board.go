package alerts

import (
	"context"
	"slices"
	"sync"

	"schoolhub/internal/logging"
)

// ListKind selects what the alerts listing renders.
type ListKind string

const (
	ListLoading ListKind = "loading"
	ListEmpty   ListKind = "empty"
	ListAlerts  ListKind = "alerts"
)

// Fixed listing texts. A failed fetch and an empty sheet both read EmptyMessage.
const (
	LoadingMessage = "Loading alerts..."
	EmptyMessage   = "No active alerts."
)

// BannerState is the home-screen banner. Alert is nil when hidden.
type BannerState struct {
	Visible bool   `json:"visible"`
	Alert   *Alert `json:"alert,omitempty"`
}

// ListState is the alerts listing.
type ListState struct {
	Kind    ListKind `json:"kind"`
	Message string   `json:"message,omitempty"`
	Alerts  []Alert  `json:"alerts"`
}

// Board holds the current feed and the per-session banner dismissals, and
// derives both read models from them. It is safe for concurrent use.
type Board struct {
	mu      sync.RWMutex
	feed    Feed
	ordered []Alert
	lead    Alert
	hasLead bool
	// dismissed holds sessions that closed the banner for the current feed.
	dismissed map[string]struct{}
}

// NewBoard returns a board in the loading state.
func NewBoard() *Board {
	return &Board{
		feed:      Loading(),
		dismissed: make(map[string]struct{}),
	}
}

// Apply replaces the current feed and re-arms every banner. Feeds carrying an
// older generation than the one held are stale and ignored, so the latest
// request wins if fetches ever overlap. An unstamped feed (generation 0) is
// always applied and keeps the held generation.
func (b *Board) Apply(feed Feed) bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	if feed.Generation != 0 && feed.Generation <= b.feed.Generation {
		logging.AlertsDebug("ignoring stale feed generation %d (holding %d)", feed.Generation, b.feed.Generation)
		return false
	}

	held := b.feed.Generation
	b.feed = feed
	b.feed.Generation = max(held, feed.Generation)
	b.ordered = nil
	b.lead, b.hasLead = Alert{}, false
	if feed.State == FeedLoaded {
		b.ordered = OrderForDisplay(feed.Alerts)
		b.lead, b.hasLead = SelectLeadCritical(feed.Alerts)
	}
	clear(b.dismissed)

	logging.Alerts("board now %s with %d alerts (critical banner: %v)", feed.State, len(feed.Alerts), b.hasLead)
	return true
}

// Feed returns the feed currently shown.
func (b *Board) Feed() Feed {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.feed
}

// Banner returns the banner for session. It is only ever shown for a loaded
// feed; loading and failure never surface on the home screen.
func (b *Board) Banner(session string) BannerState {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.bannerLocked(session)
}

func (b *Board) bannerLocked(session string) BannerState {
	if b.feed.State != FeedLoaded || !b.hasLead {
		return BannerState{}
	}
	if _, ok := b.dismissed[session]; ok {
		return BannerState{}
	}
	lead := b.lead
	return BannerState{Visible: true, Alert: &lead}
}

// Dismiss hides the banner for session until a new feed is applied.
// It reports whether a visible banner was hidden.
func (b *Board) Dismiss(session string) bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.bannerLocked(session).Visible {
		return false
	}
	b.dismissed[session] = struct{}{}
	logging.AlertsDebug("banner for alert %d dismissed by session %s", b.lead.ID, session)
	return true
}

// List returns the alerts listing.
func (b *Board) List() ListState {
	b.mu.RLock()
	defer b.mu.RUnlock()

	switch {
	case b.feed.State == FeedLoading:
		return ListState{Kind: ListLoading, Message: LoadingMessage, Alerts: []Alert{}}
	case b.feed.State == FeedFailed, len(b.ordered) == 0:
		return ListState{Kind: ListEmpty, Message: EmptyMessage, Alerts: []Alert{}}
	default:
		return ListState{Kind: ListAlerts, Alerts: slices.Clone(b.ordered)}
	}
}

// Source produces feeds. *Fetcher is the production implementation.
type Source interface {
	Fetch(ctx context.Context, url string) Feed
}

// Refresh fetches url from src and applies the result to the board.
func (b *Board) Refresh(ctx context.Context, src Source, url string) Feed {
	feed := src.Fetch(ctx, url)
	b.Apply(feed)
	return feed
}

// Session binds a board to one viewer for hosts with a single user.
type Session struct {
	board *Board
	id    string
}

// NewSession returns a session view of board.
func NewSession(board *Board, id string) *Session {
	return &Session{board: board, id: id}
}

func (s *Session) ID() string { return s.id }

func (s *Session) BannerState() BannerState { return s.board.Banner(s.id) }

func (s *Session) ListState() ListState { return s.board.List() }

func (s *Session) DismissBanner() bool { return s.board.Dismiss(s.id) }
