package alerts

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubSource struct {
	feeds []Feed
	calls int
}

func (s *stubSource) Fetch(ctx context.Context, url string) Feed {
	f := s.feeds[s.calls]
	s.calls++
	return f
}

func loadedAt(gen uint64, records ...Alert) Feed {
	f := Loaded(records)
	f.Generation = gen
	return f
}

var (
	critical1 = Alert{ID: 1, Severity: SeverityCritical, Title: "A", Message: "msg", Date: "Jan 1"}
	info2     = Alert{ID: 2, Severity: SeverityInfo, Title: "B", Message: "msg", Date: "Jan 2"}
	warning3  = Alert{ID: 3, Severity: SeverityWarning, Title: "C", Message: "msg", Date: "Jan 3"}
)

func TestBoard_Loading(t *testing.T) {
	b := NewBoard()

	assert.Equal(t, FeedLoading, b.Feed().State)
	assert.False(t, b.Banner("s").Visible)
	list := b.List()
	assert.Equal(t, ListLoading, list.Kind)
	assert.Equal(t, LoadingMessage, list.Message)
	assert.Empty(t, list.Alerts)
}

func TestBoard_EmptySheet(t *testing.T) {
	b := NewBoard()
	b.Apply(Loaded(Parse("id,severity,title,message,date\n")))

	assert.Equal(t, ListState{Kind: ListEmpty, Message: EmptyMessage, Alerts: []Alert{}}, b.List())
	assert.Equal(t, BannerState{}, b.Banner("s"))
}

func TestBoard_FailedLooksLikeEmpty(t *testing.T) {
	empty := NewBoard()
	empty.Apply(Loaded(nil))

	failed := NewBoard()
	failed.Apply(Failed(errors.New("HTTP 500")))

	assert.Equal(t, empty.List(), failed.List())
	assert.False(t, failed.Banner("s").Visible)
	assert.Equal(t, FeedFailed, failed.Feed().State)
}

func TestBoard_FailedHidesBannerEvenWithAlerts(t *testing.T) {
	b := NewBoard()
	feed := Failed(errors.New("boom"))
	feed.Alerts = []Alert{critical1}
	b.Apply(feed)

	assert.False(t, b.Banner("s").Visible)
	assert.Equal(t, ListEmpty, b.List().Kind)
}

func TestBoard_MixedSeverities(t *testing.T) {
	b := NewBoard()
	b.Apply(Loaded([]Alert{critical1, info2, warning3}))

	list := b.List()
	assert.Equal(t, ListAlerts, list.Kind)
	assert.Equal(t, []int{1, 3, 2}, ids(list.Alerts))

	banner := b.Banner("s")
	require.True(t, banner.Visible)
	assert.Equal(t, critical1, *banner.Alert)
}

func TestBoard_NoCriticalNoBanner(t *testing.T) {
	b := NewBoard()
	b.Apply(Loaded([]Alert{info2, warning3}))

	assert.False(t, b.Banner("s").Visible)
	assert.False(t, b.Dismiss("s"))
}

func TestBoard_DismissIsPerSession(t *testing.T) {
	b := NewBoard()
	b.Apply(Loaded([]Alert{critical1}))

	assert.True(t, b.Dismiss("alice"))
	assert.False(t, b.Dismiss("alice"), "second dismissal is a no-op")

	assert.False(t, b.Banner("alice").Visible)
	assert.True(t, b.Banner("bob").Visible)
	assert.Equal(t, ListAlerts, b.List().Kind, "dismissal does not touch the listing")
}

func TestBoard_DismissThenRefetchRearms(t *testing.T) {
	src := &stubSource{feeds: []Feed{loadedAt(1, critical1), loadedAt(2, critical1)}}
	b := NewBoard()
	s := NewSession(b, "local")

	b.Refresh(context.Background(), src, "https://example.com/alerts.csv")
	require.True(t, s.BannerState().Visible)
	assert.Equal(t, 1, s.BannerState().Alert.ID)

	require.True(t, s.DismissBanner())
	assert.False(t, s.BannerState().Visible)

	b.Refresh(context.Background(), src, "https://example.com/alerts.csv")
	banner := s.BannerState()
	require.True(t, banner.Visible)
	assert.Equal(t, 1, banner.Alert.ID)
}

func TestBoard_StaleFeedIgnored(t *testing.T) {
	b := NewBoard()
	require.True(t, b.Apply(loadedAt(5, critical1)))

	assert.False(t, b.Apply(loadedAt(3, info2)))
	assert.False(t, b.Apply(loadedAt(5, info2)))
	assert.Equal(t, []int{1}, ids(b.List().Alerts))

	assert.True(t, b.Apply(loadedAt(6, info2)))
	assert.Equal(t, []int{2}, ids(b.List().Alerts))
}

func TestBoard_UnstampedFeedKeepsGeneration(t *testing.T) {
	b := NewBoard()
	require.True(t, b.Apply(loadedAt(5, critical1)))

	require.True(t, b.Apply(Failed(ErrTransport)))
	assert.Equal(t, uint64(5), b.Feed().Generation)

	assert.False(t, b.Apply(loadedAt(3, info2)))
	assert.Equal(t, ListEmpty, b.List().Kind)

	assert.True(t, b.Apply(loadedAt(6, info2)))
	assert.Equal(t, []int{2}, ids(b.List().Alerts))
}

func TestBoard_ListIsACopy(t *testing.T) {
	b := NewBoard()
	b.Apply(Loaded([]Alert{critical1, info2}))

	list := b.List()
	list.Alerts[0].Title = "mutated"

	assert.Equal(t, "A", b.List().Alerts[0].Title)
	banner := b.Banner("s")
	banner.Alert.Title = "mutated"
	assert.Equal(t, "A", b.Banner("s").Alert.Title)
}

func TestSession_ReadModels(t *testing.T) {
	b := NewBoard()
	s := NewSession(b, "tui")
	assert.Equal(t, "tui", s.ID())
	assert.Equal(t, ListLoading, s.ListState().Kind)

	b.Apply(Loaded([]Alert{warning3, critical1}))
	assert.Equal(t, []int{1, 3}, ids(s.ListState().Alerts))
	assert.True(t, s.BannerState().Visible)
}
