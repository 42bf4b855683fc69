package directory

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLinks_AllDirectoriesPopulated(t *testing.T) {
	for _, name := range Names() {
		links, ok := Links(name)
		require.True(t, ok, name)
		assert.NotEmpty(t, links, name)
		for _, l := range links {
			assert.True(t, strings.HasPrefix(l.Href, "https://"), "%s: %s", name, l.Href)
			assert.NotEmpty(t, l.Title)
		}
	}
}

func TestLinks_UnknownAndCopy(t *testing.T) {
	_, ok := Links("cafeteria")
	assert.False(t, ok)

	links, _ := Links(QuickLinks)
	links[0].Title = "changed"
	again, _ := Links(QuickLinks)
	assert.Equal(t, "PowerSchool Parent", again[0].Title)
}

func TestContact_TelURI(t *testing.T) {
	c := Contacts()
	require.Len(t, c, 2)
	assert.Equal(t, "tel:4135939700", c[0].TelURI())
	assert.Equal(t, "tel:4137322200", c[1].TelURI())
}

func TestTeaserOfTheDay(t *testing.T) {
	morning := time.Date(2026, 3, 4, 7, 0, 0, 0, time.UTC)
	evening := time.Date(2026, 3, 4, 22, 30, 0, 0, time.UTC)
	assert.Equal(t, TeaserOfTheDay(morning), TeaserOfTheDay(evening))

	seen := map[string]bool{}
	for i := 0; i < len(Teasers()); i++ {
		seen[TeaserOfTheDay(morning.AddDate(0, 0, i)).Question] = true
	}
	assert.Len(t, seen, len(Teasers()), "consecutive days cycle through every teaser")
}
