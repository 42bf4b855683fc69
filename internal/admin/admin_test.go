package admin

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGateLogin(t *testing.T) {
	g := NewGate("s3cret!", time.Hour)
	require.True(t, g.Enabled())

	_, err := g.Login("wrong")
	assert.ErrorIs(t, err, ErrIncorrectPassword)

	token, err := g.Login("s3cret!")
	require.NoError(t, err)
	assert.NoError(t, g.Check(token))
	assert.ErrorIs(t, g.Check("not-a-token"), ErrUnknownToken)

	g.Logout(token)
	assert.ErrorIs(t, g.Check(token), ErrUnknownToken)
}

func TestGateTokenExpiry(t *testing.T) {
	now := time.Date(2024, 1, 1, 8, 0, 0, 0, time.UTC)
	g := NewGate("pw", time.Minute)
	g.now = func() time.Time { return now }

	token, err := g.Login("pw")
	require.NoError(t, err)
	require.NoError(t, g.Check(token))

	now = now.Add(2 * time.Minute)
	assert.ErrorIs(t, g.Check(token), ErrUnknownToken)
}

func TestGatePrunesExpired(t *testing.T) {
	now := time.Date(2024, 1, 1, 8, 0, 0, 0, time.UTC)
	g := NewGate("pw", time.Minute)
	g.now = func() time.Time { return now }

	_, err := g.Login("pw")
	require.NoError(t, err)
	now = now.Add(time.Hour)
	_, err = g.Login("pw")
	require.NoError(t, err)
	assert.Len(t, g.tokens, 1)
}

func TestGateOpenWithoutPassword(t *testing.T) {
	g := NewGate("", 0)
	assert.False(t, g.Enabled())

	token, err := g.Login("anything")
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.NoError(t, g.Check(""))
}

func TestSheetStatus(t *testing.T) {
	const (
		csv  = "https://docs.google.com/spreadsheets/d/e/x/pub?output=csv"
		edit = "https://docs.google.com/spreadsheets/d/x/edit"
	)

	tests := []struct {
		name     string
		csv      string
		edit     string
		want     SetupState
		headline string
		editURL  string
	}{
		{"both", csv, edit, SetupReady, "", edit},
		{"edit only", "Add your published CSV link here", edit, SetupPublishPending, "Almost Done: Publish Your Sheet", edit},
		{"neither", "", "Add your sheet share link here", SetupUnconfigured, "Configuration Required", ""},
		{"csv only", csv, "", SetupUnconfigured, "Configuration Required", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			st := SheetStatus(tt.csv, tt.edit)
			assert.Equal(t, tt.want, st.State)
			assert.Equal(t, tt.headline, st.Headline)
			assert.Equal(t, tt.editURL, st.EditURL)
			assert.Len(t, st.Columns, 5)
		})
	}
}

func TestSheetStatusStepsOnlyWhenPending(t *testing.T) {
	assert.Empty(t, SheetStatus("", "").Steps)
	assert.Len(t, SheetStatus("", "https://example.com/edit").Steps, 4)
}
