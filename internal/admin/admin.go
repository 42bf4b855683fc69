// Package admin backs the alert editors' panel: a password gate and a
// report on how far the alert sheet setup has progressed. Alerts
// themselves are edited in the Google Sheet, never here.
package admin

import (
	"crypto/subtle"
	"errors"
	"sync"
	"time"

	"schoolhub/internal/alerts"
	"schoolhub/internal/logging"

	"github.com/google/uuid"
)

// MsgIncorrectPassword is shown after a failed login.
const MsgIncorrectPassword = "Incorrect password. Please try again."

var (
	ErrIncorrectPassword = errors.New("incorrect admin password")
	ErrUnknownToken      = errors.New("unknown or expired admin token")
)

// Gate checks the shared editor password and hands out short-lived
// tokens. With an empty password the gate is open.
type Gate struct {
	password string
	ttl      time.Duration
	now      func() time.Time

	mu     sync.Mutex
	tokens map[string]time.Time
}

// NewGate returns a gate for password. Tokens live for ttl (12h if zero).
func NewGate(password string, ttl time.Duration) *Gate {
	if ttl <= 0 {
		ttl = 12 * time.Hour
	}
	return &Gate{
		password: password,
		ttl:      ttl,
		now:      time.Now,
		tokens:   make(map[string]time.Time),
	}
}

// Enabled reports whether a password is required.
func (g *Gate) Enabled() bool { return g.password != "" }

// Login checks password and returns a new token.
func (g *Gate) Login(password string) (string, error) {
	if g.Enabled() && subtle.ConstantTimeCompare([]byte(password), []byte(g.password)) != 1 {
		logging.AdminWarn("rejected admin login")
		return "", ErrIncorrectPassword
	}

	token := uuid.NewString()
	g.mu.Lock()
	g.prune()
	g.tokens[token] = g.now().Add(g.ttl)
	g.mu.Unlock()

	logging.Admin("admin login accepted")
	return token, nil
}

// Check validates a token from a previous Login.
func (g *Gate) Check(token string) error {
	if !g.Enabled() {
		return nil
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	exp, ok := g.tokens[token]
	if !ok || !g.now().Before(exp) {
		delete(g.tokens, token)
		return ErrUnknownToken
	}
	return nil
}

// Logout forgets token.
func (g *Gate) Logout(token string) {
	g.mu.Lock()
	delete(g.tokens, token)
	g.mu.Unlock()
}

// prune drops expired tokens. Caller holds mu.
func (g *Gate) prune() {
	now := g.now()
	for t, exp := range g.tokens {
		if !now.Before(exp) {
			delete(g.tokens, t)
		}
	}
}

// SetupState is how far the alert sheet configuration has got.
type SetupState string

const (
	SetupReady          SetupState = "ready"
	SetupPublishPending SetupState = "publish_pending"
	SetupUnconfigured   SetupState = "unconfigured"
)

// Status is what the admin panel shows.
type Status struct {
	State    SetupState `json:"state"`
	Headline string     `json:"headline,omitempty"`
	Detail   string     `json:"detail,omitempty"`
	Steps    []string   `json:"steps,omitempty"`

	// EditURL is set only when the share link is configured.
	EditURL string `json:"edit_url,omitempty"`

	// Columns documents the sheet layout editors must keep.
	Columns []Column `json:"columns"`
}

// Column describes one required sheet column.
type Column struct {
	Name string `json:"name"`
	Help string `json:"help"`
}

// SheetColumns lists the columns every alert row needs.
var SheetColumns = []Column{
	{"id", "A unique number for each alert (e.g., 1, 2, 3)."},
	{"severity", "Must be one of Critical, Warning, or Info."},
	{"title", "The headline of the alert."},
	{"message", "The full alert text."},
	{"date", "The date of the alert (e.g., January 1, 2024)."},
}

// SheetStatus reports the setup state for the given sheet links.
func SheetStatus(csvURL, editURL string) Status {
	csvOK := alerts.IsConfiguredURL(csvURL)
	editOK := alerts.IsConfiguredURL(editURL)

	st := Status{Columns: SheetColumns}
	if editOK {
		st.EditURL = editURL
	}

	switch {
	case csvOK && editOK:
		st.State = SetupReady
	case editOK:
		st.State = SetupPublishPending
		st.Headline = "Almost Done: Publish Your Sheet"
		st.Detail = "The link to your sheet is set up! The final step is to publish it to the web so the app can read the data."
		st.Steps = []string{
			`Click the "Open Alerts Google Sheet" button.`,
			"In your sheet, go to File > Share > Publish to web.",
			"Publish the sheet as a Comma-separated values (.csv) file.",
			"Copy the generated link into alerts.csv_url (or HUB_ALERTS_CSV_URL).",
		}
	default:
		st.State = SetupUnconfigured
		st.Headline = "Configuration Required"
		st.Detail = "The Google Sheet for alerts has not been set up. Set alerts.edit_url and alerts.csv_url (or HUB_ALERTS_EDIT_URL and HUB_ALERTS_CSV_URL)."
	}
	return st
}
