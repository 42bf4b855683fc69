// Package tui is the terminal host shell for the hub: it shows the alert
// banner and list, the link directories and the Hub AI chat.
package tui

import (
	"context"
	"errors"
	"time"

	"schoolhub/internal/alerts"
	"schoolhub/internal/assistant"
	"schoolhub/internal/directory"
	"schoolhub/internal/logging"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
)

// Tab is a top-level screen.
type Tab int

const (
	TabHome Tab = iota
	TabAlerts
	TabLinks
	TabAssistant
)

var tabNames = []string{"Home", "Alerts", "Links", "Hub AI"}

func (t Tab) String() string { return tabNames[t] }

// Options wires a Model.
type Options struct {
	Context context.Context
	Board   *alerts.Board
	Source  alerts.Source
	FeedURL string

	// Assistant is nil when no API key is configured.
	Assistant *assistant.Client

	Styles    *Styles
	Now       func() time.Time
	SessionID string
}

type feedMsg struct{ feed alerts.Feed }

type chatReadyMsg struct {
	conv *assistant.Conversation
	err  error
}

type replyMsg struct{ err error }

// Model is the bubbletea model for the shell.
type Model struct {
	ctx     context.Context
	board   *alerts.Board
	session *alerts.Session
	source  alerts.Source
	feedURL string
	ai      *assistant.Client
	now     func() time.Time
	styles  Styles

	tab        Tab
	linkIdx    int
	showAnswer bool
	width      int
	height     int

	input    textinput.Model
	vp       viewport.Model
	spinner  spinner.Model
	renderer *glamour.TermRenderer

	conv    *assistant.Conversation
	aiErr   string
	waiting bool
	pending string
}

// New builds the shell. Board and Source are required.
func New(opts Options) Model {
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}
	styles := DefaultStyles()
	if opts.Styles != nil {
		styles = *opts.Styles
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	sid := opts.SessionID
	if sid == "" {
		sid = "tui"
	}

	ti := textinput.New()
	ti.Placeholder = "Ask Hub AI about your studies..."
	ti.CharLimit = 2000
	ti.Prompt = "> "

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	m := Model{
		ctx:     ctx,
		board:   opts.Board,
		session: alerts.NewSession(opts.Board, sid),
		source:  opts.Source,
		feedURL: opts.FeedURL,
		ai:      opts.Assistant,
		now:     now,
		styles:  styles,
		input:   ti,
		vp:      viewport.New(80, 20),
		spinner: sp,
	}
	if m.ai == nil {
		m.aiErr = assistant.MsgNotConfigured
	}
	return m
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.fetchFeed(), m.spinner.Tick, m.startChat())
}

func (m Model) fetchFeed() tea.Cmd {
	ctx, src, url := m.ctx, m.source, m.feedURL
	return func() tea.Msg {
		return feedMsg{feed: src.Fetch(ctx, url)}
	}
}

func (m Model) startChat() tea.Cmd {
	if m.ai == nil {
		return nil
	}
	ctx, ai := m.ctx, m.ai
	return func() tea.Msg {
		conv, err := ai.StartChat(ctx)
		return chatReadyMsg{conv: conv, err: err}
	}
}

func (m Model) send(text string) tea.Cmd {
	ctx, conv := m.ctx, m.conv
	return func() tea.Msg {
		_, err := conv.Send(ctx, text)
		return replyMsg{err: err}
	}
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.resize()
		return m, nil

	case feedMsg:
		if m.board.Apply(msg.feed) {
			logging.TUIDebug("applied feed %s (%d alerts)", msg.feed.State, len(msg.feed.Alerts))
		}
		return m, nil

	case chatReadyMsg:
		if msg.err != nil {
			m.aiErr = assistant.UserMessage(msg.err)
			return m, nil
		}
		m.conv, m.aiErr = msg.conv, ""
		m.refreshChat()
		return m, nil

	case replyMsg:
		m.waiting, m.pending = false, ""
		if msg.err != nil {
			m.aiErr = "Failed to get a response from the AI."
		}
		m.refreshChat()
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()
	switch key {
	case "ctrl+c":
		return m, tea.Quit
	case "tab":
		return m.switchTab((m.tab + 1) % Tab(len(tabNames)))
	case "shift+tab":
		return m.switchTab((m.tab + Tab(len(tabNames)) - 1) % Tab(len(tabNames)))
	}

	if m.tab == TabAssistant {
		return m.handleChatKey(msg)
	}

	switch key {
	case "q", "esc":
		return m, tea.Quit
	case "1", "2", "3", "4":
		return m.switchTab(Tab(key[0] - '1'))
	case "x":
		m.session.DismissBanner()
	case "r":
		return m, m.fetchFeed()
	case "a":
		if m.tab == TabHome {
			m.showAnswer = !m.showAnswer
		}
	case "right", "l":
		if m.tab == TabLinks {
			m.linkIdx = (m.linkIdx + 1) % linkPanes()
		}
	case "left", "h":
		if m.tab == TabLinks {
			m.linkIdx = (m.linkIdx + linkPanes() - 1) % linkPanes()
		}
	}
	return m, nil
}

func (m Model) handleChatKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		return m.switchTab(TabHome)
	case "pgup", "pgdown":
		var cmd tea.Cmd
		m.vp, cmd = m.vp.Update(msg)
		return m, cmd
	case "enter":
		text := m.input.Value()
		if m.conv == nil || m.waiting || text == "" {
			return m, nil
		}
		m.input.Reset()
		m.waiting, m.pending = true, text
		m.aiErr = ""
		m.refreshChat()
		return m, m.send(text)
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) switchTab(t Tab) (tea.Model, tea.Cmd) {
	m.tab = t
	if t == TabAssistant {
		m.refreshChat()
		return m, m.input.Focus()
	}
	m.input.Blur()
	return m, nil
}

func (m *Model) resize() {
	w := max(m.width-4, 20)
	h := max(m.height-8, 5)
	m.vp.Width, m.vp.Height = w, h
	m.input.Width = max(w-4, 10)
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(max(w-4, 20)),
	)
	if err == nil {
		m.renderer = r
	}
	m.refreshChat()
}

// linkPanes is the directories plus the contact cards.
func linkPanes() int { return len(directory.Names()) + 1 }

// Run starts the shell on the terminal and blocks until the user quits.
func Run(opts Options) error {
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}
	p := tea.NewProgram(New(opts), tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := p.Run()
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}
	return err
}
