package tui

import (
	"fmt"
	"strings"

	"schoolhub/internal/alerts"
	"schoolhub/internal/assistant"
	"schoolhub/internal/directory"

	"github.com/charmbracelet/lipgloss"
)

func (m Model) View() string {
	var b strings.Builder
	b.WriteString(m.renderHeader())
	b.WriteString("\n")

	var body string
	switch m.tab {
	case TabHome:
		body = m.renderHome()
	case TabAlerts:
		body = m.renderAlerts()
	case TabLinks:
		body = m.renderLinks()
	case TabAssistant:
		body = m.renderAssistant()
	}
	b.WriteString(m.styles.Content.Render(body))
	b.WriteString("\n")
	b.WriteString(m.styles.Footer.Render(m.help()))
	return b.String()
}

func (m Model) renderHeader() string {
	tabs := make([]string, len(tabNames))
	for i, name := range tabNames {
		label := fmt.Sprintf("%d %s", i+1, name)
		if Tab(i) == m.tab {
			tabs[i] = m.styles.ActiveTab.Render(label)
		} else {
			tabs[i] = m.styles.Tab.Render(label)
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, m.styles.Header.Render("HCSS Hub"), strings.Join(tabs, ""))
}

func (m Model) help() string {
	switch m.tab {
	case TabAssistant:
		return "enter send • pgup/pgdn scroll • tab switch • esc back • ctrl+c quit"
	case TabLinks:
		return "←/→ directory • r refresh • tab switch • q quit"
	case TabHome:
		return "x dismiss • a answer • r refresh • tab switch • q quit"
	default:
		return "x dismiss • r refresh • tab switch • q quit"
	}
}

func (m Model) renderBanner() string {
	st := m.session.BannerState()
	if !st.Visible {
		return ""
	}
	line := fmt.Sprintf("CRITICAL ALERT: %s. %s", st.Alert.Title, st.Alert.Message)
	banner := m.styles.Banner
	if m.width > 8 {
		banner = banner.Width(m.width - 8)
	}
	return banner.Render(line) + "\n" + m.styles.Muted.Render("press x to dismiss") + "\n\n"
}

func (m Model) renderHome() string {
	var b strings.Builder
	b.WriteString(m.renderBanner())

	b.WriteString(m.styles.Title.Render("Quick Links"))
	b.WriteString("\n")
	links, _ := directory.Links(directory.QuickLinks)
	for _, l := range links {
		fmt.Fprintf(&b, "%s  %s\n", m.styles.Bold.Render(l.Title), m.styles.Muted.Render(l.Href))
	}

	t := directory.TeaserOfTheDay(m.now())
	b.WriteString("\n")
	b.WriteString(m.styles.Title.Render("Brain Teaser of the Day"))
	b.WriteString("\n")
	b.WriteString(t.Question)
	b.WriteString("\n")
	if m.showAnswer {
		b.WriteString(m.styles.Prompt.Render("Answer: " + t.Answer))
	} else {
		b.WriteString(m.styles.Muted.Render("press a to reveal the answer"))
	}
	return b.String()
}

func (m Model) renderAlerts() string {
	var b strings.Builder
	b.WriteString(m.renderBanner())
	b.WriteString(m.styles.Title.Render("School Alerts"))
	b.WriteString("\n")

	list := m.session.ListState()
	switch list.Kind {
	case alerts.ListLoading:
		b.WriteString(m.spinner.View() + " " + list.Message)
	case alerts.ListEmpty:
		b.WriteString(m.styles.Muted.Render(list.Message))
	default:
		for _, a := range list.Alerts {
			b.WriteString(m.styles.AlertCard(a, m.width))
			b.WriteString("\n")
		}
	}
	return b.String()
}

func (m Model) renderLinks() string {
	names := directory.Names()
	var b strings.Builder

	panes := make([]string, 0, len(names)+1)
	for _, n := range names {
		panes = append(panes, paneTitle(n))
	}
	panes = append(panes, "Contact")
	for i, p := range panes {
		if i == m.linkIdx {
			panes[i] = m.styles.ActiveTab.Render(p)
		} else {
			panes[i] = m.styles.Tab.Render(p)
		}
	}
	b.WriteString(strings.Join(panes, ""))
	b.WriteString("\n\n")

	if m.linkIdx >= len(names) {
		for _, c := range directory.Contacts() {
			b.WriteString(m.styles.Bold.Render(c.Name))
			b.WriteString("\n")
			fmt.Fprintf(&b, "%s\nPhone: %s  Fax: %s\n%s\n\n", c.Address, c.Phone, c.Fax, c.Email)
		}
		return b.String()
	}

	links, _ := directory.Links(names[m.linkIdx])
	for _, l := range links {
		b.WriteString(m.styles.Bold.Render(l.Title))
		if l.Subtitle != "" {
			b.WriteString("  " + l.Subtitle)
		}
		b.WriteString("\n")
		b.WriteString(m.styles.Muted.Render(l.Href))
		b.WriteString("\n")
	}
	return b.String()
}

func paneTitle(n directory.Name) string {
	switch n {
	case directory.QuickLinks:
		return "Quick"
	case directory.StaffLinks:
		return "Staff"
	case directory.NewsLinks:
		return "News"
	case directory.SocialLinks:
		return "Social"
	}
	return string(n)
}

func (m Model) renderAssistant() string {
	var b strings.Builder
	b.WriteString(m.styles.Title.Render("Hub AI"))
	b.WriteString("\n")
	if m.conv == nil {
		if m.aiErr != "" {
			b.WriteString(m.styles.Error.Render(m.aiErr))
		} else {
			b.WriteString(m.spinner.View() + " starting Hub AI...")
		}
		return b.String()
	}
	b.WriteString(m.vp.View())
	b.WriteString("\n")
	if m.aiErr != "" {
		b.WriteString(m.styles.Error.Render(m.aiErr))
		b.WriteString("\n")
	}
	b.WriteString(m.input.View())
	return b.String()
}

// refreshChat re-renders the transcript into the viewport.
func (m *Model) refreshChat() {
	if m.conv == nil {
		return
	}
	history := m.conv.History()
	var b strings.Builder
	for _, msg := range history {
		b.WriteString(m.renderTurn(msg))
		b.WriteString("\n")
	}
	if m.waiting {
		last := history[len(history)-1]
		if last.Role != assistant.RoleUser || last.Text != m.pending {
			b.WriteString(m.renderTurn(assistant.Message{Role: assistant.RoleUser, Text: m.pending}))
			b.WriteString("\n")
		}
		b.WriteString(m.spinner.View() + " Hub AI is thinking...")
	}
	m.vp.SetContent(b.String())
	m.vp.GotoBottom()
}

func (m Model) renderTurn(msg assistant.Message) string {
	if msg.Role == assistant.RoleUser {
		return m.styles.UserTurn.Render("You: " + msg.Text)
	}
	text := msg.Text
	if m.renderer != nil {
		if out, err := m.renderer.Render(text); err == nil {
			text = strings.TrimRight(out, "\n")
		}
	}
	return m.styles.ModelTurn.Render(text)
}
