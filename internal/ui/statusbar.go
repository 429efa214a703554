package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// MessageType represents the type of status message.
type MessageType int

const (
	MsgInfo MessageType = iota
	MsgSuccess
	MsgError
)

// successTTL is how long a success message stays up.
const successTTL = 3 * time.Second

// StatusBarModel is the status bar at the bottom: a message or key hints on
// the left, dataset and selection summary on the right.
type StatusBarModel struct {
	message     string
	messageType MessageType
	messageTime time.Time
	loading     string
	spinner     spinner.Model
	help        help.Model
	keys        KeyMap
	source      string
	selected    int
	rangeLabel  string
	width       int
}

// NewStatusBarModel creates a new status bar.
func NewStatusBarModel(keys KeyMap) StatusBarModel {
	sp := spinner.New()
	sp.Spinner = spinner.MiniDot
	sp.Style = AccentText

	h := help.New()
	h.ShortSeparator = " · "
	return StatusBarModel{spinner: sp, help: h, keys: keys}
}

// SetWidth sets the status bar width.
func (m *StatusBarModel) SetWidth(w int) {
	m.width = w
	m.help.Width = w / 2
}

// SetMessage sets a status message.
func (m *StatusBarModel) SetMessage(msg string, t MessageType) {
	m.message = msg
	m.messageType = t
	m.messageTime = time.Now()
}

// Message returns the current message and its type.
func (m StatusBarModel) Message() (string, MessageType) {
	return m.message, m.messageType
}

// StartLoading shows a spinner with label and returns its tick.
func (m *StatusBarModel) StartLoading(label string) tea.Cmd {
	m.loading = label
	return m.spinner.Tick
}

// StopLoading hides the spinner.
func (m *StatusBarModel) StopLoading() {
	m.loading = ""
}

// Loading reports whether the spinner is shown.
func (m StatusBarModel) Loading() bool {
	return m.loading != ""
}

// SetSummary updates the right-hand dataset summary.
func (m *StatusBarModel) SetSummary(source string, selected int, rangeLabel string) {
	m.source = source
	m.selected = selected
	m.rangeLabel = rangeLabel
}

// Update advances the spinner while loading.
func (m *StatusBarModel) Update(msg tea.Msg) tea.Cmd {
	if _, ok := msg.(spinner.TickMsg); !ok || m.loading == "" {
		return nil
	}
	var cmd tea.Cmd
	m.spinner, cmd = m.spinner.Update(msg)
	return cmd
}

// ClearExpiredMessage clears success messages after 3 seconds.
func (m *StatusBarModel) ClearExpiredMessage() {
	if m.messageType == MsgSuccess && time.Since(m.messageTime) > successTTL {
		m.message = ""
	}
}

// View renders the status bar.
func (m StatusBarModel) View() string {
	var left string
	switch {
	case m.loading != "":
		left = m.spinner.View() + " " + m.loading
	case m.message != "":
		var msgStyle lipgloss.Style
		switch m.messageType {
		case MsgError:
			msgStyle = StatusErrorStyle
		case MsgSuccess:
			msgStyle = StatusSuccessStyle
		default:
			msgStyle = StatusBarStyle
		}
		left = msgStyle.UnsetPadding().Render(m.message)
	default:
		left = m.help.ShortHelpView(m.keys.ShortHelp())
	}

	var rightParts []string
	if m.source != "" {
		rightParts = append(rightParts, m.source)
	}
	if m.selected > 0 {
		rightParts = append(rightParts, fmt.Sprintf("%d selected", m.selected))
	}
	if m.rangeLabel != "" {
		rightParts = append(rightParts, m.rangeLabel)
	}
	right := strings.Join(rightParts, " · ")

	w := max(m.width, 20)
	gap := w - lipgloss.Width(left) - lipgloss.Width(right) - 2
	if gap < 1 {
		gap = 1
	}

	line := left + strings.Repeat(" ", gap) + right
	return StatusBarStyle.Width(w).MaxHeight(1).Render(line)
}

// HelpView renders the full key help.
func (m StatusBarModel) HelpView() string {
	h := m.help
	h.Width = 0
	return HelpBoxStyle.Render(HeaderStyle.Render("Keys") + "\n\n" + h.FullHelpView(m.keys.FullHelp()))
}
