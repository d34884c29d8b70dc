// Package tui is the terminal presentation layer. It renders snapshots of the
// core state containers and translates key presses into dispatcher calls; it
// owns no business state of its own.
package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"laraconsole/internal/bootstrap"
	"laraconsole/internal/domain"
)

type stateChangedMsg struct{}

type styles struct {
	statusBar lipgloss.Style
	connUp    lipgloss.Style
	connDown  lipgloss.Style
	answer    lipgloss.Style
	answerHot lipgloss.Style
	task      lipgloss.Style
	notice    map[domain.NotificationKind]lipgloss.Style
	muted     lipgloss.Style
	title     lipgloss.Style
}

func newStyles() styles {
	return styles{
		statusBar: lipgloss.NewStyle().Foreground(lipgloss.Color("#c0caf5")).Background(lipgloss.Color("#1a1b26")).Padding(0, 1),
		connUp:    lipgloss.NewStyle().Foreground(lipgloss.Color("#9ece6a")).Bold(true),
		connDown:  lipgloss.NewStyle().Foreground(lipgloss.Color("#f7768e")).Bold(true),
		answer:    lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1),
		answerHot: lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("#7aa2f7")).Padding(0, 1),
		task:      lipgloss.NewStyle().Foreground(lipgloss.Color("#e0af68")),
		notice: map[domain.NotificationKind]lipgloss.Style{
			domain.NotifyInfo:    lipgloss.NewStyle().Foreground(lipgloss.Color("#7aa2f7")),
			domain.NotifySuccess: lipgloss.NewStyle().Foreground(lipgloss.Color("#9ece6a")),
			domain.NotifyWarning: lipgloss.NewStyle().Foreground(lipgloss.Color("#e0af68")),
			domain.NotifyError:   lipgloss.NewStyle().Foreground(lipgloss.Color("#f7768e")),
		},
		muted: lipgloss.NewStyle().Foreground(lipgloss.Color("#565f89")),
		title: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#bb9af7")),
	}
}

// Model is the bubbletea application model.
type Model struct {
	services bootstrap.Services
	changes  chan struct{}

	transcript viewport.Model
	input      textinput.Model
	styles     styles

	width  int
	height int
	typing bool
}

// New binds the TUI to the assembled services. Every state container pushes a
// coalesced change signal that wakes the render loop.
func New(services bootstrap.Services) *Model {
	changes := make(chan struct{}, 1)
	wake := func() {
		select {
		case changes <- struct{}{}:
		default:
		}
	}
	services.Session.Subscribe(wake)
	services.Transcript.Subscribe(wake)
	services.Answers.Subscribe(wake)
	services.Tasks.Subscribe(wake)
	services.Notifications.Subscribe(wake)

	input := textinput.New()
	input.Prompt = "> "
	input.Placeholder = "ask the agent, or /join <dial-in> [dtmf] [label]"
	input.CharLimit = 500

	vp := viewport.New(0, 0)

	return &Model{
		services:   services,
		changes:    changes,
		transcript: vp,
		input:      input,
		styles:     newStyles(),
	}
}

func (m *Model) Init() tea.Cmd {
	return m.waitForChange()
}

func (m *Model) waitForChange() tea.Cmd {
	return func() tea.Msg {
		<-m.changes
		return stateChangedMsg{}
	}
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.transcript.Width = msg.Width - 2
		m.transcript.Height = maxInt(msg.Height-14, 4)
		m.refreshTranscript()
		return m, nil

	case stateChangedMsg:
		m.refreshTranscript()
		return m, m.waitForChange()

	case tea.KeyMsg:
		if m.typing {
			return m.updateTyping(msg)
		}
		return m.updateKeys(msg)
	}

	var cmd tea.Cmd
	m.transcript, cmd = m.transcript.Update(msg)
	return m, cmd
}

func (m *Model) updateTyping(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.typing = false
		m.input.Blur()
		return m, nil
	case tea.KeyEnter:
		text := strings.TrimSpace(m.input.Value())
		switch {
		case strings.HasPrefix(text, "/join "):
			m.services.Dispatcher.JoinCall(parseMeeting(strings.TrimPrefix(text, "/join ")))
		case text != "":
			m.services.Dispatcher.TextQuery(text)
		}
		m.input.SetValue("")
		m.typing = false
		m.input.Blur()
		return m, nil
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *Model) updateKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	d := m.services.Dispatcher
	switch msg.String() {
	case "q", "ctrl+c":
		m.services.Transport.Close()
		return m, tea.Quit
	case "/":
		m.typing = true
		m.input.Focus()
		return m, textinput.Blink
	case "a":
		if cur := m.services.Answers.Snapshot().Current; cur != nil {
			d.ApproveSpeak(cur.AnswerID)
		}
	case "r":
		if cur := m.services.Answers.Snapshot().Current; cur != nil {
			d.RejectAnswer(cur.AnswerID, "")
		}
	case "c":
		if cur := m.services.Answers.Snapshot().Current; cur != nil {
			d.CancelSpeech(cur.AnswerID)
		}
	case "y":
		if task, ok := firstActionable(m.services.Tasks.Tasks()); ok {
			d.ApproveTask(task.TaskID)
		}
	case "n":
		if task, ok := firstActionable(m.services.Tasks.Tasks()); ok {
			d.RejectTask(task.TaskID, "")
		}
	case "f":
		d.ForceCommandNext()
	case "e":
		d.EndCall()
	case "t":
		log := m.services.Transcript
		if log.Filter() == domain.FilterAll {
			log.SetFilter(domain.FilterCommands)
		} else {
			log.SetFilter(domain.FilterAll)
		}
	case "h":
		d.RequestHistory(50)
	}

	var cmd tea.Cmd
	m.transcript, cmd = m.transcript.Update(msg)
	return m, cmd
}

// parseMeeting reads "/join <dial-in> [dtmf] [label...]" arguments.
func parseMeeting(args string) domain.MeetingInfo {
	fields := strings.Fields(args)
	meeting := domain.MeetingInfo{}
	if len(fields) > 0 {
		meeting.DialIn = fields[0]
	}
	if len(fields) > 1 {
		meeting.DTMF = fields[1]
	}
	if len(fields) > 2 {
		meeting.Label = strings.Join(fields[2:], " ")
	}
	return meeting
}

func firstActionable(tasks []domain.Task) (domain.Task, bool) {
	for _, task := range tasks {
		if task.Status == domain.TaskQueued || task.Status == domain.TaskRunning {
			return task, true
		}
	}
	return domain.Task{}, false
}

func (m *Model) refreshTranscript() {
	lines := m.services.Transcript.View()
	var b strings.Builder
	for _, line := range lines {
		speaker := line.Speaker
		if speaker == "" {
			speaker = "?"
		}
		marker := " "
		if line.Wake {
			marker = "*"
		}
		text := line.Text
		if line.Partial {
			text = m.styles.muted.Render(text + " ...")
		}
		fmt.Fprintf(&b, "%s[%s] %s\n", marker, speaker, text)
	}
	atBottom := m.transcript.AtBottom()
	m.transcript.SetContent(b.String())
	if atBottom && m.services.Settings.AutoScrollTranscript {
		m.transcript.GotoBottom()
	}
}

func (m *Model) View() string {
	var sections []string
	sections = append(sections, m.statusLine())
	sections = append(sections, m.transcript.View())
	sections = append(sections, m.answerCard())
	sections = append(sections, m.taskLines())
	sections = append(sections, m.noticeLines())
	if m.typing {
		sections = append(sections, m.input.View())
	} else {
		sections = append(sections, m.styles.muted.Render(
			"a approve  r reject  c cancel  y/n task  f force  e end call  t filter  / ask  q quit"))
	}
	return strings.Join(sections, "\n")
}

func (m *Model) statusLine() string {
	snap := m.services.Session.Snapshot()

	conn := m.styles.connDown.Render(string(snap.ConnStatus))
	if snap.ConnStatus == domain.ConnConnected {
		conn = m.styles.connUp.Render(string(snap.ConnStatus))
	}

	rtt := "-"
	if snap.RTTMs >= 0 {
		rtt = fmt.Sprintf("%dms", snap.RTTMs)
	}
	call := string(snap.CallStatus)
	if call == "" {
		call = "no call"
	}

	return m.styles.statusBar.Render(fmt.Sprintf(
		"%s  %s | agent %s: %s | %s | rtt %s | drops %d",
		m.styles.title.Render(snap.Session.AgentName),
		conn, snap.Session.SessionID, snap.AgentStatus, call, rtt, snap.Reconnects,
	))
}

func (m *Model) answerCard() string {
	snap := m.services.Answers.Snapshot()
	if snap.Current == nil {
		return m.styles.muted.Render(fmt.Sprintf("no answer pending (queue %d, history %d)", len(snap.Queue), len(snap.History)))
	}

	cur := snap.Current
	style := m.styles.answer
	if cur.Status == domain.AnswerReady {
		style = m.styles.answerHot
	}
	body := fmt.Sprintf("[%s] %s", cur.Status, cur.Text)
	if len(snap.Queue) > 0 {
		body += m.styles.muted.Render(fmt.Sprintf("  (+%d queued)", len(snap.Queue)))
	}
	return style.Width(maxInt(m.width-2, 20)).Render(body)
}

func (m *Model) taskLines() string {
	tasks := m.services.Tasks.Tasks()
	if len(tasks) == 0 {
		return m.styles.muted.Render("no tasks")
	}
	var b strings.Builder
	for _, task := range tasks {
		fmt.Fprintf(&b, "%s\n", m.styles.task.Render(fmt.Sprintf("[%s] %s", task.Status, task.Summary)))
	}
	return strings.TrimRight(b.String(), "\n")
}

func (m *Model) noticeLines() string {
	items := m.services.Notifications.Items()
	if len(items) > 3 {
		items = items[len(items)-3:]
	}
	var b strings.Builder
	for _, item := range items {
		style, ok := m.styles.notice[item.Kind]
		if !ok {
			style = m.styles.muted
		}
		fmt.Fprintf(&b, "%s\n", style.Render("• "+item.Message))
	}
	return strings.TrimRight(b.String(), "\n")
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
