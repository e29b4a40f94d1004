package tui

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/docchat/cli/internal/rag"
	"github.com/docchat/cli/internal/session"
)

const (
	tabChat = iota
	tabHistory
)

// message is one rendered chat bubble.
type message struct {
	role    string
	content string
	failed  bool
}

// answerMsg carries one completed pipeline invocation back into Update.
type answerMsg struct {
	record session.ChatRecord
	failed bool
}

// exportMsg reports the outcome of a history export.
type exportMsg struct {
	path string
	err  error
}

// Model is the Bubble Tea model for the chat application.
type Model struct {
	pipeline *rag.Pipeline
	log      *session.Log
	docPath  string

	tab      int
	input    textinput.Model
	viewport viewport.Model
	spin     spinner.Model
	history  table.Model
	messages []message
	pending  bool
	status   string
	ready    bool
	width    int
	height   int
}

// New creates the application model
func New(pipeline *rag.Pipeline, log *session.Log, docPath string) Model {
	ti := textinput.New()
	ti.Prompt = "> "
	ti.Placeholder = "Type your message..."
	ti.Focus()
	ti.CharLimit = 0

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = pendingStyle

	cols := []table.Column{
		{Title: "chat_id", Width: 10},
		{Title: "created_at", Width: 20},
		{Title: "query", Width: 30},
		{Title: "response_text", Width: 40},
		{Title: "run_time", Width: 10},
	}
	ht := table.New(table.WithColumns(cols), table.WithFocused(true))

	return Model{
		pipeline: pipeline,
		log:      log,
		docPath:  docPath,
		input:    ti,
		viewport: viewport.New(0, 0),
		spin:     sp,
		history:  ht,
		status:   "Ready. Tab switches between chat and history.",
	}
}

// Init initializes the model
func (m Model) Init() tea.Cmd { return textinput.Blink }

// Update handles key, window and pipeline events
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.ready = true
		m.width = msg.Width
		m.height = msg.Height
		_, qh := inputBoxStyle.GetFrameSize()
		reserved := 3 + qh // tab bar + status + spacer
		vh := msg.Height - reserved - 3
		if vh < 3 {
			vh = 3
		}
		m.viewport.Width = maxInt(20, msg.Width-2)
		m.viewport.Height = vh
		m.history.SetWidth(msg.Width - 2)
		m.history.SetHeight(vh)
		m.viewport.SetContent(m.renderTranscript())
		return m, nil

	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			return m, tea.Quit
		}
		switch msg.String() {
		case "tab":
			if m.tab == tabChat {
				m.tab = tabHistory
				m.refreshHistory()
				m.status = "Chat history. Press e to export, tab to go back."
			} else {
				m.tab = tabChat
				m.status = "Ready."
			}
			return m, nil
		case "enter":
			if m.tab == tabChat {
				return m.submit()
			}
		case "e":
			if m.tab == tabHistory {
				return m, m.export
			}
		case "esc":
			if m.tab == tabHistory {
				m.tab = tabChat
				return m, nil
			}
		}

	case spinner.TickMsg:
		if m.pending {
			var cmd tea.Cmd
			m.spin, cmd = m.spin.Update(msg)
			return m, cmd
		}
		return m, nil

	case answerMsg:
		m.pending = false
		m.messages = append(m.messages, message{
			role:    "assistant",
			content: msg.record.Response,
			failed:  msg.failed,
		})
		if msg.failed {
			m.status = "Request failed. The attempt was logged."
		} else {
			m.status = fmt.Sprintf("Answered in %.2fs", msg.record.RunTime.Seconds())
		}
		m.viewport.SetContent(m.renderTranscript())
		m.viewport.GotoBottom()
		m.refreshHistory()
		return m, nil

	case exportMsg:
		if msg.err != nil {
			m.status = "Export error: " + msg.err.Error()
		} else {
			m.status = "Exported to " + msg.path
		}
		return m, nil
	}

	var cmd tea.Cmd
	if m.tab == tabChat {
		m.input, cmd = m.input.Update(msg)
	} else {
		m.history, cmd = m.history.Update(msg)
	}
	return m, cmd
}

// submit sends the typed query through the pipeline. One query at a time:
// input is ignored while a call is in flight.
func (m Model) submit() (tea.Model, tea.Cmd) {
	query := strings.TrimSpace(m.input.Value())
	if query == "" || m.pending {
		return m, nil
	}
	m.input.SetValue("")
	m.pending = true
	m.status = "Processing request..."
	m.messages = append(m.messages, message{role: "user", content: query})
	m.viewport.SetContent(m.renderTranscript())
	m.viewport.GotoBottom()
	return m, tea.Batch(m.spin.Tick, m.ask(query))
}

// ask runs the pipeline and records the attempt, successful or not
func (m Model) ask(query string) tea.Cmd {
	return func() tea.Msg {
		answer, elapsed, err := m.pipeline.Answer(context.Background(), query)
		failed := false
		if err != nil {
			answer = "Error: " + err.Error()
			failed = true
		}
		rec := m.log.Record(query, answer, elapsed)
		return answerMsg{record: rec, failed: failed}
	}
}

// export writes the conversation log next to the source document
func (m Model) export() tea.Msg {
	data, err := m.log.ExportXLSX()
	if err != nil {
		return exportMsg{err: err}
	}
	path := session.ExportFileName(m.docPath, time.Now())
	if err := os.WriteFile(path, data, 0644); err != nil {
		return exportMsg{err: err}
	}
	return exportMsg{path: path}
}

func (m *Model) refreshHistory() {
	recs := m.log.Records()
	rows := make([]table.Row, 0, len(recs))
	for _, r := range recs {
		rows = append(rows, table.Row{
			r.ID.String()[:8],
			r.CreatedAt.Format("2006-01-02 15:04:05"),
			r.Query,
			r.Response,
			fmt.Sprintf("%.2fs", r.RunTime.Seconds()),
		})
	}
	m.history.SetRows(rows)
}

// View renders the active tab
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}

	var body string
	if m.tab == tabChat {
		input := inputBoxStyle.Render(m.input.View())
		body = m.viewport.View() + "\n" + input
	} else {
		body = m.history.View() + "\n" + helpStyle.Render("e: export  tab/esc: back")
	}

	status := m.status
	if m.pending {
		status = m.spin.View() + status
	}
	return m.renderTabs() + "\n" + body + "\n" + statusStyle.Render(status)
}

func (m Model) renderTabs() string {
	chat, history := "Chat", "Chat History"
	if m.tab == tabChat {
		chat = activeTabStyle.Render(chat)
		history = tabStyle.Render(history)
	} else {
		chat = tabStyle.Render(chat)
		history = activeTabStyle.Render(history)
	}
	return chat + "  " + history
}

func (m Model) renderTranscript() string {
	if len(m.messages) == 0 {
		return "Ask a question about the loaded document."
	}
	var lines []string
	for _, msg := range m.messages {
		switch {
		case msg.role == "user":
			lines = append(lines, userStyle.Render("You: ")+msg.content)
		case msg.failed:
			lines = append(lines, errorStyle.Render("AI: "+msg.content))
		default:
			lines = append(lines, aiStyle.Render("AI: ")+msg.content)
		}
		lines = append(lines, "")
	}
	return strings.Join(lines, "\n")
}

var (
	tabStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	activeTabStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205"))
	inputBoxStyle  = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	statusStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	pendingStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	userStyle      = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39"))
	aiStyle        = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205"))
	errorStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	helpStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
)

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
