package cli

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"charm.land/bubbles/v2/textinput"
	tea "charm.land/bubbletea/v2"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/rahulvenkat/docchat/internal/chat"
	"github.com/rahulvenkat/docchat/internal/citations"
	"github.com/rahulvenkat/docchat/internal/docs"
	"github.com/rahulvenkat/docchat/internal/lang"
	"github.com/rahulvenkat/docchat/internal/models"
)

const requestTimeout = 2 * time.Minute

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Start an interactive chat session",
	Long: `Start an interactive chat session against the assistant.

Enter sends the question (a modified Enter does not). When a document is
selected, questions are scoped to it.

Keys:
  enter    send
  ctrl+d   cycle document context
  ctrl+t   toggle translation of the last answer
  ctrl+s   expand/collapse the source panel
  ctrl+r   refresh the document list
  ctrl+c   quit`,
	RunE: runChat,
}

func runChat(cmd *cobra.Command, args []string) error {
	if !term.IsTerminal(int(os.Stdin.Fd())) {
		return fmt.Errorf("chat requires an interactive terminal")
	}

	store := chat.NewStore()
	model := newChatModel(store)

	p := tea.NewProgram(model)
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("chat UI error: %w", err)
	}

	snap := collector.Snapshot()
	logger.Info("session finished",
		"duration_s", snap.SessionSeconds,
		"turns", store.Len(),
		"total_tokens", snap.TotalTokens(),
	)

	if total := snap.TotalTokens(); total > 0 {
		fmt.Printf("Session: %d messages, %d tokens.\n", store.Len(), total)
	}
	return nil
}

// chatTheme holds the color scheme for the chat display.
type chatTheme struct {
	User      lipgloss.Color
	Assistant lipgloss.Color
	Error     lipgloss.Color
	Hint      lipgloss.Color
	Source    lipgloss.Color
}

var defaultChatTheme = chatTheme{
	User:      lipgloss.Color("#5FAFD7"), // light blue
	Assistant: lipgloss.Color("#00D787"), // green
	Error:     lipgloss.Color("#FF005F"), // red
	Hint:      lipgloss.Color("#6C6C6C"), // dim gray
	Source:    lipgloss.Color("#AF87FF"), // violet
}

func (t chatTheme) userStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(t.User).Bold(true)
}

func (t chatTheme) assistantStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(t.Assistant).Bold(true)
}

func (t chatTheme) errorStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(t.Error)
}

func (t chatTheme) hintStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(t.Hint).Italic(true)
}

func (t chatTheme) sourceStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(t.Source)
}

// answerMsg carries the completed backend turn.
type answerMsg struct {
	answer *models.Message
	err    error
}

// translationMsg carries a finished translation fetch.
type translationMsg struct {
	messageID int64
	lang      string
	err       error
}

// docsMsg carries the result of a document list refresh.
type docsMsg struct {
	err error
}

// chatModel is the bubbletea model for the interactive session.
type chatModel struct {
	store        *chat.Store
	controller   *chat.Controller
	translations *chat.TranslationCache
	docsCtl      *docs.Controller

	input       textinput.Model
	theme       chatTheme
	width       int
	showAll     bool
	displayLang map[int64]string
	translating bool
	quitting    bool
}

// newChatModel wires the controllers for one session.
func newChatModel(store *chat.Store) chatModel {
	input := textinput.New()
	input.Placeholder = "Ask a question..."
	input.Focus()

	return chatModel{
		store:        store,
		controller:   chat.NewController(store, apiClient, logger),
		translations: chat.NewTranslationCache(store, apiClient, logger),
		docsCtl:      docs.NewController(apiClient, logger),
		input:        input,
		theme:        defaultChatTheme,
		width:        80,
		displayLang:  make(map[int64]string),
	}
}

// Init starts the initial document list fetch.
func (m chatModel) Init() tea.Cmd {
	return m.refreshDocsCmd()
}

// Update handles messages and returns the updated model.
func (m chatModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil

	case tea.KeyPressMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			m.quitting = true
			return m, tea.Quit

		case "enter":
			return m.submit()

		case "shift+enter", "alt+enter", "ctrl+enter":
			// A modified Enter never submits.
			return m, nil

		case "ctrl+t":
			return m.toggleTranslation()

		case "ctrl+s":
			m.showAll = !m.showAll
			return m, nil

		case "ctrl+d":
			m.cycleDocument()
			return m, nil

		case "ctrl+r":
			return m, m.refreshDocsCmd()
		}

		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd

	case answerMsg:
		// The controller already appended the answer (or recorded the
		// failure); the store is the single source of truth for rendering.
		return m, nil

	case translationMsg:
		m.translating = false
		if msg.err == nil {
			m.displayLang[msg.messageID] = msg.lang
		}
		// On failure the original content keeps rendering; the cache
		// already logged the error.
		return m, nil

	case docsMsg:
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// submit validates the input and starts the send. Empty input and a send
// already in flight are both silent no-ops.
func (m chatModel) submit() (tea.Model, tea.Cmd) {
	userMsg, err := m.controller.Begin(m.input.Value())
	if err != nil {
		return m, nil
	}
	m.input.Reset()

	return m, func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()

		answer, err := m.controller.Complete(ctx, userMsg)
		return answerMsg{answer: answer, err: err}
	}
}

// toggleTranslation switches the last answer between original content and
// its translation. The target language is the configured preference, or the
// detected language of the question that produced the answer.
func (m chatModel) toggleTranslation() (tea.Model, tea.Cmd) {
	answer, question, ok := m.lastTurn()
	if !ok || m.translating {
		return m, nil
	}

	if _, on := m.displayLang[answer.ID]; on {
		delete(m.displayLang, answer.ID)
		return m, nil
	}

	target := cfg.TranslateLang
	if target == "" || target == "none" {
		target = string(lang.Detect(question.Content))
	}
	if target == string(lang.English) {
		return m, nil
	}

	m.translating = true
	id := answer.ID
	return m, func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()

		_, err := m.translations.Get(ctx, id, target)
		return translationMsg{messageID: id, lang: target, err: err}
	}
}

// lastTurn returns the most recent assistant message and the user message
// that preceded it.
func (m chatModel) lastTurn() (answer, question models.Message, ok bool) {
	all := m.store.All()
	for i := len(all) - 1; i > 0; i-- {
		if all[i].Role == models.RoleAssistant {
			return all[i], all[i-1], true
		}
	}
	return models.Message{}, models.Message{}, false
}

// cycleDocument steps the active document context through the cached list
// and back to none.
func (m chatModel) cycleDocument() {
	documents := m.docsCtl.Documents()
	if len(documents) == 0 {
		return
	}

	active := m.docsCtl.Active()
	next := ""
	if active == "" {
		next = documents[0].DocumentID
	} else {
		for i := range documents {
			if documents[i].DocumentID == active && i+1 < len(documents) {
				next = documents[i+1].DocumentID
				break
			}
		}
	}

	m.docsCtl.Select(next)
	m.controller.SetActiveDocument(next)
}

// refreshDocsCmd fetches the document list in the background.
func (m chatModel) refreshDocsCmd() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		return docsMsg{err: m.docsCtl.Refresh(ctx)}
	}
}

// View renders the chat display.
func (m chatModel) View() tea.View {
	return tea.NewView(m.renderContent())
}

func (m chatModel) renderContent() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder

	b.WriteString(m.renderHeader())
	b.WriteString("\n")

	all := m.store.All()
	for i := range all {
		b.WriteString(m.renderMessage(all[i]))
	}

	if lastAnswer, _, ok := m.lastTurn(); ok && len(lastAnswer.Citations) > 0 {
		b.WriteString(m.renderSourcePanel(lastAnswer.Citations))
	}

	if errLine := m.controller.Err(); errLine != "" {
		b.WriteString(m.theme.errorStyle().Render(errLine) + "\n")
	}

	b.WriteString("\n")
	if m.controller.Sending() {
		b.WriteString(m.theme.hintStyle().Render("Waiting for answer...") + "\n")
	} else {
		b.WriteString(m.input.View() + "\n")
	}
	b.WriteString(m.renderFooter())

	return b.String()
}

func (m chatModel) renderHeader() string {
	scope := "general"
	if active := m.docsCtl.Active(); active != "" {
		scope = active
		for _, d := range m.docsCtl.Documents() {
			if d.DocumentID == active {
				scope = d.Filename
				break
			}
		}
	}
	return m.theme.hintStyle().Render(fmt.Sprintf("docchat — context: %s", scope)) + "\n"
}

func (m chatModel) renderMessage(msg models.Message) string {
	var b strings.Builder

	wrap := lipgloss.NewStyle().Width(m.width)

	switch msg.Role {
	case models.RoleUser:
		prefix := m.theme.userStyle().Render("You")
		if msg.Status == models.StatusFailed {
			prefix += m.theme.errorStyle().Render(" ✗")
		}
		b.WriteString(prefix + "\n")
		b.WriteString(wrap.Render(msg.Content) + "\n")

	case models.RoleAssistant:
		label := "Assistant"
		displayLang := m.displayLang[msg.ID]
		if displayLang != "" {
			label += " (" + lang.Name(lang.Code(displayLang)) + ")"
		}
		b.WriteString(m.theme.assistantStyle().Render(label) + "\n")
		b.WriteString(wrap.Render(chat.DisplayContent(msg, displayLang)) + "\n")

		if len(msg.Citations) > 0 {
			preview, more := citations.Preview(msg.Citations)
			parts := make([]string, 0, len(preview))
			for _, c := range preview {
				parts = append(parts, c.DisplayTitle())
			}
			line := "Sources: " + strings.Join(parts, ", ")
			if more > 0 {
				line += fmt.Sprintf(" (+%d more sources)", more)
			}
			b.WriteString(m.theme.sourceStyle().Render(line) + "\n")
		}
	}

	b.WriteString("\n")
	return b.String()
}

// renderSourcePanel shows the expandable citation list for the last answer.
func (m chatModel) renderSourcePanel(list []models.Citation) string {
	var b strings.Builder

	visible := citations.Visible(list, m.showAll)
	b.WriteString(m.theme.sourceStyle().Render(fmt.Sprintf("Sources (%d)", len(list))) + "\n")
	for i, c := range visible {
		line := fmt.Sprintf("  %d. %s", i+1, c.DisplayTitle())
		if c.PageNumber != nil {
			line += fmt.Sprintf(", page %d", *c.PageNumber)
		}
		if v, ok := citations.Confidence(c); ok {
			line += fmt.Sprintf(" [%s, %s]", citations.Label(v), citations.Percent(v))
		}
		b.WriteString(line + "\n")
	}
	if !m.showAll && citations.HasMore(list) {
		b.WriteString(m.theme.hintStyle().Render(
			fmt.Sprintf("  ... and %d more — ctrl+s to expand", len(list)-citations.PanelLimit)) + "\n")
	}
	return b.String()
}

func (m chatModel) renderFooter() string {
	return m.theme.hintStyle().Render(
		"enter send · ctrl+d context · ctrl+t translate · ctrl+s sources · ctrl+c quit")
}
