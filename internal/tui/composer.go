// Package tui is the interactive text composer used for comments, replies
// and bios. It drives a mention.Composer from a bubbles textarea.
package tui

import (
	"context"
	"errors"
	"strings"

	"github.com/charmbracelet/bubbles/textarea"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	clierrors "github.com/YagorVitor/CodeReview/pkg/errors"
	"github.com/YagorVitor/CodeReview/pkg/mention"
)

// ErrCancelled is returned by Compose when the user leaves without sending.
var ErrCancelled = errors.New("cancelled")

// SubmitFunc sends the composed text. A non-nil error keeps the composer
// open with the text intact.
type SubmitFunc func(ctx context.Context, text string) error

// Options configures a composer.
type Options struct {
	Title       string
	Placeholder string
	Initial     string
	Width       int
	Lookup      *mention.Lookup
	Submit      SubmitFunc
}

var (
	titleStyle    = lipgloss.NewStyle().Bold(true)
	helpStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("244"))
	errorStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	pendingStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	itemStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("244"))
	selectedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("39")).Bold(true)
)

// changedMsg tells the model the composer state moved outside of Update,
// when suggestions arrive.
type changedMsg struct{}

type submittedMsg struct{ err error }

// Model is the bubbletea model of the composer.
type Model struct {
	ctx      context.Context
	title    string
	input    textarea.Model
	composer *mention.Composer
	state    mention.State
	submit   SubmitFunc

	submitting bool
	submitted  bool
	cancelled  bool
	err        error
}

// New creates a composer model.
func New(ctx context.Context, opts Options) *Model {
	ta := textarea.New()
	ta.CharLimit = 0
	ta.ShowLineNumbers = false
	ta.Placeholder = opts.Placeholder
	if ta.Placeholder == "" {
		ta.Placeholder = "Type @ to mention someone"
	}
	width := opts.Width
	if width <= 0 {
		width = 72
	}
	ta.SetWidth(width)
	ta.SetHeight(6)
	ta.SetValue(opts.Initial)
	ta.Focus()

	m := &Model{
		ctx:      ctx,
		title:    opts.Title,
		input:    ta,
		composer: mention.NewComposer(opts.Lookup),
		submit:   opts.Submit,
	}
	m.composer.Reset(opts.Initial)
	m.state = m.composer.State()
	return m
}

func (m *Model) Init() tea.Cmd {
	return textarea.Blink
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.input.SetWidth(max(msg.Width-2, 20))
		return m, nil

	case changedMsg:
		m.state = m.composer.State()
		return m, nil

	case submittedMsg:
		m.submitting = false
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.submitted = true
		return m, tea.Quit

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.Type == tea.KeyCtrlC {
		m.cancelled = true
		return m, tea.Quit
	}
	if m.submitting {
		return m, nil
	}

	if m.state.Open {
		if k, ok := navigationKey(msg); ok {
			if handled, ins := m.composer.HandleKey(k); handled {
				if ins != nil {
					m.setInput(ins.Text, ins.Cursor)
				}
				m.state = m.composer.State()
				return m, nil
			}
		}
	}

	switch msg.Type {
	case tea.KeyCtrlS:
		return m, m.startSubmit()
	case tea.KeyEsc:
		m.cancelled = true
		return m, tea.Quit
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	m.sync()
	return m, cmd
}

func navigationKey(msg tea.KeyMsg) (mention.Key, bool) {
	switch msg.Type {
	case tea.KeyUp:
		return mention.KeyUp, true
	case tea.KeyDown:
		return mention.KeyDown, true
	case tea.KeyEnter, tea.KeyTab:
		return mention.KeyEnter, true
	case tea.KeyEsc:
		return mention.KeyEscape, true
	}
	return 0, false
}

// sync feeds the textarea's text and rune cursor to the composer.
func (m *Model) sync() {
	text := m.input.Value()
	cursor := cursorPos(m.input)
	if text == m.state.Text && cursor == m.state.Cursor {
		return
	}
	m.err = nil
	m.composer.SetText(text, cursor)
	m.state = m.composer.State()
}

func (m *Model) startSubmit() tea.Cmd {
	if m.submit == nil {
		return nil
	}
	m.submitting = true
	m.err = nil
	text := m.input.Value()
	ctx, submit := m.ctx, m.submit
	return func() tea.Msg {
		return submittedMsg{err: submit(ctx, text)}
	}
}

// cursorPos is the cursor as a rune offset into the whole value.
func cursorPos(ta textarea.Model) int {
	value := ta.Value()
	if value == "" {
		return 0
	}
	lines := strings.Split(value, "\n")
	row := min(max(ta.Line(), 0), len(lines)-1)
	li := ta.LineInfo()
	col := min(max(li.StartColumn+li.ColumnOffset, 0), len([]rune(lines[row])))

	pos := 0
	for i := 0; i < row; i++ {
		pos += len([]rune(lines[i])) + 1
	}
	return pos + col
}

// setInput replaces the value and puts the cursor at rune offset cursor.
func (m *Model) setInput(text string, cursor int) {
	m.input.SetValue(text)

	runes := []rune(text)
	cursor = min(max(cursor, 0), len(runes))
	before := string(runes[:cursor])
	row := strings.Count(before, "\n")
	col := len([]rune(before[strings.LastIndex(before, "\n")+1:]))

	for i := 0; m.input.Line() > row && i < len(runes); i++ {
		m.input.CursorUp()
	}
	m.input.SetCursor(col)
}

func (m *Model) View() string {
	var b strings.Builder
	if m.title != "" {
		b.WriteString(titleStyle.Render(m.title))
		b.WriteString("\n")
	}
	b.WriteString(m.input.View())
	b.WriteString("\n")

	if m.state.Open {
		for i, s := range m.state.Suggestions {
			line := "  @" + s.Username
			if s.DisplayName != "" && s.DisplayName != s.Username {
				line += " (" + s.DisplayName + ")"
			}
			if i == m.state.Highlighted {
				b.WriteString(selectedStyle.Render("> " + line[2:]))
			} else {
				b.WriteString(itemStyle.Render(line))
			}
			b.WriteString("\n")
		}
	}

	switch {
	case m.submitting:
		b.WriteString(pendingStyle.Render("Sending…"))
		b.WriteString("\n")
	case m.err != nil:
		b.WriteString(errorStyle.Render(clierrors.CategorizeError(m.err).Message))
		b.WriteString("\n")
	}

	b.WriteString(helpStyle.Render("ctrl+s send · esc cancel · ↑/↓ enter pick a mention"))
	return b.String()
}

// Text returns the current text.
func (m *Model) Text() string {
	return m.input.Value()
}

// Compose runs the composer until the text is sent or the user cancels. It
// closes opts.Lookup when done.
func Compose(ctx context.Context, opts Options) error {
	m := New(ctx, opts)
	p := tea.NewProgram(m, tea.WithContext(ctx))
	m.composer.OnChange(func(mention.State) {
		// notifications also fire inside Update, where a blocking Send
		// would deadlock the event loop
		go p.Send(changedMsg{})
	})
	defer opts.Lookup.Close()

	final, err := p.Run()
	if err != nil {
		return err
	}
	if fm, ok := final.(*Model); ok && fm.submitted {
		return nil
	}
	return ErrCancelled
}
