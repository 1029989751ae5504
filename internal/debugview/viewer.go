package debugview

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/fshteam/fsh/internal/ast"
	"github.com/fshteam/fsh/internal/parser"
	"github.com/fshteam/fsh/internal/state"
	"github.com/fshteam/fsh/internal/ui"
)

// keyMap mirrors the teacher's nano-like EditorKeyMap shape
// (internal/ui/editor.go), trimmed to the actions this read-only
// viewer supports: scrolling up and down, and quitting.
type keyMap struct {
	Quit key.Binding
	Up   key.Binding
	Down key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Quit: key.NewBinding(key.WithKeys("q", "esc", "ctrl+c"), key.WithHelp("q", "quit")),
		Up:   key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "scroll up")),
		Down: key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "scroll down")),
	}
}

func (k keyMap) ShortHelp() []key.Binding  { return []key.Binding{k.Up, k.Down, k.Quit} }
func (k keyMap) FullHelp() [][]key.Binding { return [][]key.Binding{k.ShortHelp()} }

type model struct {
	keys     keyMap
	help     help.Model
	viewport viewport.Model
	ready    bool
	content  string
}

func (m model) Init() tea.Cmd { return nil }

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit
		}
	case tea.WindowSizeMsg:
		headerHeight := 2
		if !m.ready {
			m.viewport = viewport.New(msg.Width, msg.Height-headerHeight)
			m.viewport.SetContent(m.content)
			m.ready = true
		} else {
			m.viewport.Width = msg.Width
			m.viewport.Height = msg.Height - headerHeight
		}
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

func (m model) View() string {
	if !m.ready {
		return "initializing..."
	}
	title := lipgloss.NewStyle().Bold(true).Render("autotune — parsed tree & variable table")
	return fmt.Sprintf("%s\n%s\n%s", title, m.viewport.View(), m.help.View(m.keys))
}

// Run launches the interactive viewer over the given parsed command
// and the shell's current variable table. It blocks until the user
// quits.
func Run(sh *state.Shell, cmd *ast.Command, rawLine string) error {
	content := buildContent(sh, cmd, rawLine)
	m := model{
		keys:    defaultKeyMap(),
		help:    help.New(),
		content: content,
	}
	p := tea.NewProgram(m)
	_, err := p.Run()
	return err
}

func buildContent(sh *state.Shell, cmd *ast.Command, rawLine string) string {
	var b strings.Builder

	fmt.Fprintf(&b, "input:  %s\n", rawLine)
	fmt.Fprintf(&b, "pretty: %s\n\n", Highlight(parser.Print(cmd)))

	b.WriteString(ui.CommandStyle.Render("variable table (set slots)"))
	b.WriteString("\n")
	t := ui.NewTable(&b)
	t.SetHeaders("name", "value")
	for c := byte(0); c < 128; c++ {
		if v, ok := sh.Vars.Get(c); ok {
			t.AddRow(string(rune(c)), v)
		}
	}
	t.Render()

	return b.String()
}
