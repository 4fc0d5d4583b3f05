// Package tui provides the interactive model picker for agsync
package tui

import (
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"agsync/config/catalog"
)

// Styles for the picker
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("205"))

	cursorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("229")).
			Bold(true)

	checkedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("42"))

	normalStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("252"))

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))

	separatorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("238"))
)

// SelectModel is the bubbletea model for the catalog multi-select
type SelectModel struct {
	defs      []catalog.ModelDef
	checked   []bool
	cursor    int
	keys      KeyMap
	confirmed bool
	aborted   bool
}

// NewSelectModel creates a picker over the full catalog with every model
// pre-selected.
func NewSelectModel() SelectModel {
	defs := catalog.Models()
	checked := make([]bool, len(defs))
	for i := range checked {
		checked[i] = true
	}
	return SelectModel{
		defs:    defs,
		checked: checked,
		keys:    DefaultKeyMap(),
	}
}

// Init implements tea.Model
func (m SelectModel) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model
func (m SelectModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch {
	case key.Matches(keyMsg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
	case key.Matches(keyMsg, m.keys.Down):
		if m.cursor < len(m.defs)-1 {
			m.cursor++
		}
	case key.Matches(keyMsg, m.keys.Top):
		m.cursor = 0
	case key.Matches(keyMsg, m.keys.Bottom):
		m.cursor = len(m.defs) - 1
	case key.Matches(keyMsg, m.keys.Toggle):
		m.checked[m.cursor] = !m.checked[m.cursor]
	case key.Matches(keyMsg, m.keys.All):
		for i := range m.checked {
			m.checked[i] = true
		}
	case key.Matches(keyMsg, m.keys.None):
		for i := range m.checked {
			m.checked[i] = false
		}
	case key.Matches(keyMsg, m.keys.Confirm):
		m.confirmed = true
		return m, tea.Quit
	case key.Matches(keyMsg, m.keys.Quit):
		m.aborted = true
		return m, tea.Quit
	}

	return m, nil
}

// View implements tea.Model
func (m SelectModel) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("Select models to sync"))
	b.WriteString("\n")
	b.WriteString(separatorStyle.Render(strings.Repeat("─", 48)))
	b.WriteString("\n")

	for i, def := range m.defs {
		cursor := "  "
		if i == m.cursor {
			cursor = cursorStyle.Render("➤ ")
		}

		check := "[ ]"
		style := normalStyle
		if m.checked[i] {
			check = checkedStyle.Render("[x]")
			style = checkedStyle
		}

		b.WriteString(fmt.Sprintf("%s%s %s %s\n",
			cursor, check, style.Render(def.ID), dimStyle.Render(def.Name)))
	}

	b.WriteString(separatorStyle.Render(strings.Repeat("─", 48)))
	b.WriteString("\n")
	b.WriteString(dimStyle.Render(fmt.Sprintf("%d/%d selected · space toggle · a all · n none · Enter confirm · q cancel",
		m.selectedCount(), len(m.defs))))

	return b.String()
}

func (m SelectModel) selectedCount() int {
	count := 0
	for _, c := range m.checked {
		if c {
			count++
		}
	}
	return count
}

// Selection returns the chosen model ids in catalog order. A nil first
// return with ok=true means "all models"; confirming with nothing checked
// returns an empty non-nil slice so callers can reject it instead of
// syncing the full catalog.
func (m SelectModel) Selection() (ids []string, ok bool) {
	if m.aborted || !m.confirmed {
		return nil, false
	}
	if m.selectedCount() == len(m.defs) {
		return nil, true
	}
	ids = []string{}
	for i, def := range m.defs {
		if m.checked[i] {
			ids = append(ids, def.ID)
		}
	}
	return ids, true
}

// SelectModels runs the interactive picker and returns the selected model
// ids (nil means all). ok is false when the user cancelled.
func SelectModels() (ids []string, ok bool, err error) {
	if !isTerminal() {
		return nil, false, fmt.Errorf("model selection requires a terminal; use --models to select models non-interactively")
	}

	p := tea.NewProgram(NewSelectModel())
	final, err := p.Run()
	if err != nil {
		return nil, false, err
	}

	m, castOK := final.(SelectModel)
	if !castOK {
		return nil, false, fmt.Errorf("unexpected model type from picker")
	}
	ids, ok = m.Selection()
	if ok && ids != nil && len(ids) == 0 {
		return nil, false, fmt.Errorf("no models selected; press a to select all or q to cancel")
	}
	return ids, ok, nil
}

// isTerminal checks if stdin is a terminal
func isTerminal() bool {
	fileInfo, err := os.Stdin.Stat()
	if err != nil {
		return false
	}
	return (fileInfo.Mode() & os.ModeCharDevice) != 0
}
