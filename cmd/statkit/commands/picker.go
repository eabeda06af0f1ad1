package commands

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/statcan-go/statscan/pkg/hygiene"
)

type fileModel struct {
	choices  []hygiene.FileInfo
	selected map[int]struct{}
	cursor   int
	aborted  bool
}

func initialFileModel(files []hygiene.FileInfo) fileModel {
	return fileModel{
		choices:  files,
		selected: make(map[int]struct{}),
	}
}

func (m fileModel) Init() tea.Cmd {
	return nil
}

func (m fileModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			m.aborted = true
			return m, tea.Quit
		case "up", "k":
			if m.cursor > 0 {
				m.cursor--
			}
		case "down", "j":
			if m.cursor < len(m.choices)-1 {
				m.cursor++
			}
		case "a":
			for i := range m.choices {
				m.selected[i] = struct{}{}
			}
		case " ", "x":
			_, ok := m.selected[m.cursor]
			if ok {
				delete(m.selected, m.cursor)
			} else {
				m.selected[m.cursor] = struct{}{}
			}
		case "enter":
			return m, tea.Quit
		}
	}
	return m, nil
}

func (m fileModel) View() string {
	s := strings.Builder{}
	s.WriteString(lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205")).Render("? Which empty files should be deleted?"))
	s.WriteString("\n\n")

	for i, choice := range m.choices {
		cursor := " "
		if m.cursor == i {
			cursor = ">"
		}

		checked := " "
		if _, ok := m.selected[i]; ok {
			checked = "x"
		}

		s.WriteString(fmt.Sprintf("%s [%s] %s\n", cursor, checked, choice.Path))
	}

	s.WriteString("\n(Press [space] to select, [a] for all, [enter] to confirm, [q] to abort)\n")
	return s.String()
}

func (m fileModel) SelectedFiles() []hygiene.FileInfo {
	if m.aborted {
		return nil
	}
	out := make([]hygiene.FileInfo, 0, len(m.selected))
	for i, choice := range m.choices {
		if _, ok := m.selected[i]; ok {
			out = append(out, choice)
		}
	}
	return out
}

func promptForFiles(files []hygiene.FileInfo) ([]hygiene.FileInfo, error) {
	p := tea.NewProgram(initialFileModel(files))
	m, err := p.Run()
	if err != nil {
		return nil, err
	}

	if fm, ok := m.(fileModel); ok {
		return fm.SelectedFiles(), nil
	}
	return nil, nil
}
