package cli

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/matzehuels/codeviz/pkg/examples"
)

func key(s string) tea.KeyMsg {
	switch s {
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func press(m ExampleListModel, keys ...string) (ExampleListModel, tea.Cmd) {
	var cmd tea.Cmd
	for _, k := range keys {
		var next tea.Model
		next, cmd = m.Update(key(k))
		m = next.(ExampleListModel)
	}
	return m, cmd
}

func TestExampleListModelNavigation(t *testing.T) {
	all := examples.All()

	tests := []struct {
		name       string
		keys       []string
		wantCursor int
	}{
		{"start", nil, 0},
		{"down", []string{"down"}, 1},
		{"vim keys", []string{"j", "j", "k"}, 1},
		{"clamped at top", []string{"up", "k"}, 0},
		{"clamped at bottom", []string{"down", "down", "down", "down", "down", "down"}, len(all) - 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, _ := press(NewExampleListModel(all), tt.keys...)
			if m.Cursor != tt.wantCursor {
				t.Errorf("Cursor = %d, want %d", m.Cursor, tt.wantCursor)
			}
			if m.Selected != nil {
				t.Error("nothing should be selected without enter")
			}
		})
	}
}

func TestExampleListModelSelect(t *testing.T) {
	all := examples.All()
	m, cmd := press(NewExampleListModel(all), "down", "enter")
	if m.Selected == nil {
		t.Fatal("enter did not select")
	}
	if m.Selected.Name != all[1].Name {
		t.Errorf("Selected = %q, want %q", m.Selected.Name, all[1].Name)
	}
	if cmd == nil {
		t.Error("enter should quit the program")
	}
}

func TestExampleListModelQuit(t *testing.T) {
	for _, k := range []string{"q", "esc"} {
		m, cmd := press(NewExampleListModel(examples.All()), k)
		if cmd == nil {
			t.Errorf("%q should quit", k)
		}
		if m.Selected != nil {
			t.Errorf("%q should not select", k)
		}
	}
}

func TestExampleListModelScroll(t *testing.T) {
	m := NewExampleListModel(examples.All())
	next, _ := m.Update(tea.WindowSizeMsg{Width: 80, Height: 8})
	m = next.(ExampleListModel)
	if m.Height != 5 {
		t.Fatalf("Height = %d, want minimum 5", m.Height)
	}

	m.Height = 2
	m, _ = press(m, "down", "down", "down")
	if m.Offset != 2 {
		t.Errorf("Offset = %d, want 2", m.Offset)
	}
	m, _ = press(m, "up", "up", "up")
	if m.Offset != 0 {
		t.Errorf("Offset = %d, want 0", m.Offset)
	}
}

func TestExampleListModelView(t *testing.T) {
	view := NewExampleListModel(examples.All()).View()
	for _, want := range []string{"Select Example", "Simple React Component", "Node.js Server", "[1/4]"} {
		if !strings.Contains(view, want) {
			t.Errorf("View() missing %q", want)
		}
	}
}
