package cli

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

func TestFindDiagrams(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{
		"b.dot",
		"a.GV",
		"notes.txt",
		"sub/c.dot",
		".hidden/d.dot",
	} {
		path := filepath.Join(dir, name)
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, []byte("digraph {}"), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	files, err := findDiagrams(dir)
	if err != nil {
		t.Fatalf("findDiagrams() error: %v", err)
	}

	var got []string
	for _, f := range files {
		got = append(got, filepath.ToSlash(f.Rel))
	}
	want := []string{"a.GV", "b.dot", "sub/c.dot"}
	if strings.Join(got, ",") != strings.Join(want, ",") {
		t.Errorf("findDiagrams() = %v, want %v", got, want)
	}
}

func TestFindDiagramsMissingDir(t *testing.T) {
	if _, err := findDiagrams(filepath.Join(t.TempDir(), "missing")); err == nil {
		t.Error("findDiagrams() on missing dir returned no error")
	}
}

func key(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestDiagramListModel(t *testing.T) {
	files := []DiagramFile{
		{Path: "/d/a.dot", Rel: "a.dot", Size: 10, ModTime: time.Now()},
		{Path: "/d/b.dot", Rel: "b.dot", Size: 2048, ModTime: time.Now()},
		{Path: "/d/c.dot", Rel: "c.dot", Size: 3 << 20, ModTime: time.Now()},
	}

	tests := []struct {
		name         string
		keys         []string
		wantCursor   int
		wantSelected string
	}{
		{name: "select first", keys: []string{"enter"}, wantSelected: "/d/a.dot"},
		{name: "move down and select", keys: []string{"down", "j", "enter"}, wantCursor: 2, wantSelected: "/d/c.dot"},
		{name: "clamped at bottom", keys: []string{"down", "down", "down", "down"}, wantCursor: 2},
		{name: "clamped at top", keys: []string{"up", "k"}},
		{name: "quit", keys: []string{"down", "q"}, wantCursor: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var m tea.Model = NewDiagramListModel(files)
			for _, k := range tt.keys {
				m, _ = m.Update(key(k))
			}
			dm := m.(DiagramListModel)
			if dm.Cursor != tt.wantCursor {
				t.Errorf("Cursor = %d, want %d", dm.Cursor, tt.wantCursor)
			}
			var selected string
			if dm.Selected != nil {
				selected = dm.Selected.Path
			}
			if selected != tt.wantSelected {
				t.Errorf("Selected = %q, want %q", selected, tt.wantSelected)
			}
		})
	}
}

func TestDiagramListModelScrolls(t *testing.T) {
	files := make([]DiagramFile, 20)
	for i := range files {
		files[i] = DiagramFile{Rel: filepath.Join("g", string(rune('a'+i))+".dot")}
	}

	var m tea.Model = NewDiagramListModel(files)
	m, _ = m.Update(tea.WindowSizeMsg{Width: 80, Height: 11})
	for range 10 {
		m, _ = m.Update(key("down"))
	}
	dm := m.(DiagramListModel)
	if dm.Height != 5 || dm.Offset != 6 {
		t.Errorf("Height = %d, Offset = %d, want 5 and 6", dm.Height, dm.Offset)
	}

	view := dm.View()
	if !strings.Contains(view, "[11/20]") {
		t.Errorf("view lacks position indicator:\n%s", view)
	}
}

func TestFormatSize(t *testing.T) {
	tests := []struct {
		n    int64
		want string
	}{
		{0, "0 B"},
		{1023, "1023 B"},
		{1536, "1.5 KiB"},
		{5 << 20, "5.0 MiB"},
	}
	for _, tt := range tests {
		if got := formatSize(tt.n); got != tt.want {
			t.Errorf("formatSize(%d) = %q, want %q", tt.n, got, tt.want)
		}
	}
}
