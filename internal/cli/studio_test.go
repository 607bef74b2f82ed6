package cli

import (
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/matzehuels/genposter/pkg/poster"
	"github.com/matzehuels/genposter/pkg/poster/layer"
	"github.com/matzehuels/genposter/pkg/poster/palette"
)

func key(s string) tea.KeyMsg {
	switch s {
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "left":
		return tea.KeyMsg{Type: tea.KeyLeft}
	case "right":
		return tea.KeyMsg{Type: tea.KeyRight}
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func press(m StudioModel, keys ...string) (StudioModel, tea.Cmd) {
	var cmd tea.Cmd
	for _, k := range keys {
		var next tea.Model
		next, cmd = m.Update(key(k))
		m = next.(StudioModel)
	}
	return m, cmd
}

// fieldIndex finds a studio row by label.
func fieldIndex(t *testing.T, m StudioModel, label string) int {
	t.Helper()
	for i, f := range m.fields {
		if f.label == label {
			return i
		}
	}
	t.Fatalf("no field %q", label)
	return -1
}

func TestStudioNavigation(t *testing.T) {
	m := NewStudioModel(poster.Default(), nil)

	m, _ = press(m, "up")
	if m.Cursor != 0 {
		t.Errorf("cursor should stay at the top, got %d", m.Cursor)
	}
	m, _ = press(m, "down", "j")
	if m.Cursor != 2 {
		t.Errorf("cursor = %d, want 2", m.Cursor)
	}
	for range 50 {
		m, _ = press(m, "down")
	}
	if m.Cursor != len(m.fields)-1 {
		t.Errorf("cursor should stop at the last field, got %d", m.Cursor)
	}
}

func TestStudioAdjust(t *testing.T) {
	m := NewStudioModel(poster.Default(), nil)

	// Palette cycles through the modes and refreshes the swatches.
	m, _ = press(m, "right")
	if m.Config.Palette != palette.Vivid {
		t.Errorf("palette = %q, want vivid", m.Config.Palette)
	}
	if len(m.Palette) != m.Config.PaletteSize {
		t.Errorf("palette has %d colors", len(m.Palette))
	}
	m, _ = press(m, "left", "left")
	if m.Config.Palette != palette.Random {
		t.Errorf("palette should wrap to random, got %q", m.Config.Palette)
	}

	m.Cursor = fieldIndex(t, m, "preset")
	m, _ = press(m, "right")
	if m.Config.Preset != layer.Minimal {
		t.Errorf("preset = %q, want minimal", m.Config.Preset)
	}

	m.Cursor = fieldIndex(t, m, "layers")
	before := m.Config.Layers
	m, _ = press(m, "+", "+", "-")
	if m.Config.Layers != before+1 {
		t.Errorf("layers = %d, want %d", m.Config.Layers, before+1)
	}
	for range 100 {
		m, _ = press(m, "left")
	}
	if m.Config.Layers != 1 {
		t.Errorf("layers should clamp at 1, got %d", m.Config.Layers)
	}

	m.Cursor = fieldIndex(t, m, "radius min")
	for range 100 {
		m, _ = press(m, "right")
	}
	if m.Config.Radius.Min > m.Config.Radius.Max {
		t.Errorf("radius min %g passed max %g", m.Config.Radius.Min, m.Config.Radius.Max)
	}
	if err := m.Config.Validate(); err != nil {
		t.Errorf("studio edits should keep the config valid: %v", err)
	}
}

func TestStudioSeed(t *testing.T) {
	m := NewStudioModel(poster.Default(), nil)
	m.Cursor = fieldIndex(t, m, "seed")
	m, _ = press(m, "right")
	if m.Config.Seed != poster.DefaultSeed+1 {
		t.Errorf("seed = %d", m.Config.Seed)
	}
	m, _ = press(m, "s")
	if m.Config.Seed < 0 || m.Config.Seed >= maxRandomSeed {
		t.Errorf("random seed %d out of range", m.Config.Seed)
	}
}

func TestStudioRender(t *testing.T) {
	var rendered []poster.Config
	render := func(cfg poster.Config) renderDoneMsg {
		rendered = append(rendered, cfg)
		return renderDoneMsg{paths: []string{"poster.png"}, took: time.Second}
	}
	m := NewStudioModel(poster.Default(), render)

	m, cmd := press(m, "r")
	if cmd == nil {
		t.Fatal("r should start a render")
	}
	if !m.rendering {
		t.Error("model should be rendering")
	}
	if _, again := press(m, "r"); again != nil {
		t.Error("a second render must wait for the first")
	}

	next, _ := m.Update(cmd())
	m = next.(StudioModel)
	if len(rendered) != 1 || rendered[0] != poster.Default() {
		t.Errorf("render called with %v", rendered)
	}
	if m.rendering || len(m.Written) != 1 {
		t.Errorf("render result not recorded: %+v", m.Written)
	}
	if !strings.Contains(m.View(), "wrote poster.png") {
		t.Error("view should report the written file")
	}
}

func TestStudioQuit(t *testing.T) {
	m := NewStudioModel(poster.Default(), nil)
	_, cmd := press(m, "q")
	if cmd == nil {
		t.Fatal("q should quit")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("q should return tea.Quit")
	}
}

func TestStudioView(t *testing.T) {
	m := NewStudioModel(poster.Default(), nil)
	view := m.View()
	for _, want := range []string{"genposter studio", "palette", "pastel", "2100x3000 px at 300 dpi", "ready"} {
		if !strings.Contains(view, want) {
			t.Errorf("view should contain %q", want)
		}
	}
}

func TestCycle(t *testing.T) {
	values := []int{1, 2, 3}
	if got := cycle(values, 3, +1); got != 1 {
		t.Errorf("cycle forward wrap = %d", got)
	}
	if got := cycle(values, 1, -1); got != 3 {
		t.Errorf("cycle backward wrap = %d", got)
	}
	if got := cycle(values, 9, +1); got != 1 {
		t.Errorf("unknown value should start at the first, got %d", got)
	}
}
