package cli

import (
	"context"
	"fmt"
	"math/rand/v2"
	"slices"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/genposter/pkg/errors"
	"github.com/matzehuels/genposter/pkg/pipeline"
	"github.com/matzehuels/genposter/pkg/poster"
	"github.com/matzehuels/genposter/pkg/poster/layer"
	"github.com/matzehuels/genposter/pkg/poster/palette"
)

var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listNormalStyle   = lipgloss.NewStyle().Foreground(colorWhite)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
)

// studioCommand opens the interactive terminal studio.
func (c *CLI) studioCommand() *cobra.Command {
	var (
		flags   posterFlags
		formats string
		noCache bool
	)

	cmd := &cobra.Command{
		Use:   "studio",
		Short: "Tweak a poster interactively and render it",
		Long: `Tweak a poster interactively and render it.

Use the arrow keys to pick and change settings, r to render and s for a new
random seed. Rendered files land in the current directory.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := flags.resolve(cmd.Flags())
			if err != nil {
				return err
			}
			fs, err := pipeline.ParseFormats(formats)
			if err != nil {
				return err
			}
			runner, err := c.newRunner(noCache)
			if err != nil {
				return err
			}
			defer runner.Close()

			ctx := cmd.Context()
			render := func(cfg poster.Config) renderDoneMsg {
				return c.studioRender(ctx, runner, cfg, fs)
			}
			final, err := tea.NewProgram(NewStudioModel(cfg, render), tea.WithContext(ctx)).Run()
			if err != nil {
				return err
			}
			if m, ok := final.(StudioModel); ok && len(m.Written) > 0 {
				printSuccess(c.out, "Rendered %d file(s)", len(m.Written))
				for _, p := range m.Written {
					printFile(c.out, p)
				}
			}
			return nil
		},
	}

	flags.register(cmd.Flags())
	cmd.Flags().StringVarP(&formats, "format", "f", pipeline.DefaultFormat, "output format(s) written on render")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable the artifact cache")
	return cmd
}

func (c *CLI) studioRender(ctx context.Context, runner *pipeline.Runner, cfg poster.Config, formats []string) renderDoneMsg {
	start := time.Now()
	result, err := runner.Execute(ctx, pipeline.Options{Config: cfg, Formats: formats, Logger: c.Logger})
	if err != nil {
		return renderDoneMsg{err: err}
	}
	paths := outputPaths("", formats, start)
	msg := renderDoneMsg{took: time.Since(start), cached: result.CacheInfo.ArtifactHit}
	for _, f := range formats {
		if err := writeOutput(paths[f], result.Artifacts[f]); err != nil {
			return renderDoneMsg{err: err}
		}
		msg.paths = append(msg.paths, paths[f])
	}
	return msg
}

// =============================================================================
// StudioModel - Interactive poster editor
// =============================================================================

// renderDoneMsg reports a finished render back to the model.
type renderDoneMsg struct {
	paths  []string
	took   time.Duration
	cached bool
	err    error
}

// studioField is one editable row. adjust moves the value one step in dir
// (-1 or +1) and keeps the config valid.
type studioField struct {
	label  string
	value  func(poster.Config) string
	adjust func(*poster.Config, int)
}

// StudioModel is the bubbletea model behind "genposter studio".
type StudioModel struct {
	Config  poster.Config
	Cursor  int
	Palette palette.Palette
	Written []string

	fields    []studioField
	render    func(poster.Config) renderDoneMsg
	rendering bool
	status    string
	err       error
}

// NewStudioModel starts the studio from cfg. render runs when the user asks
// for a render; it is called off the UI goroutine.
func NewStudioModel(cfg poster.Config, render func(poster.Config) renderDoneMsg) StudioModel {
	m := StudioModel{
		Config: cfg,
		fields: studioFields(),
		render: render,
		status: "ready",
	}
	m.refreshPalette()
	return m
}

func (m StudioModel) Init() tea.Cmd {
	return nil
}

func (m StudioModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			if m.Cursor > 0 {
				m.Cursor--
			}
		case "down", "j":
			if m.Cursor < len(m.fields)-1 {
				m.Cursor++
			}
		case "left", "h", "-":
			m.adjust(-1)
		case "right", "l", "+":
			m.adjust(+1)
		case "s":
			m.Config.Seed = rand.Int64N(maxRandomSeed)
			m.refreshPalette()
			m.status = fmt.Sprintf("new seed %d", m.Config.Seed)
		case "r", "enter":
			if m.rendering || m.render == nil {
				return m, nil
			}
			m.rendering = true
			m.status = "rendering..."
			cfg, render := m.Config, m.render
			return m, func() tea.Msg { return render(cfg) }
		}
	case renderDoneMsg:
		m.rendering = false
		if msg.err != nil {
			m.err = msg.err
			m.status = "render failed"
			return m, nil
		}
		m.err = nil
		m.Written = append(m.Written, msg.paths...)
		state := iconFresh
		if msg.cached {
			state = iconCached
		}
		m.status = fmt.Sprintf("wrote %s (%s, %s)", strings.Join(msg.paths, ", "), msg.took.Round(time.Millisecond), state)
	}
	return m, nil
}

func (m *StudioModel) adjust(dir int) {
	m.fields[m.Cursor].adjust(&m.Config, dir)
	m.err = m.Config.Validate()
	m.refreshPalette()
}

func (m *StudioModel) refreshPalette() {
	pal, err := palette.Get(m.Config.Palette, m.Config.Seed, m.Config.PaletteSize)
	if err != nil {
		m.err = err
		return
	}
	m.Palette = pal
}

func (m StudioModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("genposter studio"))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ select  ←/→ change  s seed  r render  q quit"))
	b.WriteString("\n\n")

	rows := make([][]string, len(m.fields))
	for i, f := range m.fields {
		cursor := "  "
		if i == m.Cursor {
			cursor = "▸ "
		}
		rows[i] = []string{cursor, f.label, f.value(m.Config)}
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == m.Cursor:
				return listSelectedStyle
			case col == 1:
				return listDimStyle
			}
			return listNormalStyle
		})

	b.WriteString(t.Render())
	b.WriteString("\n\n")
	b.WriteString(swatches(m.Palette))
	b.WriteString("\n\n")

	w, h := m.Config.PixelSize()
	b.WriteString(listDimStyle.Render(fmt.Sprintf("%dx%d px at %g dpi", w, h, m.Config.DPI)))
	b.WriteString("\n")
	if m.err != nil {
		b.WriteString(styleIconError.Render(iconError + " " + errors.UserMessage(m.err)))
	} else {
		b.WriteString(listDimStyle.Render(m.status))
	}
	b.WriteString("\n")
	return b.String()
}

// =============================================================================
// Fields
// =============================================================================

var (
	studioBackgrounds = []palette.Color{palette.OffWhite, palette.White, palette.Black}
	studioDPIs        = []float64{100, 150, 300, 600}
)

func studioFields() []studioField {
	return []studioField{
		{"palette", func(c poster.Config) string { return string(c.Palette) },
			func(c *poster.Config, d int) { c.Palette = cycle(palette.Modes, c.Palette, d) }},
		{"preset", func(c poster.Config) string { return string(c.Preset) },
			func(c *poster.Config, d int) { c.Preset = cycle(layer.Presets, c.Preset, d) }},
		{"layers", func(c poster.Config) string { return fmt.Sprint(c.Layers) },
			func(c *poster.Config, d int) { c.Layers = clampInt(c.Layers+d, 1, 30) }},
		{"blobs", func(c poster.Config) string { return fmt.Sprint(c.BlobsPerLayer) },
			func(c *poster.Config, d int) { c.BlobsPerLayer = clampInt(c.BlobsPerLayer+d, 1, 40) }},
		{"seed", func(c poster.Config) string { return fmt.Sprint(c.Seed) },
			func(c *poster.Config, d int) { c.Seed += int64(d) }},
		{"wobble", func(c poster.Config) string { return fmt.Sprintf("%.2f..%.2f", c.Wobble.Min, c.Wobble.Max) },
			func(c *poster.Config, d int) { c.Wobble.Max = clamp(c.Wobble.Max+0.05*float64(d), c.Wobble.Min, 1) }},
		{"radius min", func(c poster.Config) string { return fmt.Sprintf("%g", c.Radius.Min) },
			func(c *poster.Config, d int) { c.Radius.Min = clamp(c.Radius.Min+5*float64(d), 1, c.Radius.Max) }},
		{"radius max", func(c poster.Config) string { return fmt.Sprintf("%g", c.Radius.Max) },
			func(c *poster.Config, d int) { c.Radius.Max = clamp(c.Radius.Max+5*float64(d), c.Radius.Min, 500) }},
		{"opacity", func(c poster.Config) string { return fmt.Sprintf("%.2f..%.2f", c.Alpha.Min, c.Alpha.Max) },
			func(c *poster.Config, d int) { c.Alpha.Max = clamp(c.Alpha.Max+0.05*float64(d), c.Alpha.Min, 1) }},
		{"points", func(c poster.Config) string { return fmt.Sprint(c.Points) },
			func(c *poster.Config, d int) { c.Points = clampInt(c.Points+8*d, 8, 1024) }},
		{"background", func(c poster.Config) string { return c.Background.Hex() },
			func(c *poster.Config, d int) { c.Background = cycle(studioBackgrounds, c.Background, d) }},
		{"dpi", func(c poster.Config) string { return fmt.Sprintf("%g", c.DPI) },
			func(c *poster.Config, d int) { c.DPI = cycle(studioDPIs, c.DPI, d) }},
	}
}

// cycle steps through values starting at cur; an unknown cur starts at the
// first value.
func cycle[T comparable](values []T, cur T, dir int) T {
	i := slices.Index(values, cur)
	if i < 0 {
		return values[0]
	}
	n := len(values)
	return values[((i+dir)%n+n)%n]
}

func clamp(v, lo, hi float64) float64 {
	// Kept to two decimals.
	v = float64(int64(v*100+0.5*sign(v))) / 100
	return max(lo, min(hi, v))
}

func sign(v float64) float64 {
	if v < 0 {
		return -1
	}
	return 1
}

func clampInt(v, lo, hi int) int {
	return max(lo, min(hi, v))
}
