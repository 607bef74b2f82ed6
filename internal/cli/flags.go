package cli

import (
	"math/rand/v2"

	"github.com/spf13/pflag"

	"github.com/matzehuels/genposter/pkg/errors"
	pio "github.com/matzehuels/genposter/pkg/io"
	"github.com/matzehuels/genposter/pkg/poster"
	"github.com/matzehuels/genposter/pkg/poster/layer"
	"github.com/matzehuels/genposter/pkg/poster/palette"
)

// maxRandomSeed bounds seeds picked by --random-seed so they stay easy to
// copy into a config file.
const maxRandomSeed = 1_000_000

// posterFlags are the poster settings shared by render and studio.
// A flag overrides the config file only when it was set explicitly.
type posterFlags struct {
	config     string
	randomSeed bool

	palette     string
	preset      string
	background  string
	layers      int
	blobs       int
	seed        int64
	width       int
	height      int
	paletteSize int
	points      int
	dpi         float64
	wobbleMin   float64
	wobbleMax   float64
	radiusMin   float64
	radiusMax   float64
	alphaMin    float64
	alphaMax    float64
	title       string
	subtitle    string
}

func (f *posterFlags) register(fs *pflag.FlagSet) {
	d := poster.Default()

	fs.StringVarP(&f.config, "config", "c", "", "poster config file (.toml or .json)")
	fs.BoolVar(&f.randomSeed, "random-seed", false, "pick a random seed and log it")

	fs.StringVarP(&f.palette, "palette", "p", string(d.Palette), "palette mode: pastel, vivid, monochrome, random")
	fs.StringVar(&f.preset, "preset", string(d.Preset), "style preset: custom, minimal, vivid, noisetouch")
	fs.StringVar(&f.background, "background", d.Background.Hex(), "background: offwhite, white, black or #rrggbb")
	fs.IntVarP(&f.layers, "layers", "l", d.Layers, "number of layers")
	fs.IntVar(&f.blobs, "blobs", d.BlobsPerLayer, "blobs per layer before preset scaling")
	fs.Int64VarP(&f.seed, "seed", "s", d.Seed, "random seed")
	fs.IntVar(&f.width, "width", d.Size.Width, "canvas width in logical pixels (1/100 inch)")
	fs.IntVar(&f.height, "height", d.Size.Height, "canvas height in logical pixels (1/100 inch)")
	fs.IntVar(&f.paletteSize, "palette-size", d.PaletteSize, "number of palette colors")
	fs.IntVar(&f.points, "points", d.Points, "outline points per blob")
	fs.Float64Var(&f.dpi, "dpi", d.DPI, "export resolution")
	fs.Float64Var(&f.wobbleMin, "wobble-min", d.Wobble.Min, "minimum wobble")
	fs.Float64Var(&f.wobbleMax, "wobble-max", d.Wobble.Max, "maximum wobble")
	fs.Float64Var(&f.radiusMin, "radius-min", d.Radius.Min, "minimum blob radius")
	fs.Float64Var(&f.radiusMax, "radius-max", d.Radius.Max, "maximum blob radius")
	fs.Float64Var(&f.alphaMin, "alpha-min", d.Alpha.Min, "minimum blob opacity")
	fs.Float64Var(&f.alphaMax, "alpha-max", d.Alpha.Max, "maximum blob opacity")
	fs.StringVar(&f.title, "title", "", "title drawn in the top-left corner")
	fs.StringVar(&f.subtitle, "subtitle", "", "subtitle drawn below the title")
}

// resolve loads the config file (or the defaults) and applies the flags
// that were set on the command line.
func (f *posterFlags) resolve(fs *pflag.FlagSet) (poster.Config, error) {
	cfg := poster.Default()
	if f.config != "" {
		var err error
		if cfg, err = pio.ImportConfig(f.config); err != nil {
			return poster.Config{}, err
		}
	}

	set := fs.Changed
	if set("palette") {
		mode, err := palette.ParseMode(f.palette)
		if err != nil {
			return poster.Config{}, err
		}
		cfg.Palette = mode
	}
	if set("preset") {
		preset, err := layer.ParsePreset(f.preset)
		if err != nil {
			return poster.Config{}, err
		}
		cfg.Preset = preset
	}
	if set("background") {
		bg, err := palette.ParseColor(f.background)
		if err != nil {
			return poster.Config{}, err
		}
		cfg.Background = bg
	}
	if set("layers") {
		cfg.Layers = f.layers
	}
	if set("blobs") {
		cfg.BlobsPerLayer = f.blobs
	}
	if set("seed") {
		cfg.Seed = f.seed
	}
	if set("width") {
		cfg.Size.Width = f.width
	}
	if set("height") {
		cfg.Size.Height = f.height
	}
	if set("palette-size") {
		cfg.PaletteSize = f.paletteSize
	}
	if set("points") {
		cfg.Points = f.points
	}
	if set("dpi") {
		cfg.DPI = f.dpi
	}
	if set("wobble-min") {
		cfg.Wobble.Min = f.wobbleMin
	}
	if set("wobble-max") {
		cfg.Wobble.Max = f.wobbleMax
	}
	if set("radius-min") {
		cfg.Radius.Min = f.radiusMin
	}
	if set("radius-max") {
		cfg.Radius.Max = f.radiusMax
	}
	if set("alpha-min") {
		cfg.Alpha.Min = f.alphaMin
	}
	if set("alpha-max") {
		cfg.Alpha.Max = f.alphaMax
	}
	if set("title") {
		cfg.Title = f.title
	}
	if set("subtitle") {
		cfg.Subtitle = f.subtitle
	}

	if f.randomSeed {
		if set("seed") {
			return poster.Config{}, errors.Invalid("--seed and --random-seed are mutually exclusive")
		}
		cfg.Seed = rand.Int64N(maxRandomSeed)
	}
	return cfg, cfg.Validate()
}
