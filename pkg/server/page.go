package server

import (
	"bytes"
	_ "embed"
	"html/template"
	"net/http"

	"github.com/matzehuels/genposter/pkg/buildinfo"
	"github.com/matzehuels/genposter/pkg/gallery"
	"github.com/matzehuels/genposter/pkg/pipeline"
	"github.com/matzehuels/genposter/pkg/poster"
	"github.com/matzehuels/genposter/pkg/poster/layer"
	"github.com/matzehuels/genposter/pkg/poster/palette"
)

//go:embed index.html
var indexHTML string

var indexTmpl = template.Must(template.New("index").Parse(indexHTML))

type indexData struct {
	Version  string
	Defaults poster.Config
	Modes    []palette.Mode
	Presets  []layer.Preset
	Formats  []string
	Recent   []posterResponse
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	entries, err := s.store.List(r.Context(), gallery.DefaultListLimit)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	recent := make([]posterResponse, len(entries))
	for i, e := range entries {
		recent[i] = newPosterResponse(e)
	}

	var buf bytes.Buffer
	if err := indexTmpl.Execute(&buf, indexData{
		Version:  buildinfo.Get().Version,
		Defaults: poster.Default(),
		Modes:    palette.Modes,
		Presets:  layer.Presets,
		Formats:  pipeline.Formats,
		Recent:   recent,
	}); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = buf.WriteTo(w)
}
