package server

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/genposter/pkg/buildinfo"
	"github.com/matzehuels/genposter/pkg/errors"
	"github.com/matzehuels/genposter/pkg/gallery"
	pio "github.com/matzehuels/genposter/pkg/io"
	"github.com/matzehuels/genposter/pkg/pipeline"
	"github.com/matzehuels/genposter/pkg/poster/palette"
	"github.com/matzehuels/genposter/pkg/render/sink"
)

type paletteResponse struct {
	Mode   palette.Mode `json:"mode"`
	Seed   int64        `json:"seed"`
	Colors []string     `json:"colors"`
}

type posterResponse struct {
	gallery.Entry
	Links map[string]string `json:"links"`
}

type errorResponse struct {
	Error     string `json:"error"`
	Code      string `json:"code,omitempty"`
	RequestID string `json:"request_id,omitempty"`
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"version": buildinfo.Get().Version,
	})
}

func (s *Server) handlePalette(w http.ResponseWriter, r *http.Request) {
	mode, err := palette.ParseMode(chi.URLParam(r, "mode"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	count, err := intQuery(r, "count", palette.DefaultSize)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	seed, err := intQuery(r, "seed", 0)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	pal, err := palette.Get(mode, int64(seed), count)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, paletteResponse{Mode: mode, Seed: int64(seed), Colors: pal.Hex()})
}

func (s *Server) handleCreate(w http.ResponseWriter, r *http.Request) {
	cfg, err := pio.ReadConfig(http.MaxBytesReader(w, r.Body, maxBodyBytes), pio.FormatJSON)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), RenderTimeout)
	defer cancel()
	result, err := s.runner.Execute(ctx, pipeline.Options{
		Config:  cfg,
		Formats: []string{pipeline.FormatPNG},
		Logger:  s.logger,
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	entry := gallery.NewEntry(cfg, result.ConfigHash, result.Width, result.Height, result.Stats.BlobCount)
	if err := s.store.Save(ctx, entry); err != nil {
		s.writeError(w, r, err)
		return
	}
	s.logger.Debug("poster created",
		"id", entry.ID,
		"seed", cfg.Seed,
		"cached", result.CacheInfo.ArtifactHit)

	w.Header().Set("Location", "/api/posters/"+entry.ID)
	writeJSON(w, http.StatusCreated, newPosterResponse(entry))
}

func (s *Server) handleList(w http.ResponseWriter, r *http.Request) {
	limit, err := intQuery(r, "limit", gallery.DefaultListLimit)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	entries, err := s.store.List(r.Context(), limit)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	out := make([]posterResponse, len(entries))
	for i, e := range entries {
		out[i] = newPosterResponse(e)
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleGet(w http.ResponseWriter, r *http.Request) {
	entry, err := s.store.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, newPosterResponse(entry))
}

func (s *Server) handleDownload(w http.ResponseWriter, r *http.Request) {
	format := r.URL.Query().Get("format")
	if format == "" {
		format = pipeline.DefaultFormat
	}
	if err := pipeline.ValidateFormat(format); err != nil {
		s.writeError(w, r, err)
		return
	}
	entry, data, err := s.artifact(r, format)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", pipeline.ContentType(format))
	w.Header().Set("Content-Disposition",
		fmt.Sprintf("attachment; filename=%q", pipeline.FileName(format, entry.CreatedAt)))
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	_, _ = w.Write(data)
}

func (s *Server) handlePreview(w http.ResponseWriter, r *http.Request) {
	width, err := intQuery(r, "width", sink.DefaultThumbnailWidth)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	_, data, err := s.artifact(r, pipeline.FormatPNG)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	thumb, err := s.runner.Thumbnail(r.Context(), data, width)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", pipeline.ContentType(pipeline.FormatPNG))
	w.Header().Set("Cache-Control", "public, max-age=86400")
	_, _ = w.Write(thumb)
}

// artifact looks up the poster named in the URL and renders it in format.
func (s *Server) artifact(r *http.Request, format string) (gallery.Entry, []byte, error) {
	entry, err := s.store.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		return gallery.Entry{}, nil, err
	}

	ctx, cancel := context.WithTimeout(r.Context(), RenderTimeout)
	defer cancel()
	result, err := s.runner.Execute(ctx, pipeline.Options{
		Config:  entry.Config,
		Formats: []string{format},
		Logger:  s.logger,
	})
	if err != nil {
		return gallery.Entry{}, nil, err
	}
	return entry, result.Artifacts[format], nil
}

func newPosterResponse(e gallery.Entry) posterResponse {
	base := "/api/posters/" + e.ID
	links := map[string]string{
		"self":    base,
		"preview": base + "/preview",
	}
	for _, f := range pipeline.Formats {
		links[f] = base + "/download?format=" + f
	}
	return posterResponse{Entry: e, Links: links}
}

// intQuery parses an optional non-negative integer query parameter.
func intQuery(r *http.Request, name string, def int) (int, error) {
	v := r.URL.Query().Get(name)
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		return 0, errors.Invalid("%s must be a non-negative integer, got %q", name, v)
	}
	return n, nil
}

// statusFor maps an error to an HTTP status by the kind of its code.
func statusFor(err error) int {
	switch errors.KindOf(err) {
	case errors.KindInput:
		return http.StatusBadRequest
	case errors.KindMissing:
		return http.StatusNotFound
	}
	if stderrors.Is(err, context.DeadlineExceeded) {
		return http.StatusGatewayTimeout
	}
	return http.StatusInternalServerError
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", "path", r.URL.Path, "err", err)
	}
	writeJSON(w, status, errorResponse{
		Error:     errors.UserMessage(err),
		Code:      string(errors.GetCode(err)),
		RequestID: middleware.GetReqID(r.Context()),
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
