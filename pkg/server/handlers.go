package server

import (
	"context"
	"encoding/json"
	"io"
	"mime"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/c112110130-dot/waste-system-django-sub002/pkg/dataset"
	errs "github.com/c112110130-dot/waste-system-django-sub002/pkg/errors"
	"github.com/c112110130-dot/waste-system-django-sub002/pkg/export"
	"github.com/c112110130-dot/waste-system-django-sub002/pkg/page"
	"github.com/c112110130-dot/waste-system-django-sub002/pkg/render"
	"github.com/c112110130-dot/waste-system-django-sub002/pkg/scale"
	"github.com/c112110130-dot/waste-system-django-sub002/pkg/session"
	"github.com/c112110130-dot/waste-system-django-sub002/pkg/table"
)

type sessionKey struct{}

func (s *Server) withSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sess, err := s.sessions.Get(r.Context(), chi.URLParam(r, "id"))
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), sessionKey{}, sess)))
	})
}

func sessionFrom(ctx context.Context) *session.Session {
	return ctx.Value(sessionKey{}).(*session.Session)
}

func (s *Server) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	sess := s.sessions.Create()
	writeJSON(w, http.StatusCreated, map[string]string{"id": sess.ID})
}

func (s *Server) handleDeleteSession(w http.ResponseWriter, r *http.Request) {
	if err := s.sessions.Delete(r.Context(), sessionFrom(r.Context()).ID); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type renderRequest struct {
	Dataset   json.RawMessage `json:"dataset"`
	Mode      string          `json:"mode"`
	Width     int             `json:"width"`
	Height    int             `json:"height"`
	TickCount int             `json:"tick_count"`
	FineGrid  *bool           `json:"fine_grid"`
	Normalize bool            `json:"normalize"`
	Theme     string          `json:"theme"`
}

type renderResponse struct {
	ID      string          `json:"id"`
	Options *render.Options `json:"options"`
	Table   tableView       `json:"table"`
	Scale   *scale.Axis     `json:"scale"`
}

type tableView struct {
	Title  string    `json:"title"`
	Header []string  `json:"header"`
	Units  []string  `json:"units"`
	Rows   []rowView `json:"rows"`
}

type rowView struct {
	Label string   `json:"label"`
	Cells []string `json:"cells"`
}

func newTableView(t *table.Table) tableView {
	v := tableView{Title: t.Title, Header: t.Header, Units: t.Units, Rows: make([]rowView, len(t.Rows))}
	for i, r := range t.Rows {
		cells := make([]string, len(r.Cells))
		for j, c := range r.Cells {
			cells[j] = c.Text()
		}
		v.Rows[i] = rowView{Label: r.Label, Cells: cells}
	}
	return v
}

func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	var req renderRequest
	if err := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes)).Decode(&req); err != nil {
		s.writeError(w, r, errs.Wrap(errs.ErrCodeInvalidInput, err, "invalid request body"))
		return
	}
	if len(req.Dataset) == 0 || string(req.Dataset) == "null" {
		s.writeError(w, r, errs.New(errs.ErrCodeMissingDataset, "no dataset to render"))
		return
	}
	ds, err := dataset.DecodeBytes(req.Dataset)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	th, err := s.cfg.Themes().Get(req.Theme)
	if err != nil {
		s.writeError(w, r, errs.New(errs.ErrCodeInvalidInput, "%v", err))
		return
	}

	chartCfg := s.cfg.Chart
	fine := chartCfg.FineGrid
	if req.FineGrid != nil {
		fine = *req.FineGrid
	}
	tick := req.TickCount
	if tick == 0 {
		tick = chartCfg.TickCount
	}
	if tick != 5 && tick != 10 {
		s.writeError(w, r, errs.New(errs.ErrCodeInvalidInput, "tick_count must be 5 or 10, got %d", tick))
		return
	}
	width, height := req.Width, req.Height
	if width <= 0 {
		width = chartCfg.Width
	}
	if height <= 0 {
		height = chartCfg.Height
	}

	chart, err := sessionFrom(r.Context()).Render.Render(r.Context(), render.Request{
		Dataset:         ds,
		Mode:            req.Mode,
		Normalize:       req.Normalize,
		TickCount:       tick,
		FineGrid:        fine,
		Target:          render.Target{Width: width, Height: height},
		Theme:           th,
		CategoryCaption: chartCfg.CategoryCaption,
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	resp := renderResponse{ID: chart.ID, Options: chart.Options, Table: newTableView(chart.Table)}
	if chart.HasAxis {
		axis := chart.Axis
		resp.Scale = &axis
	}
	writeJSON(w, http.StatusOK, resp)
}

// current returns the session's chart or MISSING_RENDER_TARGET.
func current(ctx context.Context) (*render.Chart, error) {
	c := sessionFrom(ctx).Render.Current()
	if c == nil {
		return nil, errs.MissingRenderTarget()
	}
	return c, nil
}

func (s *Server) handleTable(w http.ResponseWriter, r *http.Request) {
	c, err := current(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := c.Table.WriteHTML(w); err != nil {
		s.logger.Error("write table", "error", err)
	}
}

func (s *Server) handlePage(w http.ResponseWriter, r *http.Request) {
	c, err := current(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := page.Write(w, c.Options, c.Table); err != nil {
		s.logger.Error("write page", "error", err)
	}
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	kind, err := export.ParseKind(chi.URLParam(r, "kind"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if s.exporter == nil {
		s.writeError(w, r, errs.MissingCapability(string(kind)+" writer"))
		return
	}

	q := r.URL.Query()
	th, err := s.cfg.Themes().Get(q.Get("theme"))
	if err != nil {
		s.writeError(w, r, errs.New(errs.ErrCodeInvalidInput, "%v", err))
		return
	}
	period, err := export.ParsePeriod(q.Get("period"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	separate := s.cfg.Export.SeparateUnits
	if v := q.Get("separate_units"); v != "" {
		if separate, err = strconv.ParseBool(v); err != nil {
			s.writeError(w, r, errs.New(errs.ErrCodeInvalidInput, "invalid separate_units %q", v))
			return
		}
	}
	exportType := q.Get("export_type")
	if exportType == "" {
		exportType = s.cfg.Export.SheetType
	}

	sess := sessionFrom(ctx)
	req := export.Request{
		Chart:         sess.Render.Current(),
		Theme:         th,
		Period:        period,
		ExportType:    exportType,
		SeparateUnits: separate,
	}
	art, cached, err := s.runner.WithKeyer(sess.Keyer).ExportWithCacheInfo(ctx, kind, req)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if art.Skipped {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	s.writeArtifact(w, art, cached)
}

func (s *Server) writeArtifact(w http.ResponseWriter, art *export.Artifact, cached bool) {
	h := w.Header()
	h.Set("Content-Type", art.ContentType)
	h.Set("Content-Length", strconv.Itoa(len(art.Data)))
	h.Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": art.Filename}))
	if cached {
		h.Set("X-Cache", "hit")
	} else {
		h.Set("X-Cache", "miss")
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(art.Data)
}
