package server

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/c112110130-dot/waste-system-django-sub002/pkg/cache"
	"github.com/c112110130-dot/waste-system-django-sub002/pkg/config"
	errs "github.com/c112110130-dot/waste-system-django-sub002/pkg/errors"
	"github.com/c112110130-dot/waste-system-django-sub002/pkg/export"
	"github.com/c112110130-dot/waste-system-django-sub002/pkg/export/raster"
	"github.com/c112110130-dot/waste-system-django-sub002/pkg/export/xlsx"
)

const datasetJSON = `{
	"title": "比例",
	"chart_type": "stacked_bar",
	"x_axis_labels": ["2024-01"],
	"series": [
		{"name": "A", "unit": "metric_ton", "data": [33.33], "rawData": [10]},
		{"name": "B", "unit": "metric_ton", "data": [66.67], "rawData": [20]}
	]
}`

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	ex, err := export.New(export.Capabilities{
		Workbook: xlsx.New(),
		Raster:   raster.New(nil),
	}, export.WithScratchDir(t.TempDir()))
	if err != nil {
		t.Fatal(err)
	}
	fc, err := cache.NewFile(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	srv := httptest.NewServer(New(config.Default(), ex, fc, nil).Handler())
	t.Cleanup(srv.Close)
	return srv
}

func do(t *testing.T, method, url, body string) *http.Response {
	t.Helper()
	req, err := http.NewRequest(method, url, strings.NewReader(body))
	if err != nil {
		t.Fatal(err)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	var v T
	if err := json.NewDecoder(resp.Body).Decode(&v); err != nil {
		t.Fatalf("decode: %v", err)
	}
	return v
}

func createSession(t *testing.T, srv *httptest.Server) string {
	t.Helper()
	resp := do(t, http.MethodPost, srv.URL+"/api/sessions", "")
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create session: %d", resp.StatusCode)
	}
	return decode[map[string]string](t, resp)["id"]
}

func renderBody(mode string) string {
	return `{"dataset": ` + datasetJSON + `, "mode": "` + mode + `", "width": 400, "height": 300}`
}

func TestHealthz(t *testing.T) {
	srv := newTestServer(t)
	resp := do(t, http.MethodGet, srv.URL+"/healthz", "")
	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK || string(body) != "ok" {
		t.Errorf("healthz = %d %q", resp.StatusCode, body)
	}
}

func TestRenderAndTable(t *testing.T) {
	srv := newTestServer(t)
	base := srv.URL + "/api/sessions/" + createSession(t, srv)

	resp := do(t, http.MethodPost, base+"/render", renderBody("metric_ton_percentage"))
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		t.Fatalf("render: %d %s", resp.StatusCode, body)
	}
	got := decode[renderResponse](t, resp)
	if got.ID == "" || got.Options == nil {
		t.Fatalf("render response = %+v", got)
	}
	if got.Scale == nil || got.Scale.Max != 100 {
		t.Errorf("scale = %+v, want percentage axis to 100", got.Scale)
	}
	if cell := got.Table.Rows[0].Cells[0]; cell != "33.33% (10 公噸)" {
		t.Errorf("table cell = %q", cell)
	}

	resp = do(t, http.MethodGet, base+"/table", "")
	html, _ := io.ReadAll(resp.Body)
	if !strings.Contains(string(html), "33.33% (10 公噸)") {
		t.Errorf("HTML table missing cell text:\n%s", html)
	}

	resp = do(t, http.MethodGet, base+"/page", "")
	if ct := resp.Header.Get("Content-Type"); !strings.HasPrefix(ct, "text/html") {
		t.Errorf("page content type = %q", ct)
	}
}

func TestRenderErrors(t *testing.T) {
	srv := newTestServer(t)
	base := srv.URL + "/api/sessions/" + createSession(t, srv)

	tests := []struct {
		name   string
		body   string
		status int
		code   errs.Code
	}{
		{"no dataset", `{"mode": "metric_ton"}`, http.StatusBadRequest, errs.ErrCodeMissingDataset},
		{"backend failure", `{"dataset": {"success": false, "error": "no data"}}`, http.StatusBadRequest, errs.ErrCodeMissingDataset},
		{"bad json", `{`, http.StatusBadRequest, errs.ErrCodeInvalidInput},
		{"bad mode", `{"dataset": ` + datasetJSON + `, "mode": "furlongs"}`, http.StatusBadRequest, errs.ErrCodeInvalidInput},
		{"bad theme", `{"dataset": ` + datasetJSON + `, "theme": "neon"}`, http.StatusBadRequest, errs.ErrCodeInvalidInput},
		{"bad tick count", `{"dataset": ` + datasetJSON + `, "tick_count": 7}`, http.StatusBadRequest, errs.ErrCodeInvalidInput},
		{"negative tick count", `{"dataset": ` + datasetJSON + `, "tick_count": -5}`, http.StatusBadRequest, errs.ErrCodeInvalidInput},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := do(t, http.MethodPost, base+"/render", tt.body)
			if resp.StatusCode != tt.status {
				t.Errorf("status = %d, want %d", resp.StatusCode, tt.status)
			}
			if got := decode[errorBody](t, resp); got.Code != tt.code {
				t.Errorf("code = %s, want %s", got.Code, tt.code)
			}
		})
	}
}

func TestExport(t *testing.T) {
	srv := newTestServer(t)
	base := srv.URL + "/api/sessions/" + createSession(t, srv)

	resp := do(t, http.MethodPost, base+"/export/xlsx", "")
	if resp.StatusCode != http.StatusConflict {
		t.Errorf("export before render = %d, want 409", resp.StatusCode)
	}
	if got := decode[errorBody](t, resp); got.Error != errs.MsgNothingToExport {
		t.Errorf("error = %q", got.Error)
	}

	do(t, http.MethodPost, base+"/render", renderBody("metric_ton"))

	resp = do(t, http.MethodPost, base+"/export/xlsx?period=2024-01", "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("export xlsx = %d", resp.StatusCode)
	}
	first, _ := io.ReadAll(resp.Body)
	if cd := resp.Header.Get("Content-Disposition"); !strings.Contains(cd, ".xlsx") {
		t.Errorf("Content-Disposition = %q", cd)
	}
	if resp.Header.Get("X-Cache") != "miss" {
		t.Errorf("first export X-Cache = %q", resp.Header.Get("X-Cache"))
	}

	resp = do(t, http.MethodPost, base+"/export/xlsx?period=2024-01", "")
	second, _ := io.ReadAll(resp.Body)
	if resp.Header.Get("X-Cache") != "hit" {
		t.Errorf("second export X-Cache = %q", resp.Header.Get("X-Cache"))
	}
	if !bytes.Equal(first, second) {
		t.Error("cached artifact differs")
	}

	resp = do(t, http.MethodPost, base+"/export/xlsx?theme=dark&period=2024-01", "")
	if resp.Header.Get("X-Cache") != "miss" {
		t.Error("theme change served from cache")
	}

	resp = do(t, http.MethodPost, base+"/export/png", "")
	if resp.StatusCode != http.StatusOK || resp.Header.Get("Content-Type") != "image/png" {
		t.Errorf("export png = %d %s", resp.StatusCode, resp.Header.Get("Content-Type"))
	}
}

func TestExportEvictedAfterRerender(t *testing.T) {
	srv := newTestServer(t)
	base := srv.URL + "/api/sessions/" + createSession(t, srv)

	do(t, http.MethodPost, base+"/render", renderBody("metric_ton"))
	resp := do(t, http.MethodPost, base+"/export/xlsx", "")
	if resp.Header.Get("X-Cache") != "miss" {
		t.Fatalf("first export X-Cache = %q", resp.Header.Get("X-Cache"))
	}

	// Same dataset, new chart: the old chart's artifact is gone.
	do(t, http.MethodPost, base+"/render", renderBody("metric_ton"))
	resp = do(t, http.MethodPost, base+"/export/xlsx", "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("export after rerender = %d", resp.StatusCode)
	}
	if resp.Header.Get("X-Cache") != "miss" {
		t.Errorf("export after rerender X-Cache = %q, want miss", resp.Header.Get("X-Cache"))
	}
}

func TestExportErrors(t *testing.T) {
	srv := newTestServer(t)
	base := srv.URL + "/api/sessions/" + createSession(t, srv)
	do(t, http.MethodPost, base+"/render", renderBody("metric_ton"))

	tests := []struct {
		path   string
		status int
		code   errs.Code
	}{
		{"/export/pdf", http.StatusNotImplemented, errs.ErrCodeMissingCapability},
		{"/export/svg", http.StatusBadRequest, errs.ErrCodeInvalidFormat},
		{"/export/xlsx?period=soon", http.StatusBadRequest, errs.ErrCodeInvalidInput},
		{"/export/xlsx?separate_units=maybe", http.StatusBadRequest, errs.ErrCodeInvalidInput},
	}
	for _, tt := range tests {
		resp := do(t, http.MethodPost, base+tt.path, "")
		if resp.StatusCode != tt.status {
			t.Errorf("%s: status = %d, want %d", tt.path, resp.StatusCode, tt.status)
		}
		if got := decode[errorBody](t, resp); got.Code != tt.code {
			t.Errorf("%s: code = %s, want %s", tt.path, got.Code, tt.code)
		}
	}
}

func TestSessionLifecycle(t *testing.T) {
	srv := newTestServer(t)
	id := createSession(t, srv)

	resp := do(t, http.MethodGet, srv.URL+"/api/sessions/nope/table", "")
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("unknown session = %d, want 404", resp.StatusCode)
	}

	resp = do(t, http.MethodDelete, srv.URL+"/api/sessions/"+id, "")
	if resp.StatusCode != http.StatusNoContent {
		t.Errorf("delete = %d, want 204", resp.StatusCode)
	}
	resp = do(t, http.MethodGet, srv.URL+"/api/sessions/"+id+"/table", "")
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("deleted session = %d, want 404", resp.StatusCode)
	}
}

func TestStatusFor(t *testing.T) {
	tests := map[errs.Code]int{
		errs.ErrCodeMissingDataset:      400,
		errs.ErrCodeInvalidDataset:      400,
		errs.ErrCodeMissingRenderTarget: 409,
		errs.ErrCodeMissingCapability:   501,
		errs.ErrCodeNotFound:            404,
		errs.ErrCodeExportFailed:        500,
		errs.ErrCodeInternal:            500,
	}
	for code, want := range tests {
		if got := statusFor(code); got != want {
			t.Errorf("statusFor(%s) = %d, want %d", code, got, want)
		}
	}
}
