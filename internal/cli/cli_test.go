package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/c112110130-dot/waste-system-django-sub002/pkg/cache"
	"github.com/c112110130-dot/waste-system-django-sub002/pkg/config"
	errs "github.com/c112110130-dot/waste-system-django-sub002/pkg/errors"
)

const testDataset = `{
	"title": "比例",
	"chart_type": "stacked_bar",
	"y_axis": "metric_ton_percentage",
	"x_axis_labels": ["2024-01"],
	"series": [
		{"name": "A", "unit": "metric_ton", "data": [33.33], "rawData": [10]},
		{"name": "B", "unit": "metric_ton", "data": [66.67], "rawData": [20]}
	]
}`

// testEnv writes a dataset and a config whose cache lives under a temp dir.
type testEnv struct {
	dir      string
	dataset  string
	config   string
	cacheDir string
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	dir := t.TempDir()
	env := &testEnv{
		dir:      dir,
		dataset:  filepath.Join(dir, "dataset.json"),
		config:   filepath.Join(dir, "config.toml"),
		cacheDir: filepath.Join(dir, "cache"),
	}
	if err := os.WriteFile(env.dataset, []byte(testDataset), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg := "[cache]\nbackend = \"file\"\ndir = " + strconv.Quote(env.cacheDir) + "\n"
	if err := os.WriteFile(env.config, []byte(cfg), 0o644); err != nil {
		t.Fatal(err)
	}
	return env
}

// run executes the CLI with args and returns what the command wrote to
// its output stream.
func (e *testEnv) run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	c := New(io.Discard, LogInfo)
	root := c.RootCommand()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(io.Discard)
	root.SetArgs(append([]string{"--config", e.config}, args...))
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func TestScaleCommand(t *testing.T) {
	env := newTestEnv(t)

	tests := []struct {
		name string
		args []string
		want []string
	}{
		{"plain", []string{"scale", "87.3"}, []string{"interval", "20", "100"}},
		{"ten ticks", []string{"scale", "87.3", "--ticks", "10"}, []string{"10", "90"}},
		{"percentage", []string{"scale", "0", "--percentage"}, []string{"20%", "100%"}},
		{"fine grid", []string{"scale", "0", "--percentage", "--fine-grid"}, []string{"10%", "100%"}},
		{"small values", []string{"scale", "0.42"}, []string{"0.1", "0.5"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := env.run(t, tt.args...)
			if err != nil {
				t.Fatalf("scale: %v", err)
			}
			for _, w := range tt.want {
				if !strings.Contains(out, w) {
					t.Errorf("output missing %q:\n%s", w, out)
				}
			}
		})
	}
}

func TestScaleCommandErrors(t *testing.T) {
	env := newTestEnv(t)

	if _, err := env.run(t, "scale", "lots"); !errs.Is(err, errs.ErrCodeInvalidInput) {
		t.Errorf("bad max: err = %v, want INVALID_INPUT", err)
	}
	if _, err := env.run(t, "scale", "10", "--ticks", "7"); !errs.Is(err, errs.ErrCodeInvalidInput) {
		t.Errorf("bad ticks: err = %v, want INVALID_INPUT", err)
	}
	if _, err := env.run(t, "scale"); err == nil {
		t.Error("missing argument should fail")
	}
}

func TestTableCommand(t *testing.T) {
	env := newTestEnv(t)

	out, err := env.run(t, "table", env.dataset)
	if err != nil {
		t.Fatalf("table: %v", err)
	}
	for _, w := range []string{"比例", "類別", "2024-01", "33.33% (10 公噸)", "66.67% (20 公噸)"} {
		if !strings.Contains(out, w) {
			t.Errorf("table output missing %q:\n%s", w, out)
		}
	}

	out, err = env.run(t, "table", env.dataset, "--separate-units")
	if err != nil {
		t.Fatalf("table --separate-units: %v", err)
	}
	if !strings.Contains(out, "33.33% (10)") || strings.Contains(out, "33.33% (10 公噸)") {
		t.Errorf("separate units output:\n%s", out)
	}
}

func TestTableCommandMode(t *testing.T) {
	env := newTestEnv(t)
	out, err := env.run(t, "table", env.dataset, "--mode", "kilogram")
	if err != nil {
		t.Fatalf("table: %v", err)
	}
	if !strings.Contains(out, "10000 公斤") {
		t.Errorf("kilogram table missing converted value:\n%s", out)
	}
	// Cells stay ungrouped; the total line groups thousands.
	if !strings.Contains(out, "Total: 30,000 公斤") {
		t.Errorf("kilogram table missing grouped total:\n%s", out)
	}
}

func TestRenderJSON(t *testing.T) {
	env := newTestEnv(t)

	out, err := env.run(t, "render", env.dataset, "--json")
	if err != nil {
		t.Fatalf("render --json: %v", err)
	}
	var got chartJSON
	if err := json.Unmarshal([]byte(out), &got); err != nil {
		t.Fatalf("decode output: %v\n%s", err, out)
	}
	if got.Scale == nil || got.Scale.Max != 100 {
		t.Errorf("scale = %+v, want percentage axis to 100", got.Scale)
	}
	if len(got.Table.Rows) != 1 || got.Table.Rows[0][1] != "33.33% (10 公噸)" {
		t.Errorf("rows = %v", got.Table.Rows)
	}
	if got.Options == nil || !got.Options.Chart.Stacked {
		t.Errorf("options = %+v, want stacked chart", got.Options)
	}
}

func TestRenderPage(t *testing.T) {
	env := newTestEnv(t)
	path := filepath.Join(env.dir, "chart.html")

	if _, err := env.run(t, "render", env.dataset, "-o", path, "--theme", "dark"); err != nil {
		t.Fatalf("render: %v", err)
	}
	html, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	for _, w := range []string{"<table", "33.33% (10 公噸)", "echarts"} {
		if !strings.Contains(string(html), w) {
			t.Errorf("page missing %q", w)
		}
	}
}

func TestRenderErrors(t *testing.T) {
	env := newTestEnv(t)

	if _, err := env.run(t, "render", filepath.Join(env.dir, "missing.json")); err == nil {
		t.Error("missing dataset file should fail")
	}
	if _, err := env.run(t, "render", env.dataset, "--mode", "furlongs", "--json"); !errs.Is(err, errs.ErrCodeInvalidInput) {
		t.Errorf("bad mode: err = %v, want INVALID_INPUT", err)
	}
	if _, err := env.run(t, "render", env.dataset, "--theme", "sepia", "--json"); err == nil {
		t.Error("unknown theme should fail")
	}

	empty := filepath.Join(env.dir, "empty.json")
	if err := os.WriteFile(empty, []byte(`{"success": false, "error": "no data"}`), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := env.run(t, "render", empty, "--json"); !errs.Is(err, errs.ErrCodeMissingDataset) {
		t.Errorf("empty dataset: err = %v, want MISSING_DATASET", err)
	}
}

func TestExportCommand(t *testing.T) {
	env := newTestEnv(t)
	outDir := filepath.Join(env.dir, "out")

	_, err := env.run(t, "export", env.dataset, "-f", "xlsx,png", "-o", outDir, "--period", "2024-01", "--export-type", "比例")
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	for _, pattern := range []string{"比例_*.xlsx", "比例_*.png"} {
		matches, _ := filepath.Glob(filepath.Join(outDir, pattern))
		if len(matches) != 1 {
			t.Errorf("files matching %s = %v, want 1", pattern, matches)
		}
	}

	if n := countFiles(t, env.cacheDir); n != 2 {
		t.Errorf("artifact cache holds %d files, want 2", n)
	}
}

func TestExportCommandErrors(t *testing.T) {
	env := newTestEnv(t)

	if _, err := env.run(t, "export", env.dataset, "-f", "svg"); !errs.Is(err, errs.ErrCodeInvalidFormat) {
		t.Errorf("bad format: err = %v, want INVALID_FORMAT", err)
	}
	if _, err := env.run(t, "export", env.dataset, "--period", "May"); !errs.Is(err, errs.ErrCodeInvalidInput) {
		t.Errorf("bad period: err = %v, want INVALID_INPUT", err)
	}
	if _, err := env.run(t, "export", env.dataset, "-o", "../outside"); !errs.Is(err, errs.ErrCodeInvalidInput) {
		t.Errorf("traversal: err = %v, want INVALID_INPUT", err)
	}
}

func TestCacheCommands(t *testing.T) {
	env := newTestEnv(t)

	out, err := env.run(t, "cache", "path")
	if err != nil {
		t.Fatal(err)
	}
	if strings.TrimSpace(out) != env.cacheDir {
		t.Errorf("cache path = %q, want %q", strings.TrimSpace(out), env.cacheDir)
	}

	if _, err := env.run(t, "cache", "clear"); err != nil {
		t.Errorf("clearing a missing cache: %v", err)
	}

	if _, err := env.run(t, "export", env.dataset, "-o", filepath.Join(env.dir, "out")); err != nil {
		t.Fatalf("export: %v", err)
	}
	if _, err := env.run(t, "cache", "clear"); err != nil {
		t.Fatalf("cache clear: %v", err)
	}
	if n := countFiles(t, env.cacheDir); n != 0 {
		t.Errorf("cache holds %d files after clear", n)
	}
}

func countFiles(t *testing.T, dir string) int {
	t.Helper()
	n := 0
	err := filepath.WalkDir(dir, func(_ string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			n++
		}
		return nil
	})
	if err != nil {
		t.Fatal(err)
	}
	return n
}

func TestArtifactTTL(t *testing.T) {
	tests := []struct {
		ttl  time.Duration
		want time.Duration
	}{
		{0, cache.DefaultTTL},
		{-time.Hour, cache.DefaultTTL},
		{2 * time.Hour, 2 * time.Hour},
	}
	for _, tt := range tests {
		cfg := config.Default()
		cfg.Cache.TTL.Duration = tt.ttl
		if got := artifactTTL(cfg); got != tt.want {
			t.Errorf("artifactTTL(%v) = %v, want %v", tt.ttl, got, tt.want)
		}
	}
}

func TestBadConfig(t *testing.T) {
	env := newTestEnv(t)
	if err := os.WriteFile(env.config, []byte("[chart]\ntick_count = 7\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := env.run(t, "table", env.dataset); !errs.Is(err, errs.ErrCodeInvalidConfig) {
		t.Errorf("err = %v, want INVALID_CONFIG", err)
	}
}
