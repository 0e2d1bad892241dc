package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/mattiaTagliente/epub-to-pdf/internal/engine"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}
	return path
}

func TestLoad_AbsentFileYieldsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.TimeoutMinutes != 15 {
		t.Errorf("TimeoutMinutes = %d, want 15", cfg.TimeoutMinutes)
	}
	if len(cfg.Engines) != 0 || len(cfg.Order) != 0 {
		t.Errorf("defaults carry overrides: %+v", cfg)
	}
}

func TestLoad_FullFile(t *testing.T) {
	path := writeConfig(t, `
engines:
  prince:
    path: /opt/prince/bin/prince
  calibre:
    path: ""
order:
  - calibre
  - prince
timeout_minutes: 30
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Timeout() != 30*time.Minute {
		t.Errorf("Timeout = %v, want 30m", cfg.Timeout())
	}

	paths := cfg.Paths()
	if paths[engine.Prince] != "/opt/prince/bin/prince" {
		t.Errorf("prince path = %q", paths[engine.Prince])
	}
	// Empty overrides are dropped rather than shadowing detection.
	if _, ok := paths[engine.Calibre]; ok {
		t.Error("empty path override should not be returned")
	}
}

func TestLoad_MalformedYAML(t *testing.T) {
	path := writeConfig(t, "engines: [not: a: map\n")
	if _, err := Load(path); err == nil {
		t.Error("Load should reject malformed YAML")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{
			name: "defaults",
			cfg:  *Default(),
		},
		{
			name: "known engines and order",
			cfg: Config{
				Engines:        map[string]EngineConfig{"prince": {Path: "/bin/prince"}},
				Order:          []string{"mupdf", "prince"},
				TimeoutMinutes: 5,
			},
		},
		{
			name: "unknown engine name",
			cfg: Config{
				Engines:        map[string]EngineConfig{"kindlegen": {}},
				TimeoutMinutes: 15,
			},
			wantErr: true,
		},
		{
			name: "unknown order entry",
			cfg: Config{
				Order:          []string{"prince", "latex"},
				TimeoutMinutes: 15,
			},
			wantErr: true,
		},
		{
			name: "auto in order",
			cfg: Config{
				Order:          []string{"auto"},
				TimeoutMinutes: 15,
			},
			wantErr: true,
		},
		{
			name:    "zero timeout",
			cfg:     Config{TimeoutMinutes: 0},
			wantErr: true,
		},
		{
			name:    "negative timeout",
			cfg:     Config{TimeoutMinutes: -1},
			wantErr: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

// orderStub is the minimal engine.Engine for order-resolution tests.
type orderStub struct {
	method engine.Method
}

func (s orderStub) Method() engine.Method { return s.method }
func (s orderStub) Available() bool       { return true }
func (s orderStub) Convert(context.Context, string, string, engine.Progress) error {
	return nil
}

func methodsOf(engines []engine.Engine) []engine.Method {
	out := make([]engine.Method, len(engines))
	for i, e := range engines {
		out[i] = e.Method()
	}
	return out
}

func TestEngineOrder(t *testing.T) {
	table := []engine.Engine{
		orderStub{engine.Prince},
		orderStub{engine.Vivliostyle},
		orderStub{engine.Calibre},
		orderStub{engine.Pandoc},
		orderStub{engine.MuPDF},
	}

	tests := []struct {
		name  string
		order []string
		want  []engine.Method
	}{
		{
			name: "empty order keeps defaults",
			want: []engine.Method{engine.Prince, engine.Vivliostyle, engine.Calibre, engine.Pandoc, engine.MuPDF},
		},
		{
			name:  "partial order promotes configured engines",
			order: []string{"calibre", "mupdf"},
			want:  []engine.Method{engine.Calibre, engine.MuPDF, engine.Prince, engine.Vivliostyle, engine.Pandoc},
		},
		{
			name:  "full order",
			order: []string{"mupdf", "pandoc", "calibre", "vivliostyle", "prince"},
			want:  []engine.Method{engine.MuPDF, engine.Pandoc, engine.Calibre, engine.Vivliostyle, engine.Prince},
		},
		{
			name:  "duplicates collapse to first mention",
			order: []string{"prince", "prince", "calibre"},
			want:  []engine.Method{engine.Prince, engine.Calibre, engine.Vivliostyle, engine.Pandoc, engine.MuPDF},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			cfg.Order = tt.order

			got := methodsOf(cfg.EngineOrder(table))
			if len(got) != len(tt.want) {
				t.Fatalf("order = %v, want %v", got, tt.want)
			}
			for i := range tt.want {
				if got[i] != tt.want[i] {
					t.Errorf("order[%d] = %s, want %s", i, got[i], tt.want[i])
				}
			}
		})
	}
}
