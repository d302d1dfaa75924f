package main

import (
	"errors"
	"os"
	"path/filepath"
	"sort"
	"testing"
	"time"

	docconv "github.com/alnah/go-docconv"
	"github.com/alnah/go-docconv/internal/config"
)

// ---------------------------------------------------------------------------
// TestResolvePair - Format pair from flag or extensions
// ---------------------------------------------------------------------------

func TestResolvePair(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		flags   convertFlags
		want    docconv.Pair
		wantErr error
	}{
		{
			name:  "explicit type wins",
			flags: convertFlags{formatPair: "docx2pdf", input: "a.md", output: "b.html"},
			want:  docconv.Pair{Source: "docx", Target: "pdf"},
		},
		{
			name:  "inferred from extensions",
			flags: convertFlags{input: "report.DOCX", output: "report.pdf"},
			want:  docconv.Pair{Source: "docx", Target: "pdf"},
		},
		{
			name:    "missing input extension",
			flags:   convertFlags{input: "report", output: "report.pdf"},
			wantErr: ErrNoType,
		},
		{
			name:    "missing output extension",
			flags:   convertFlags{input: "report.docx", output: "out"},
			wantErr: ErrNoType,
		},
		{
			name:    "malformed type flag",
			flags:   convertFlags{formatPair: "docxpdf"},
			wantErr: docconv.ErrInvalidFormatPair,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := resolvePair(&tt.flags, config.DefaultConfig())
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("resolvePair() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("resolvePair() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("resolvePair() = %v, want %v", got, tt.want)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// TestResolveTimeout - Flag overrides config
// ---------------------------------------------------------------------------

func TestResolveTimeout(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		flag    string
		cfg     string
		want    time.Duration
		wantErr bool
	}{
		{"flag wins over config", "30s", "5m", 30 * time.Second, false},
		{"config when no flag", "", "5m", 5 * time.Minute, false},
		{"zero when neither set", "", "", 0, false},
		{"malformed flag", "thirty", "", 0, true},
		{"non-positive flag", "-1s", "", 0, true},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			flags := &convertFlags{timeout: tt.flag}
			cfg := &config.Config{Timeout: tt.cfg}
			got, err := resolveTimeout(flags, cfg)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidTimeout) {
					t.Errorf("resolveTimeout() error = %v, want ErrInvalidTimeout", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("resolveTimeout() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("resolveTimeout() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestResolveWorkers(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		flag int
		cfg  int
		want int
	}{
		{"flag wins", 4, 8, 4},
		{"config when flag zero", 0, 8, 8},
		{"floor when both zero", 0, 0, config.MinWorkers},
		{"clamped to max", 100, 0, config.MaxWorkers},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := resolveWorkers(tt.flag, tt.cfg); got != tt.want {
				t.Errorf("resolveWorkers(%d, %d) = %d, want %d", tt.flag, tt.cfg, got, tt.want)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// TestExpandFamilies - Family names to descriptor names
// ---------------------------------------------------------------------------

func TestExpandFamilies(t *testing.T) {
	t.Parallel()

	registry := docconv.NewRegistry()
	if err := docconv.RegisterDefaults(registry); err != nil {
		t.Fatal(err)
	}
	pair := docconv.Pair{Source: "docx", Target: "pdf"}

	t.Run("family expands to descriptor names", func(t *testing.T) {
		t.Parallel()

		got := expandFamilies(registry, pair, []string{"soffice"})
		sort.Strings(got)
		if len(got) != 1 || got[0] != "soffice-docx2pdf" {
			t.Errorf("expandFamilies() = %v", got)
		}
	})

	t.Run("exact descriptor name kept", func(t *testing.T) {
		t.Parallel()

		got := expandFamilies(registry, pair, []string{"pandoc-docx2pdf"})
		if len(got) != 1 || got[0] != "pandoc-docx2pdf" {
			t.Errorf("expandFamilies() = %v", got)
		}
	})

	t.Run("unknown name passes through", func(t *testing.T) {
		t.Parallel()

		got := expandFamilies(registry, pair, []string{"wkhtmltopdf"})
		if len(got) != 1 || got[0] != "wkhtmltopdf" {
			t.Errorf("expandFamilies() = %v", got)
		}
	})
}

// ---------------------------------------------------------------------------
// TestDiscoverFiles - Directory scanning
// ---------------------------------------------------------------------------

func TestDiscoverFiles(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	for _, name := range []string{"a.docx", "b.DOCX", "notes.txt", "c.docx"} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("x"), 0o600); err != nil {
			t.Fatal(err)
		}
	}
	sub := filepath.Join(dir, "nested")
	if err := os.Mkdir(sub, 0o750); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(sub, "d.docx"), []byte("x"), 0o600); err != nil {
		t.Fatal(err)
	}

	files, err := discoverFiles(dir, "docx")
	if err != nil {
		t.Fatalf("discoverFiles() error = %v", err)
	}
	if len(files) != 4 {
		t.Fatalf("discoverFiles() found %d files, want 4: %v", len(files), files)
	}
	for _, f := range files {
		if filepath.Ext(f) == ".txt" {
			t.Errorf("discoverFiles() included non-matching file %s", f)
		}
	}
}

func TestDiscoverFiles_MissingDir(t *testing.T) {
	t.Parallel()

	if _, err := discoverFiles(filepath.Join(t.TempDir(), "nope"), "docx"); err == nil {
		t.Error("discoverFiles() expected error for missing directory")
	}
}

// ---------------------------------------------------------------------------
// TestApplyBackendPaths - Config path overrides reach the environment
// ---------------------------------------------------------------------------

func TestApplyBackendPaths(t *testing.T) {
	t.Setenv("DOCCONV_SOFFICE_BIN", "")
	t.Setenv("DOCCONV_PANDOC_BIN", "")

	applyBackendPaths(&config.Config{Backends: map[string]config.BackendConfig{
		"soffice": {Path: "/opt/libreoffice/soffice"},
		"pandoc":  {Disabled: true},
		"unknown": {Path: "/opt/unknown"},
	}})

	if got := os.Getenv("DOCCONV_SOFFICE_BIN"); got != "/opt/libreoffice/soffice" {
		t.Errorf("DOCCONV_SOFFICE_BIN = %q", got)
	}
	if got := os.Getenv("DOCCONV_PANDOC_BIN"); got != "" {
		t.Errorf("DOCCONV_PANDOC_BIN = %q, want empty (no path configured)", got)
	}
}

func TestIndent(t *testing.T) {
	t.Parallel()

	got := indent("first\nsecond\n")
	want := "  first\n  second\n"
	if got != want {
		t.Errorf("indent() = %q, want %q", got, want)
	}
}
