package docconv

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// ---------------------------------------------------------------------------
// TestSofficeCommand - Invocation and isolation flags
// ---------------------------------------------------------------------------

func TestSofficeCommand(t *testing.T) {
	job := Job{
		InputPath:  "/in/report.docx",
		OutputPath: "/out/report.pdf",
		Workspace:  "/tmp/ws",
	}

	_, args := sofficeCommand("pdf", job)
	joined := strings.Join(args, " ")

	// The private profile lives inside the scratch workspace: this is
	// what keeps concurrent invocations off each other's lock files.
	if !strings.Contains(joined, "-env:UserInstallation=file:///tmp/ws/profile") {
		t.Errorf("args missing isolated profile flag: %v", args)
	}
	for _, want := range []string{"--headless", "--norestore", "--convert-to pdf", "--outdir /tmp/ws", "/in/report.docx"} {
		if !strings.Contains(joined, want) {
			t.Errorf("args missing %q: %v", want, args)
		}
	}
}

func TestSofficeCollect(t *testing.T) {
	t.Parallel()

	ws := t.TempDir()
	out := filepath.Join(t.TempDir(), "final.pdf")
	job := Job{InputPath: "/in/report.docx", OutputPath: out, Workspace: ws}

	// soffice drops the product under the input basename in the outdir.
	if err := os.WriteFile(filepath.Join(ws, "report.pdf"), []byte("pdf"), 0o600); err != nil {
		t.Fatal(err)
	}

	if err := sofficeCollect("pdf", job); err != nil {
		t.Fatalf("sofficeCollect() error = %v", err)
	}
	if got, _ := os.ReadFile(out); string(got) != "pdf" {
		t.Errorf("collected output = %q, want %q", got, "pdf")
	}
}

func TestSofficeCollectMissingProduct(t *testing.T) {
	t.Parallel()

	job := Job{
		InputPath:  "/in/report.docx",
		OutputPath: filepath.Join(t.TempDir(), "final.pdf"),
		Workspace:  t.TempDir(),
	}
	if err := sofficeCollect("pdf", job); err == nil {
		t.Error("sofficeCollect() with no product = nil error, want failure")
	}
}

// ---------------------------------------------------------------------------
// TestPandocDescriptors - Pair coverage and companion-tool probe
// ---------------------------------------------------------------------------

func TestPandocDescriptors(t *testing.T) {
	t.Parallel()

	byName := map[string]Descriptor{}
	for _, d := range pandocDescriptors() {
		byName[d.Name] = d
	}

	pdf, ok := byName["pandoc-docx2pdf"]
	if !ok {
		t.Fatal("pandoc-docx2pdf descriptor missing")
	}
	if pdf.Priority != pandocPDFPriority {
		t.Errorf("pandoc-docx2pdf priority = %d, want %d", pdf.Priority, pandocPDFPriority)
	}

	for _, name := range []string{"pandoc-docx2md", "pandoc-md2docx", "pandoc-md2html", "pandoc-html2md"} {
		if _, ok := byName[name]; !ok {
			t.Errorf("descriptor %s missing", name)
		}
	}
}

func TestPandocCommandTargetsOutputPath(t *testing.T) {
	job := Job{InputPath: "/in/doc.docx", OutputPath: "/out/doc.md", Workspace: "/tmp/ws"}

	for _, d := range pandocDescriptors() {
		if d.Name != "pandoc-docx2md" {
			continue
		}
		_, args := d.Command(job)
		joined := strings.Join(args, " ")
		if !strings.Contains(joined, "-o /out/doc.md") {
			t.Errorf("pandoc args missing output flag: %v", args)
		}
		if !strings.Contains(joined, "/in/doc.docx") {
			t.Errorf("pandoc args missing input: %v", args)
		}
	}
}

// ---------------------------------------------------------------------------
// TestChromiumCommand - Headless print invocation
// ---------------------------------------------------------------------------

func TestChromiumCommand(t *testing.T) {
	job := Job{InputPath: "/in/page.html", OutputPath: "/out/page.pdf", Workspace: "/tmp/ws"}

	_, args := chromiumCommand(job)
	joined := strings.Join(args, " ")

	for _, want := range []string{"--headless", "--user-data-dir=/tmp/ws", "--print-to-pdf=/out/page.pdf", "/in/page.html"} {
		if !strings.Contains(joined, want) {
			t.Errorf("args missing %q: %v", want, args)
		}
	}
}

// ---------------------------------------------------------------------------
// TestGoldmarkRun - In-process markdown backend
// ---------------------------------------------------------------------------

func TestGoldmarkRun(t *testing.T) {
	t.Parallel()

	in := filepath.Join(t.TempDir(), "doc.md")
	out := filepath.Join(t.TempDir(), "doc.html")
	if err := os.WriteFile(in, []byte("# Title\n\nSome *emphasis*.\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	md := newGoldmark()
	if err := goldmarkRun(context.Background(), md, Job{InputPath: in, OutputPath: out}); err != nil {
		t.Fatalf("goldmarkRun() error = %v", err)
	}

	html, err := os.ReadFile(out)
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{"<!DOCTYPE html>", "<h1", "Title", "<em>emphasis</em>"} {
		if !strings.Contains(string(html), want) {
			t.Errorf("output missing %q", want)
		}
	}
}

func TestGoldmarkRunCancelled(t *testing.T) {
	t.Parallel()

	in := filepath.Join(t.TempDir(), "doc.md")
	if err := os.WriteFile(in, []byte("# Title\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := goldmarkRun(ctx, newGoldmark(), Job{
		InputPath:  in,
		OutputPath: filepath.Join(t.TempDir(), "doc.html"),
	})
	if err == nil {
		t.Error("goldmarkRun() with cancelled context = nil error, want context error")
	}
}

func TestGoldmarkRunMissingInput(t *testing.T) {
	t.Parallel()

	err := goldmarkRun(context.Background(), newGoldmark(), Job{
		InputPath:  filepath.Join(t.TempDir(), "nope.md"),
		OutputPath: filepath.Join(t.TempDir(), "doc.html"),
	})
	if err == nil {
		t.Error("goldmarkRun() with missing input = nil error, want failure")
	}
}
