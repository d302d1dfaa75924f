package docconv

import (
	"fmt"
	"os"
	"os/exec"
	"strings"
)

// Environment variables overriding pandoc and its PDF engine.
const (
	pandocBinEnv    = "DOCCONV_PANDOC_BIN"
	pandocEngineEnv = "DOCCONV_PDF_ENGINE"
)

// Pandoc ranks below LibreOffice for office documents (layout fidelity)
// and below goldmark for md2html (no external binary needed there).
const (
	pandocPDFPriority    = 50
	pandocMarkupPriority = 60
)

// pdfEngines are the engines pandoc can delegate PDF rendering to,
// probed in order.
var pdfEngines = []string{"pdflatex", "xelatex", "wkhtmltopdf", "weasyprint"}

// pandocDescriptors builds descriptors for the pandoc backend.
func pandocDescriptors() []Descriptor {
	pandocProbe := probeBinary(pandocBinEnv, "pandoc")

	descriptors := []Descriptor{
		{
			Name:     "pandoc-docx2pdf",
			Source:   FormatDOCX,
			Target:   FormatPDF,
			Priority: pandocPDFPriority,
			// PDF output needs a companion engine on top of pandoc itself.
			Probe: func() (bool, string) {
				if ok, reason := pandocProbe(); !ok {
					return false, reason
				}
				if _, ok := findPDFEngine(); !ok {
					return false, fmt.Sprintf("pandoc found but no PDF engine (need one of: %s)",
						strings.Join(pdfEngines, ", "))
				}
				return true, ""
			},
			Command: func(job Job) (string, []string) {
				bin, _ := lookPath(os.Getenv(pandocBinEnv), "pandoc")
				engine, _ := findPDFEngine()
				return bin, []string{job.InputPath, "--pdf-engine", engine, "-o", job.OutputPath}
			},
		},
	}

	// Direct markup conversions need no companion tool.
	directPairs := []Pair{
		{Source: FormatDOCX, Target: FormatMD},
		{Source: FormatMD, Target: FormatDOCX},
		{Source: FormatMD, Target: FormatHTML},
		{Source: FormatHTML, Target: FormatMD},
	}
	for _, pair := range directPairs {
		descriptors = append(descriptors, Descriptor{
			Name:     "pandoc-" + pair.String(),
			Source:   pair.Source,
			Target:   pair.Target,
			Priority: pandocMarkupPriority,
			Probe:    pandocProbe,
			Command: func(job Job) (string, []string) {
				bin, _ := lookPath(os.Getenv(pandocBinEnv), "pandoc")
				return bin, []string{job.InputPath, "--standalone", "-o", job.OutputPath}
			},
		})
	}

	return descriptors
}

// findPDFEngine locates a PDF engine for pandoc, honoring the override.
func findPDFEngine() (string, bool) {
	if engine := os.Getenv(pandocEngineEnv); engine != "" {
		if _, err := exec.LookPath(engine); err == nil {
			return engine, true
		}
		return "", false
	}
	for _, engine := range pdfEngines {
		if _, err := exec.LookPath(engine); err == nil {
			return engine, true
		}
	}
	return "", false
}
