package docconv

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/alnah/go-docconv/internal/fileutil"
)

// Environment variable overriding the LibreOffice binary location.
const sofficeBinEnv = "DOCCONV_SOFFICE_BIN"

// sofficePriority puts LibreOffice first for office-document pairs: it
// renders native DOCX far more faithfully than the markup toolchains.
const sofficePriority = 100

// sofficePairs are the conversions the LibreOffice backend registers.
var sofficePairs = []Pair{
	{Source: FormatDOCX, Target: FormatPDF},
	{Source: FormatDOC, Target: FormatPDF},
	{Source: FormatODT, Target: FormatPDF},
	{Source: FormatDOCX, Target: FormatODT},
}

// sofficeDescriptors builds one descriptor per supported pair.
func sofficeDescriptors() []Descriptor {
	descriptors := make([]Descriptor, 0, len(sofficePairs))
	for _, pair := range sofficePairs {
		pair := pair
		descriptors = append(descriptors, Descriptor{
			Name:     "soffice-" + pair.String(),
			Source:   pair.Source,
			Target:   pair.Target,
			Priority: sofficePriority,
			Probe:    probeBinary(sofficeBinEnv, "soffice", "libreoffice"),
			Command: func(job Job) (string, []string) {
				return sofficeCommand(pair.Target, job)
			},
			Collect: func(job Job) error {
				return sofficeCollect(pair.Target, job)
			},
		})
	}
	return descriptors
}

// sofficeCommand builds the headless invocation. The UserInstallation
// profile lives inside the scratch workspace: LibreOffice serializes on
// a per-profile lock file, so a shared profile would make concurrent
// invocations block or fail on each other.
func sofficeCommand(target string, job Job) (string, []string) {
	bin, _ := lookPath(os.Getenv(sofficeBinEnv), "soffice", "libreoffice")
	profile := filepath.Join(job.Workspace, "profile")
	args := []string{
		"-env:UserInstallation=file://" + profile,
		"--headless",
		"--norestore",
		"--convert-to", target,
		"--outdir", job.Workspace,
		job.InputPath,
	}
	return bin, args
}

// sofficeCollect moves the converted file from the scratch workspace to
// the requested output path. --convert-to only accepts an outdir, so the
// product lands next to the profile under the input's basename.
func sofficeCollect(target string, job Job) error {
	base := filepath.Base(job.InputPath)
	produced := filepath.Join(job.Workspace, strings.TrimSuffix(base, filepath.Ext(base))+"."+target)
	if !fileutil.FileExists(produced) {
		return fmt.Errorf("expected product not found: %s", produced)
	}
	return fileutil.MoveFile(produced, job.OutputPath)
}
