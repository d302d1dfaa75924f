package docconv

import (
	"fmt"
	"os"

	"github.com/go-rod/rod/lib/launcher"
)

// Environment variable overriding the Chrome/Chromium binary location.
const chromeBinEnv = "DOCCONV_CHROME_BIN"

// chromiumPriority ranks the Chrome print path above pandoc for HTML
// input: Chrome's layout engine is the reference for web content.
const chromiumPriority = 80

// chromiumDescriptors builds the headless-Chrome html2pdf descriptor.
func chromiumDescriptors() []Descriptor {
	return []Descriptor{
		{
			Name:     "chromium-html2pdf",
			Source:   FormatHTML,
			Target:   FormatPDF,
			Priority: chromiumPriority,
			Probe:    probeChrome,
			Command:  chromiumCommand,
		},
	}
}

// probeChrome locates Chrome/Chromium. The rod launcher knows the
// platform install locations, so try it before a plain PATH search.
func probeChrome() (bool, string) {
	if _, ok := findChrome(); ok {
		return true, ""
	}
	return false, fmt.Sprintf("Chrome/Chromium not found (set %s to override)", chromeBinEnv)
}

// findChrome returns the Chrome binary path, if any.
func findChrome() (string, bool) {
	if bin := os.Getenv(chromeBinEnv); bin != "" {
		if info, err := os.Stat(bin); err == nil && !info.IsDir() {
			return bin, true
		}
		return "", false
	}
	if path, found := launcher.LookPath(); found {
		return path, true
	}
	return lookPath("", "chromium", "chromium-browser", "google-chrome", "chrome")
}

// chromiumCommand builds the headless print invocation. The user data
// directory lives inside the scratch workspace so concurrent prints
// never contend on a shared profile lock.
func chromiumCommand(job Job) (string, []string) {
	bin, _ := findChrome()
	args := []string{
		"--headless",
		"--disable-gpu",
		"--user-data-dir=" + job.Workspace,
		"--no-first-run",
		"--print-to-pdf=" + job.OutputPath,
		job.InputPath,
	}
	if os.Getenv("CI") == "true" || os.Getenv("DOCCONV_NO_SANDBOX") == "1" {
		args = append([]string{"--no-sandbox"}, args...)
	}
	return bin, args
}
