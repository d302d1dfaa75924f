// Package hints provides actionable error hints for common failure scenarios.
// Hints are formatted consistently as "\n  hint: <text>" for appending to error messages.
package hints

import (
	"os"
	"strings"
)

// installHints maps backend families to install guidance.
var installHints = map[string]string{
	"soffice":  "install LibreOffice (apt install libreoffice / brew install --cask libreoffice) or set DOCCONV_SOFFICE_BIN",
	"pandoc":   "install pandoc (apt install pandoc / brew install pandoc) or set DOCCONV_PANDOC_BIN",
	"chromium": "install Chrome or Chromium, or set DOCCONV_CHROME_BIN",
}

// ForBackend returns an install hint for a backend name. Descriptor
// names carry a family prefix ("soffice-docx2pdf"), so match on it.
func ForBackend(name string) string {
	for family, hint := range installHints {
		if name == family || strings.HasPrefix(name, family+"-") {
			return format(hint)
		}
	}
	return ""
}

// ForTimeout returns a hint about increasing timeout for slow conversions.
func ForTimeout() string {
	return format("for large documents, use --timeout flag")
}

// ForConfigNotFound returns hints for config file not found errors.
// Suggests --config flag and creating a config in ~/.config/docconv/.
func ForConfigNotFound(searchedPaths []string) string {
	hint := "use --config /path/to/file.yaml"

	for _, p := range searchedPaths {
		if strings.Contains(p, ".config/docconv") {
			hint += " or create " + p
			break
		}
	}

	return format(hint)
}

// ForSandbox returns a hint when Chrome runs in a container/CI without
// the sandbox disabled.
func ForSandbox() string {
	inCI := os.Getenv("CI") != "" ||
		os.Getenv("GITHUB_ACTIONS") != "" ||
		os.Getenv("GITLAB_CI") != "" ||
		os.Getenv("JENKINS_URL") != ""

	if (inCI || IsInContainer()) && os.Getenv("DOCCONV_NO_SANDBOX") != "1" {
		return format("set DOCCONV_NO_SANDBOX=1 for Docker/CI")
	}
	return ""
}

// IsInContainer detects if running inside a Docker container or similar.
// Checks for /.dockerenv file which Docker creates automatically.
var IsInContainer = func() bool {
	_, err := os.Stat("/.dockerenv")
	return err == nil
}

// format creates a single hint string with consistent formatting.
func format(hint string) string {
	if hint == "" {
		return ""
	}
	return "\n  hint: " + hint
}
