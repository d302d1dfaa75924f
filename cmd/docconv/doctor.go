package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/exec"
	"runtime"
	"strings"

	docconv "github.com/alnah/go-docconv"
	"github.com/alnah/go-docconv/internal/hints"
)

// doctorResult holds all diagnostic information.
type doctorResult struct {
	Status   string        `json:"status"` // "ready", "warnings", "errors"
	Backends []backendInfo `json:"backends"`
	Env      envInfo       `json:"environment"`
	Warnings []string      `json:"warnings,omitempty"`
	Errors   []string      `json:"errors,omitempty"`
}

// backendInfo holds the probe outcome for one registered backend.
type backendInfo struct {
	Name      string `json:"name"`
	Pair      string `json:"pair"`
	Priority  int    `json:"priority"`
	Available bool   `json:"available"`
	Reason    string `json:"reason,omitempty"`
	Version   string `json:"version,omitempty"`
}

// envInfo holds environment detection results.
type envInfo struct {
	OS        string `json:"os"`
	Arch      string `json:"arch"`
	Container bool   `json:"container"`
	CI        bool   `json:"ci"`
}

// binaryFor maps backend families to a version-queryable binary name.
var binaryFor = map[string]string{
	"soffice":  "soffice",
	"pandoc":   "pandoc",
	"chromium": "chromium",
}

// runDoctorCmd executes the doctor command and returns an exit code.
// Exit codes: 0 = OK (including warnings), 1 = no usable backend at all.
func runDoctorCmd(args []string, env *Environment) int {
	flags, err := parseDoctorFlags(args)
	if err != nil {
		fmt.Fprintln(env.Stderr, err)
		return ExitUsage
	}

	registry := docconv.NewRegistry()
	if err := docconv.RegisterDefaults(registry); err != nil {
		fmt.Fprintln(env.Stderr, err)
		return ExitGeneral
	}

	result := runDoctor(registry)

	if flags.json {
		enc := json.NewEncoder(env.Stdout)
		enc.SetIndent("", "  ")
		_ = enc.Encode(result)
	} else {
		printDoctorResult(env.Stdout, result)
	}

	if result.Status == "errors" {
		return ExitGeneral
	}
	return ExitSuccess
}

// runDoctor probes every registered backend and gathers environment info.
func runDoctor(registry *docconv.Registry) *doctorResult {
	result := &doctorResult{
		Status: "ready",
		Env: envInfo{
			OS:        runtime.GOOS,
			Arch:      runtime.GOARCH,
			Container: hints.IsInContainer(),
			CI:        os.Getenv("CI") != "",
		},
	}

	prober := docconv.NewProber()
	anyAvailable := false

	for _, pair := range registry.Pairs() {
		for _, d := range registry.Lookup(pair.Source, pair.Target) {
			available, reason := prober.Probe(d)
			info := backendInfo{
				Name:      d.Name,
				Pair:      pair.String(),
				Priority:  d.Priority,
				Available: available,
				Reason:    reason,
			}
			if available {
				anyAvailable = true
				info.Version = backendVersion(d.Name)
			}
			result.Backends = append(result.Backends, info)
		}
	}

	if !anyAvailable {
		result.Errors = append(result.Errors,
			"no conversion backend is usable on this machine")
		result.Status = "errors"
		return result
	}

	for _, b := range result.Backends {
		if !b.Available {
			result.Warnings = append(result.Warnings, b.Name+": "+b.Reason)
		}
	}
	if len(result.Warnings) > 0 {
		result.Status = "warnings"
	}
	return result
}

// backendVersion runs a lightweight --version query for the backend's
// binary. Best-effort; in-process backends report nothing.
func backendVersion(name string) string {
	family, _, _ := strings.Cut(name, "-")
	bin, ok := binaryFor[family]
	if !ok {
		return ""
	}
	out, err := exec.Command(bin, "--version").Output()
	if err != nil {
		return ""
	}
	line, _, _ := strings.Cut(strings.TrimSpace(string(out)), "\n")
	return line
}

// printDoctorResult outputs human-readable diagnostic results.
func printDoctorResult(w io.Writer, r *doctorResult) {
	fmt.Fprintln(w, "docconv doctor")
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Backends")
	for _, b := range r.Backends {
		if b.Available {
			if b.Version != "" {
				fmt.Fprintf(w, "  [OK] %s (%s, priority %d): %s\n", b.Name, b.Pair, b.Priority, b.Version)
			} else {
				fmt.Fprintf(w, "  [OK] %s (%s, priority %d)\n", b.Name, b.Pair, b.Priority)
			}
		} else {
			fmt.Fprintf(w, "  [MISSING] %s (%s): %s%s\n", b.Name, b.Pair, b.Reason, hints.ForBackend(b.Name))
		}
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Environment")
	fmt.Fprintf(w, "  [OK] Platform: %s/%s\n", r.Env.OS, r.Env.Arch)
	if r.Env.Container {
		fmt.Fprintln(w, "  [OK] Container: detected")
	}
	if r.Env.CI {
		fmt.Fprintln(w, "  [OK] CI: detected")
	}
	fmt.Fprintln(w)

	switch r.Status {
	case "ready":
		fmt.Fprintln(w, "Status: Ready to convert")
	case "warnings":
		fmt.Fprintln(w, "Status: Ready with warnings (some backends missing)")
	case "errors":
		fmt.Fprintln(w, "Status: Not ready (no usable backend)")
	}
}
