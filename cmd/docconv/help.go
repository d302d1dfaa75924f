package main

import (
	"fmt"
	"io"
)

// printUsage prints the main usage message.
func printUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: docconv <command> [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  convert     Convert a document to another format")
	fmt.Fprintln(w, "  doctor      Check which conversion backends are usable")
	fmt.Fprintln(w, "  completion  Generate shell completion script")
	fmt.Fprintln(w, "  version     Show version information")
	fmt.Fprintln(w, "  help        Show help for a command")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Run 'docconv help <command>' for details on a specific command.")
}

// printConvertUsage prints usage for the convert command.
func printConvertUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: docconv convert --type <src2dst> --input <path> --output <path> [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Convert a document by delegating to the best available backend.")
	fmt.Fprintln(w, "Backends are tried in priority order; the first success wins.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Flags:")
	fmt.Fprintln(w, "  -T, --type <src2dst>    Conversion type (e.g. docx2pdf, md2html);")
	fmt.Fprintln(w, "                          inferred from file extensions when omitted")
	fmt.Fprintln(w, "  -i, --input <path>      Input file, or directory for batch mode")
	fmt.Fprintln(w, "  -o, --output <path>     Output file, or directory for batch mode")
	fmt.Fprintln(w, "  -t, --timeout <dur>     Per-backend timeout (default 2m)")
	fmt.Fprintln(w, "  -x, --exclude <name>    Skip a backend (repeatable; family or full name)")
	fmt.Fprintln(w, "  -c, --config <name>     Config file name or path")
	fmt.Fprintln(w, "  -w, --workers <n>       Parallel workers for batch mode (0 = auto)")
	fmt.Fprintln(w, "  -q, --quiet             Only show errors")
	fmt.Fprintln(w, "  -v, --verbose           Show per-backend attempt log")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Exit codes:")
	fmt.Fprintln(w, "  0 success, 2 usage, 3 I/O, 4 no backend available,")
	fmt.Fprintln(w, "  5 all backends failed, 6 cancelled")
}

// printDoctorUsage prints usage for the doctor command.
func printDoctorUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: docconv doctor [--json]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Probe every registered backend and report availability,")
	fmt.Fprintln(w, "versions, and install hints for missing tools.")
}

// printCompletionUsage prints usage for the completion command.
func printCompletionUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: docconv completion <bash|zsh>")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Generate a shell completion script. Example:")
	fmt.Fprintln(w, "  source <(docconv completion bash)")
}

// printHelp dispatches to per-command usage.
func printHelp(args []string, w io.Writer) {
	if len(args) == 0 {
		printUsage(w)
		return
	}
	switch args[0] {
	case "convert":
		printConvertUsage(w)
	case "doctor":
		printDoctorUsage(w)
	case "completion":
		printCompletionUsage(w)
	default:
		printUsage(w)
	}
}
