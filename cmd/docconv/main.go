package main

import (
	"fmt"
	"os"

	"go.uber.org/automaxprocs/maxprocs"
)

// Version is set at build time via ldflags.
var Version = "dev"

func main() {
	// Error ignored: maxprocs.Set only fails if GOMAXPROCS env is invalid,
	// in which case Go runtime defaults apply and the program continues safely.
	_, _ = maxprocs.Set(maxprocs.Logger(func(string, ...interface{}) {}))

	os.Exit(run(os.Args[1:], DefaultEnv()))
}

// run dispatches the subcommand and returns the process exit code.
func run(args []string, env *Environment) int {
	if len(args) == 0 {
		printUsage(env.Stderr)
		return ExitUsage
	}

	cmd, rest := args[0], args[1:]
	switch cmd {
	case "convert":
		return runConvertCmd(rest, env)
	case "doctor":
		return runDoctorCmd(rest, env)
	case "completion":
		return runCompletionCmd(rest, env)
	case "version":
		fmt.Fprintf(env.Stdout, "docconv %s\n", Version)
		return ExitSuccess
	case "help", "--help", "-h":
		printHelp(rest, env.Stdout)
		return ExitSuccess
	default:
		fmt.Fprintf(env.Stderr, "unknown command: %q\n\n", cmd)
		printUsage(env.Stderr)
		return ExitUsage
	}
}
