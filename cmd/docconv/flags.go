package main

import (
	"os"

	flag "github.com/spf13/pflag"
)

// convertFlags holds all flags for the convert command.
type convertFlags struct {
	formatPair string
	input      string
	output     string
	timeout    string
	config     string
	exclude    []string
	workers    int
	quiet      bool
	verbose    bool
}

// parseConvertFlags parses convert command flags and returns positional args.
func parseConvertFlags(args []string) (*convertFlags, []string, error) {
	fs := flag.NewFlagSet("convert", flag.ContinueOnError)
	f := &convertFlags{}

	fs.StringVarP(&f.formatPair, "type", "T", "", "conversion type as src2dst (e.g. docx2pdf)")
	fs.StringVarP(&f.input, "input", "i", "", "input file or directory")
	fs.StringVarP(&f.output, "output", "o", "", "output file or directory")
	fs.StringVarP(&f.timeout, "timeout", "t", "", "per-backend timeout (e.g. 30s, 2m)")
	fs.StringVarP(&f.config, "config", "c", "", "config file name or path")
	fs.StringSliceVarP(&f.exclude, "exclude", "x", nil, "backend names to skip (repeatable)")
	fs.IntVarP(&f.workers, "workers", "w", 0, "parallel workers for directory input (0 = auto)")
	fs.BoolVarP(&f.quiet, "quiet", "q", false, "only show errors")
	fs.BoolVarP(&f.verbose, "verbose", "v", false, "show per-backend attempt log")

	fs.Usage = func() { printConvertUsage(os.Stderr) }

	if err := fs.Parse(args); err != nil {
		return nil, nil, err
	}

	return f, fs.Args(), nil
}

// doctorFlags holds flags for the doctor command.
type doctorFlags struct {
	json bool
}

// parseDoctorFlags parses doctor command flags.
func parseDoctorFlags(args []string) (*doctorFlags, error) {
	fs := flag.NewFlagSet("doctor", flag.ContinueOnError)
	f := &doctorFlags{}

	fs.BoolVar(&f.json, "json", false, "machine-readable output")

	fs.Usage = func() { printDoctorUsage(os.Stderr) }

	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	return f, nil
}
