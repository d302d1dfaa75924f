package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	docconv "github.com/alnah/go-docconv"
	"github.com/alnah/go-docconv/internal/config"
	"github.com/alnah/go-docconv/internal/hints"
)

// Sentinel errors for CLI operations.
var (
	ErrNoInput        = errors.New("no input specified")
	ErrNoOutput       = errors.New("no output specified")
	ErrNoType         = errors.New("no conversion type specified")
	ErrInvalidTimeout = errors.New("invalid timeout")
	ErrOutputNotDir   = errors.New("output must be a directory for directory input")
	ErrNoInputFiles   = errors.New("no matching input files in directory")
)

// backendBinEnv maps config backend families to the binary override
// environment variables the library probes honor.
var backendBinEnv = map[string]string{
	"soffice":  "DOCCONV_SOFFICE_BIN",
	"pandoc":   "DOCCONV_PANDOC_BIN",
	"chromium": "DOCCONV_CHROME_BIN",
}

// runConvertCmd executes the convert command and returns an exit code.
func runConvertCmd(args []string, env *Environment) int {
	flags, _, err := parseConvertFlags(args)
	if err != nil {
		fmt.Fprintln(env.Stderr, err)
		return ExitUsage
	}

	ctx, stop := notifyContext(context.Background())
	defer stop()

	if err := runConvert(ctx, flags, env); err != nil {
		fmt.Fprintln(env.Stderr, "Error:", err.Error()+hintFor(err))
		return exitCodeFor(err)
	}
	return ExitSuccess
}

// runConvert orchestrates the conversion process.
func runConvert(ctx context.Context, flags *convertFlags, env *Environment) error {
	if flags.input == "" {
		return ErrNoInput
	}
	if flags.output == "" {
		return ErrNoOutput
	}

	cfg := env.Config
	if flags.config != "" {
		loaded, err := config.LoadConfig(flags.config)
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}
		cfg = loaded
	}
	applyBackendPaths(cfg)

	pair, err := resolvePair(flags, cfg)
	if err != nil {
		return err
	}

	timeout, err := resolveTimeout(flags, cfg)
	if err != nil {
		return err
	}

	registry := docconv.NewRegistry()
	if err := docconv.RegisterDefaults(registry); err != nil {
		return err
	}

	opts := []docconv.Option{}
	if timeout > 0 {
		opts = append(opts, docconv.WithTimeout(timeout))
	}
	svc := docconv.New(registry, opts...)

	exclude := append([]string{}, flags.exclude...)
	exclude = append(exclude, cfg.DisabledBackends()...)
	exclude = expandFamilies(registry, pair, exclude)

	info, err := os.Stat(flags.input)
	if err != nil {
		return fmt.Errorf("reading input: %w", err)
	}
	if info.IsDir() {
		return convertDir(ctx, svc, pair, exclude, flags, cfg, env)
	}

	return convertOne(ctx, svc, docconv.Request{
		InputPath:  flags.input,
		OutputPath: flags.output,
		Source:     pair.Source,
		Target:     pair.Target,
		Exclude:    exclude,
	}, flags, env)
}

// convertOne runs a single request and reports the outcome.
func convertOne(ctx context.Context, svc *docconv.Service, req docconv.Request, flags *convertFlags, env *Environment) error {
	result, err := svc.Convert(ctx, req)

	if result != nil && (flags.verbose || err != nil) {
		if log := result.AttemptLog(); log != "" {
			fmt.Fprint(env.Stderr, log)
		}
	}
	if err != nil {
		return err
	}

	if !flags.quiet {
		fmt.Fprintf(env.Stdout, "Created %s via %s (%s)\n",
			result.OutputPath, result.BackendUsed, result.Elapsed.Round(time.Millisecond))
	}
	return nil
}

// convertDir converts every matching file in the input directory using a
// bounded worker pool. Attempts within one request stay sequential; only
// distinct requests run concurrently.
func convertDir(ctx context.Context, svc *docconv.Service, pair docconv.Pair, exclude []string, flags *convertFlags, cfg *config.Config, env *Environment) error {
	outInfo, err := os.Stat(flags.output)
	if err != nil || !outInfo.IsDir() {
		return fmt.Errorf("%w: %s", ErrOutputNotDir, flags.output)
	}

	files, err := discoverFiles(flags.input, pair.Source)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		return fmt.Errorf("%w: *.%s in %s", ErrNoInputFiles, pair.Source, flags.input)
	}

	requests := make([]docconv.Request, len(files))
	for i, in := range files {
		base := filepath.Base(in)
		out := strings.TrimSuffix(base, filepath.Ext(base)) + "." + pair.Target
		requests[i] = docconv.Request{
			InputPath:  in,
			OutputPath: filepath.Join(flags.output, out),
			Source:     pair.Source,
			Target:     pair.Target,
			Exclude:    exclude,
		}
	}

	results := convertBatch(ctx, svc, requests, resolveWorkers(flags.workers, cfg.Workers))

	failed := 0
	for i, br := range results {
		if br.err != nil {
			failed++
			fmt.Fprintf(env.Stderr, "%s: %v\n", requests[i].InputPath, br.err)
			if br.result != nil {
				fmt.Fprint(env.Stderr, indent(br.result.AttemptLog()))
			}
			continue
		}
		if !flags.quiet {
			fmt.Fprintf(env.Stdout, "Created %s via %s (%s)\n",
				br.result.OutputPath, br.result.BackendUsed, br.result.Elapsed.Round(time.Millisecond))
		}
	}

	if err := ctx.Err(); err != nil {
		return err
	}
	if failed > 0 {
		return fmt.Errorf("%w: %d of %d files failed", docconv.ErrExhausted, failed, len(requests))
	}
	return nil
}

// batchResult pairs a request outcome with its attempt log.
type batchResult struct {
	result *docconv.Result
	err    error
}

// convertBatch fans requests out over a bounded number of workers.
func convertBatch(ctx context.Context, svc *docconv.Service, requests []docconv.Request, workers int) []batchResult {
	if workers > len(requests) {
		workers = len(requests)
	}

	results := make([]batchResult, len(requests))
	jobs := make(chan int, len(requests))
	done := make(chan struct{})

	for w := 0; w < workers; w++ {
		go func() {
			for idx := range jobs {
				if err := ctx.Err(); err != nil {
					results[idx] = batchResult{err: err}
					continue
				}
				result, err := svc.Convert(ctx, requests[idx])
				results[idx] = batchResult{result: result, err: err}
			}
			done <- struct{}{}
		}()
	}

	for i := range requests {
		jobs <- i
	}
	close(jobs)
	for w := 0; w < workers; w++ {
		<-done
	}
	return results
}

// discoverFiles lists regular files with the source format's extension,
// sorted by WalkDir's lexical order for deterministic output.
func discoverFiles(dir, source string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		if strings.EqualFold(strings.TrimPrefix(filepath.Ext(path), "."), source) {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("scanning input directory: %w", err)
	}
	return files, nil
}

// resolvePair determines the format pair: the --type flag wins, then
// inference from the input/output file extensions.
func resolvePair(flags *convertFlags, _ *config.Config) (docconv.Pair, error) {
	if flags.formatPair != "" {
		return docconv.ParsePair(flags.formatPair)
	}

	src := strings.ToLower(strings.TrimPrefix(filepath.Ext(flags.input), "."))
	dst := strings.ToLower(strings.TrimPrefix(filepath.Ext(flags.output), "."))
	if src == "" || dst == "" {
		return docconv.Pair{}, fmt.Errorf("%w: use --type src2dst or give extensions on both paths", ErrNoType)
	}
	return docconv.Pair{Source: src, Target: dst}, nil
}

// resolveTimeout merges the flag and config timeouts; flag wins.
func resolveTimeout(flags *convertFlags, cfg *config.Config) (time.Duration, error) {
	if flags.timeout != "" {
		d, err := time.ParseDuration(flags.timeout)
		if err != nil || d <= 0 {
			return 0, fmt.Errorf("%w: %q", ErrInvalidTimeout, flags.timeout)
		}
		return d, nil
	}
	return cfg.ParsedTimeout(), nil
}

// resolveWorkers merges flag and config worker counts within bounds.
func resolveWorkers(flagWorkers, cfgWorkers int) int {
	n := flagWorkers
	if n == 0 {
		n = cfgWorkers
	}
	if n < config.MinWorkers {
		return config.MinWorkers
	}
	if n > config.MaxWorkers {
		return config.MaxWorkers
	}
	return n
}

// applyBackendPaths exports config binary overrides through the
// environment variables the library probes read.
func applyBackendPaths(cfg *config.Config) {
	for family, bc := range cfg.Backends {
		if bc.Path == "" {
			continue
		}
		if envVar, ok := backendBinEnv[family]; ok {
			_ = os.Setenv(envVar, bc.Path)
		}
	}
}

// expandFamilies resolves family names ("soffice") in the exclusion list
// to the concrete descriptor names registered for the pair.
func expandFamilies(registry *docconv.Registry, pair docconv.Pair, names []string) []string {
	descriptors := registry.Lookup(pair.Source, pair.Target)
	var out []string
	for _, name := range names {
		matched := false
		for _, d := range descriptors {
			if d.Name == name || strings.HasPrefix(d.Name, name+"-") {
				out = append(out, d.Name)
				matched = true
			}
		}
		if !matched {
			out = append(out, name)
		}
	}
	return out
}

// hintFor appends an actionable hint to the error message when one applies.
func hintFor(err error) string {
	switch {
	case errors.Is(err, docconv.ErrConversionTimeout), errors.Is(err, context.DeadlineExceeded):
		return hints.ForTimeout()
	case errors.Is(err, config.ErrConfigNotFound):
		return hints.ForConfigNotFound(nil)
	case errors.Is(err, docconv.ErrNoAvailableBackend):
		return hints.ForSandbox()
	}
	return ""
}

// indent prefixes every non-empty line with two spaces.
func indent(s string) string {
	lines := strings.Split(strings.TrimRight(s, "\n"), "\n")
	for i, l := range lines {
		if l != "" {
			lines[i] = "  " + l
		}
	}
	return strings.Join(lines, "\n") + "\n"
}
