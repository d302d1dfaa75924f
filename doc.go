// Package docconv converts documents between formats by delegating to
// interchangeable external backends (LibreOffice headless, pandoc,
// headless Chrome) behind one uniform contract.
//
// The package owns orchestration, not rendering: it discovers which
// backends are usable on the current machine, ranks them by priority,
// invokes the chosen one in an isolated subprocess with a bounded
// timeout, and falls back to the next candidate on failure.
//
// Basic usage:
//
//	reg := docconv.NewRegistry()
//	if err := docconv.RegisterDefaults(reg); err != nil {
//		log.Fatal(err)
//	}
//	svc := docconv.New(reg, docconv.WithTimeout(2*time.Minute))
//	result, err := svc.Convert(ctx, docconv.Request{
//		InputPath:  "report.docx",
//		OutputPath: "report.pdf",
//		Source:     docconv.FormatDOCX,
//		Target:     docconv.FormatPDF,
//	})
//
// On failure the returned Result still carries the ordered per-backend
// attempt log and the probe-failure reasons for backends that were
// skipped, so callers can surface actionable diagnostics.
package docconv
