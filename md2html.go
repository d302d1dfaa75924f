package docconv

import (
	"bytes"
	"context"
	"fmt"
	"os"

	chromahtml "github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/yuin/goldmark"
	highlighting "github.com/yuin/goldmark-highlighting/v2"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer/html"
)

// goldmarkPriority ranks the in-process converter above pandoc for
// md2html: same output class, no external binary to install.
const goldmarkPriority = 90

// htmlShell wraps goldmark's fragment output in a complete HTML5 document.
const htmlShell = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>Document</title>
</head>
<body>
%s
</body>
</html>`

// goldmarkDescriptors builds the in-process md2html descriptor. It is
// the one stock backend with a Run function instead of a Command: the
// conversion happens in this process, so the probe is trivially true.
func goldmarkDescriptors() []Descriptor {
	md := newGoldmark()
	return []Descriptor{
		{
			Name:     "goldmark-md2html",
			Source:   FormatMD,
			Target:   FormatHTML,
			Priority: goldmarkPriority,
			Probe:    func() (bool, string) { return true, "" },
			Run: func(ctx context.Context, job Job) error {
				return goldmarkRun(ctx, md, job)
			},
		},
	}
}

// newGoldmark configures goldmark with GFM extensions and syntax
// highlighting via chroma CSS classes.
func newGoldmark() goldmark.Markdown {
	return goldmark.New(
		goldmark.WithExtensions(
			extension.GFM,
			extension.Footnote,
			highlighting.NewHighlighting(
				highlighting.WithFormatOptions(
					chromahtml.WithClasses(true),
				),
			),
		),
		goldmark.WithParserOptions(
			parser.WithAutoHeadingID(),
		),
		goldmark.WithRendererOptions(
			html.WithXHTML(),
		),
	)
}

// goldmarkRun converts the input file and writes a standalone HTML5
// document to the output path. Goldmark has no native context support,
// so the conversion runs on a goroutine and the select observes ctx.
func goldmarkRun(ctx context.Context, md goldmark.Markdown, job Job) error {
	// Fast path: check context before starting.
	if err := ctx.Err(); err != nil {
		return err
	}

	source, err := os.ReadFile(job.InputPath) // #nosec G304 -- caller-provided input path
	if err != nil {
		return fmt.Errorf("reading input: %w", err)
	}

	type outcome struct {
		html []byte
		err  error
	}
	done := make(chan outcome, 1)
	go func() {
		var buf bytes.Buffer
		err := md.Convert(source, &buf)
		done <- outcome{html: buf.Bytes(), err: err}
	}()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case out := <-done:
		if out.err != nil {
			return fmt.Errorf("rendering markdown: %w", out.err)
		}
		doc := fmt.Sprintf(htmlShell, out.html)
		if err := os.WriteFile(job.OutputPath, []byte(doc), 0o644); err != nil { // #nosec G306 -- HTML output is meant to be readable
			return fmt.Errorf("writing output: %w", err)
		}
		return nil
	}
}
