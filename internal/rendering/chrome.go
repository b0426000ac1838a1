package rendering

import (
	"bytes"
	"context"
	"embed"
	"fmt"
	"html/template"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	gmhtml "github.com/yuin/goldmark/renderer/html"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

var pageTemplate = template.Must(template.ParseFS(templateFS, "templates/page.html.tmpl"))

// chromeCandidates are the executable names tried when no explicit path is set
var chromeCandidates = []string{"google-chrome", "google-chrome-stable", "chromium", "chromium-browser", "headless-shell"}

// ChromeInvoker renders a markdown document to HTML with goldmark and prints the
// HTML to PDF with headless Chrome.
type ChromeInvoker struct {
	// ExecPath overrides the Chrome executable. Falls back to CHROME_PATH.
	ExecPath string
}

// NewChromeInvoker creates a markdown renderer.
func NewChromeInvoker(execPath string) *ChromeInvoker {
	return &ChromeInvoker{ExecPath: execPath}
}

// Name returns the tool name.
func (c *ChromeInvoker) Name() string {
	return "chrome"
}

// Available checks Chrome is installed. HTML output needs no browser.
func (c *ChromeInvoker) Available(format Format) error {
	if format != FormatPDF {
		return nil
	}
	if _, err := c.execPath(); err != nil {
		return &MissingToolError{
			Tool:  "chrome",
			Hint:  "Install Chrome or Chromium, or set CHROME_PATH",
			Cause: err,
		}
	}
	return nil
}

// Invoke converts the markdown at inputPath. HTML is returned directly; PDF is
// printed from the HTML written next to the input.
func (c *ChromeInvoker) Invoke(ctx context.Context, inputPath string, format Format) ([]byte, error) {
	source, err := os.ReadFile(inputPath)
	if err != nil {
		return nil, &RenderError{Message: "failed to read markdown input", Cause: err}
	}

	switch format {
	case FormatMarkdown:
		return source, nil
	case FormatHTML:
		return MarkdownToHTML(source)
	case FormatPDF:
	default:
		return nil, &RenderError{Message: fmt.Sprintf("chrome cannot produce %s output", format)}
	}

	html, err := MarkdownToHTML(source)
	if err != nil {
		return nil, err
	}
	htmlPath := filepath.Join(filepath.Dir(inputPath), "resume.html")
	if err := os.WriteFile(htmlPath, html, 0o644); err != nil {
		return nil, &RenderError{Message: "failed to write HTML page", Cause: err}
	}

	return c.printPDF(ctx, htmlPath)
}

func (c *ChromeInvoker) printPDF(ctx context.Context, htmlPath string) ([]byte, error) {
	path, err := c.execPath()
	if err != nil {
		return nil, &MissingToolError{Tool: "chrome", Cause: err}
	}

	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.ExecPath(path),
		chromedp.Flag("headless", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("disable-dev-shm-usage", true),
	)

	allocCtx, cancel := chromedp.NewExecAllocator(ctx, opts...)
	defer cancel()

	browserCtx, cancel := chromedp.NewContext(allocCtx)
	defer cancel()

	var pdf []byte
	err = chromedp.Run(browserCtx,
		chromedp.Navigate("file://"+htmlPath),
		chromedp.WaitReady("body", chromedp.ByQuery),
		chromedp.ActionFunc(func(ctx context.Context) error {
			var err error
			// US letter: 8.5in x 11in
			pdf, _, err = page.PrintToPDF().
				WithPrintBackground(true).
				WithPaperWidth(8.5).
				WithPaperHeight(11).
				WithPreferCSSPageSize(true).
				Do(ctx)
			return err
		}),
	)
	if err != nil {
		return nil, &ProcessError{Tool: "chrome", ExitCode: -1, Stderr: err.Error(), Cause: err}
	}
	if len(pdf) == 0 {
		return nil, &OutputMissingError{Tool: "chrome", Expected: string(FormatPDF), Produced: listFiles(filepath.Dir(htmlPath))}
	}
	return pdf, nil
}

func (c *ChromeInvoker) execPath() (string, error) {
	if c.ExecPath != "" {
		return exec.LookPath(c.ExecPath)
	}
	if p := os.Getenv("CHROME_PATH"); p != "" {
		return exec.LookPath(p)
	}
	var lastErr error
	for _, name := range chromeCandidates {
		p, err := exec.LookPath(name)
		if err == nil {
			return p, nil
		}
		lastErr = err
	}
	return "", lastErr
}

// MarkdownToHTML renders markdown into a standalone HTML page. Raw HTML in the
// markdown is dropped and line breaks are kept.
func MarkdownToHTML(source []byte) ([]byte, error) {
	md := goldmark.New(
		goldmark.WithExtensions(extension.Linkify),
		goldmark.WithRendererOptions(gmhtml.WithHardWraps()),
	)

	var body bytes.Buffer
	if err := md.Convert(source, &body); err != nil {
		return nil, &RenderError{Message: "failed to convert markdown", Cause: err}
	}

	var out bytes.Buffer
	data := struct {
		Title string
		Body  template.HTML
	}{
		Title: documentTitle(source),
		Body:  template.HTML(body.String()), //nolint:gosec // goldmark omits raw HTML without WithUnsafe
	}
	if err := pageTemplate.Execute(&out, data); err != nil {
		return nil, &TemplateError{Message: "failed to execute page template", Cause: err}
	}
	return out.Bytes(), nil
}

// documentTitle returns the text of the first "# " heading, or "Resume".
func documentTitle(source []byte) string {
	for _, line := range bytes.Split(source, []byte("\n")) {
		if t, ok := bytes.CutPrefix(bytes.TrimSpace(line), []byte("# ")); ok {
			return string(bytes.TrimSpace(t))
		}
	}
	return "Resume"
}
