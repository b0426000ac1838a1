package export

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/jonathan/resume-exporter/internal/config"
	"github.com/jonathan/resume-exporter/internal/observability"
	"github.com/jonathan/resume-exporter/internal/rendering"
	"github.com/jonathan/resume-exporter/internal/schemas"
	"github.com/jonathan/resume-exporter/internal/transform"
	"github.com/jonathan/resume-exporter/internal/types"
)

// Request selects one rendered output
type Request struct {
	Target Target           `json:"target"`
	Format rendering.Format `json:"format"`
	Theme  string           `json:"theme,omitempty"`
}

// Result is the outcome of one Request in a batch
type Result struct {
	Request  Request
	Output   []byte
	Duration time.Duration
	Err      error
}

// InvokerFactory builds the renderer for a target and resolved theme
type InvokerFactory func(target Target, theme string) rendering.Invoker

// Exporter transforms and renders resumes. It holds no per-request state and is
// safe for concurrent use.
type Exporter struct {
	Render  config.RenderConfig
	Logger  logrus.FieldLogger
	Metrics *observability.Metrics
	// Now feeds generation dates into RenderCV and JSON Resume. Defaults to time.Now.
	Now func() time.Time
	// Invokers overrides renderer construction. Defaults to the installed tools.
	Invokers InvokerFactory
}

// New creates an exporter for the given render settings. logger and metrics may be nil.
func New(cfg config.RenderConfig, logger logrus.FieldLogger, metrics *observability.Metrics) *Exporter {
	if logger == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		logger = l
	}
	e := &Exporter{Render: cfg, Logger: logger, Metrics: metrics}
	e.Invokers = e.defaultInvoker
	return e
}

func (e *Exporter) defaultInvoker(target Target, theme string) rendering.Invoker {
	switch target {
	case TargetJSONResume:
		return rendering.NewResumeCLIInvoker(e.Render.ResumeCLIBin, theme)
	case TargetRenderCV:
		return rendering.NewRenderCVInvoker(e.Render.RenderCVBin)
	case TargetTypst:
		return rendering.NewTypstInvoker(e.Render.TypstBin)
	default:
		return rendering.NewChromeInvoker(e.Render.ChromePath)
	}
}

func (e *Exporter) options(target Target, theme string) transform.Options {
	return transform.Options{
		Logger: e.Logger.WithField("target", target),
		Now:    e.Now,
		Theme:  theme,
	}
}

// Transform produces the document source for target: JSON Resume JSON, RenderCV
// YAML, Typst or Markdown. An empty theme selects the target's default.
func (e *Exporter) Transform(r *types.Resume, target Target, theme string) ([]byte, error) {
	info, err := Lookup(target)
	if err != nil {
		return nil, err
	}
	theme, err = info.resolveTheme(theme)
	if err != nil {
		return nil, err
	}
	return e.transform(r, info, theme)
}

func (e *Exporter) transform(r *types.Resume, info TargetInfo, theme string) ([]byte, error) {
	opts := e.options(info.Target, theme)

	switch info.Target {
	case TargetJSONResume:
		doc := transform.ToJSONResume(r, opts)
		if err := schemas.ValidateJSONResume(doc); err != nil {
			opts.Logger.WithError(err).Warn("JSON Resume output does not match the bundled schema")
		}
		out, err := json.MarshalIndent(doc, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("failed to marshal JSON Resume: %w", err)
		}
		return out, nil

	case TargetRenderCV:
		doc, err := transform.ToRenderCV(r, opts)
		if err != nil {
			return nil, err
		}
		return doc.Bytes()

	case TargetTypst:
		src, err := transform.ToTypst(r, opts)
		if err != nil {
			return nil, err
		}
		return []byte(src), nil

	default:
		return []byte(transform.ToMarkdown(r, opts)), nil
	}
}

// Export transforms the resume for req.Target and renders it to req.Format.
// Markdown requested as markdown is returned without invoking a renderer.
func (e *Exporter) Export(ctx context.Context, r *types.Resume, req Request) ([]byte, error) {
	info, err := Lookup(req.Target)
	if err != nil {
		return nil, err
	}
	if !info.Supports(req.Format) {
		return nil, fmt.Errorf("%w: %s cannot produce %q (supported: %v)", ErrUnsupportedFormat, req.Target, req.Format, info.Formats)
	}
	theme, err := info.resolveTheme(req.Theme)
	if err != nil {
		return nil, err
	}

	source, err := e.transform(r, info, theme)
	if err != nil {
		return nil, err
	}

	started := time.Now()
	var out []byte
	if info.Target == TargetMarkdown && req.Format == rendering.FormatMarkdown {
		out = source
	} else {
		adapter := rendering.NewAdapter(
			e.Invokers(info.Target, theme),
			info.InputName,
			e.Render.Timeout,
			e.Logger.WithFields(logrus.Fields{"target": info.Target, "theme": theme}),
		)
		out, err = adapter.Render(ctx, source, req.Format)
	}
	e.Metrics.ObserveRender(string(info.Target), string(req.Format), time.Since(started), err)
	if err != nil {
		return nil, err
	}
	return out, nil
}

// ExportMany renders every request, at most Render.Concurrency at a time. Each
// request gets its own working directory. A failed request does not cancel the
// others; its error is reported in its Result. Results are in request order.
func (e *Exporter) ExportMany(ctx context.Context, r *types.Resume, reqs []Request) []Result {
	results := make([]Result, len(reqs))

	var g errgroup.Group
	limit := e.Render.Concurrency
	if limit < 1 {
		limit = 1
	}
	g.SetLimit(limit)

	for i, req := range reqs {
		g.Go(func() error {
			started := time.Now()
			out, err := e.Export(ctx, r, req)
			results[i] = Result{Request: req, Output: out, Duration: time.Since(started), Err: err}
			return nil
		})
	}
	_ = g.Wait()

	return results
}

// AllRequests returns one request per supported target and format, using default
// themes.
func AllRequests() []Request {
	var reqs []Request
	for _, info := range catalogue {
		for _, f := range info.Formats {
			reqs = append(reqs, Request{Target: info.Target, Format: f})
		}
	}
	return reqs
}
