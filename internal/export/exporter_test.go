package export

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/jonathan/resume-exporter/internal/config"
	"github.com/jonathan/resume-exporter/internal/observability"
	"github.com/jonathan/resume-exporter/internal/rendering"
	"github.com/jonathan/resume-exporter/internal/transform"
	"github.com/jonathan/resume-exporter/internal/types"
)

var fixedNow = func() time.Time { return time.Date(2024, 3, 15, 10, 30, 0, 0, time.UTC) }

// recordingInvoker echoes the input file back and records every call
type recordingInvoker struct {
	mu      sync.Mutex
	calls   []call
	fail    map[Target]error
	active  *atomic.Int32
	maxSeen *atomic.Int32
	delay   time.Duration
}

type call struct {
	target Target
	theme  string
	format rendering.Format
	input  string
	dir    string
}

type boundInvoker struct {
	rec    *recordingInvoker
	target Target
	theme  string
}

func (b *boundInvoker) Name() string { return "fake-" + string(b.target) }

func (b *boundInvoker) Invoke(_ context.Context, inputPath string, format rendering.Format) ([]byte, error) {
	rec := b.rec
	if rec.active != nil {
		n := rec.active.Add(1)
		defer rec.active.Add(-1)
		for {
			m := rec.maxSeen.Load()
			if n <= m || rec.maxSeen.CompareAndSwap(m, n) {
				break
			}
		}
	}
	if rec.delay > 0 {
		time.Sleep(rec.delay)
	}

	data, err := os.ReadFile(inputPath)
	if err != nil {
		return nil, err
	}
	rec.mu.Lock()
	rec.calls = append(rec.calls, call{
		target: b.target, theme: b.theme, format: format,
		input: filepath.Base(inputPath), dir: filepath.Dir(inputPath),
	})
	rec.mu.Unlock()

	if err := rec.fail[b.target]; err != nil {
		return nil, err
	}
	return append([]byte(string(format)+":"), data...), nil
}

func (rec *recordingInvoker) factory(target Target, theme string) rendering.Invoker {
	return &boundInvoker{rec: rec, target: target, theme: theme}
}

func newTestExporter(t *testing.T, rec *recordingInvoker) (*Exporter, *prometheus.Registry, *test.Hook) {
	t.Helper()
	logger, hook := test.NewNullLogger()
	logger.SetLevel(logrus.DebugLevel)
	reg := prometheus.NewRegistry()

	cfg := config.RenderConfig{Timeout: 5 * time.Second, Concurrency: 2}
	e := New(cfg, logger, observability.NewMetrics(reg))
	e.Now = fixedNow
	e.Invokers = rec.factory
	return e, reg, hook
}

func sampleResume() *types.Resume {
	return &types.Resume{
		Contact: types.Contact{
			Name:     "Ada Lovelace",
			Title:    "Software Engineer",
			Email:    "ada@example.com",
			Phone:    "+1 555 010 0000",
			Location: "London",
			GitHub:   "github.com/ada",
		},
		Summary: types.Summary{Sentences: []string{"Builds analytical engines."}},
		Experience: []types.Experience{{
			Position:        "Engineer",
			Company:         "Analytical Co",
			Duration:        "Jan 2020 - Present",
			RoleSummaries:   []string{"Led the compiler team."},
			Accomplishments: []string{"Shipped the first program"},
		}},
		Skills: types.Skills{types.SkillProgramming: {"Go", "Python"}},
		Education: []types.Education{{
			Degree: "BSc", Specialization: "Mathematics", Institution: "University of London", Graduation: "2019",
		}},
	}
}

func TestCatalogue(t *testing.T) {
	cat := Catalogue()
	require.Len(t, cat, 4)

	want := map[Target][]rendering.Format{
		TargetJSONResume: {rendering.FormatPDF, rendering.FormatHTML},
		TargetRenderCV:   {rendering.FormatPDF, rendering.FormatHTML},
		TargetTypst:      {rendering.FormatPDF},
		TargetMarkdown:   {rendering.FormatMarkdown, rendering.FormatHTML, rendering.FormatPDF},
	}
	for _, info := range cat {
		assert.Equal(t, want[info.Target], info.Formats, info.Target)
		assert.NotEmpty(t, info.Themes, info.Target)
	}

	cat[0].Themes[0] = "mutated"
	assert.Equal(t, "even", Catalogue()[0].Themes[0], "catalogue must hand out copies")
}

func TestParseTarget(t *testing.T) {
	got, err := ParseTarget(" RenderCV ")
	require.NoError(t, err)
	assert.Equal(t, TargetRenderCV, got)

	_, err = ParseTarget("latex")
	assert.ErrorIs(t, err, ErrUnsupportedTarget)
}

func TestTransform_AllTargets(t *testing.T) {
	e, _, _ := newTestExporter(t, &recordingInvoker{})
	r := sampleResume()

	out, err := e.Transform(r, TargetJSONResume, "")
	require.NoError(t, err)
	var doc transform.JSONResume
	require.NoError(t, json.Unmarshal(out, &doc))
	assert.Equal(t, "Ada Lovelace", doc.Basics.Name)
	assert.Equal(t, "2024-03-15T10:30:00", doc.Meta.LastModified)

	out, err = e.Transform(r, TargetRenderCV, "sb2nov")
	require.NoError(t, err)
	var rcv map[string]any
	require.NoError(t, yaml.Unmarshal(out, &rcv))
	assert.Equal(t, "sb2nov", rcv["design"].(map[string]any)["theme"])

	out, err = e.Transform(r, TargetTypst, "basic-resume")
	require.NoError(t, err)
	assert.Contains(t, string(out), "@preview/basic-resume")

	out, err = e.Transform(r, TargetMarkdown, "")
	require.NoError(t, err)
	assert.Contains(t, string(out), "# Ada Lovelace")
}

func TestTransform_ValidJSONResumeLogsNoSchemaWarning(t *testing.T) {
	e, _, hook := newTestExporter(t, &recordingInvoker{})

	_, err := e.Transform(sampleResume(), TargetJSONResume, "")
	require.NoError(t, err)
	for _, entry := range hook.AllEntries() {
		assert.NotContains(t, entry.Message, "bundled schema")
	}
}

func TestTransform_UnsupportedTheme(t *testing.T) {
	e, _, _ := newTestExporter(t, &recordingInvoker{})

	for _, target := range []Target{TargetJSONResume, TargetRenderCV, TargetTypst, TargetMarkdown} {
		_, err := e.Transform(sampleResume(), target, "no-such-theme")
		assert.ErrorIs(t, err, transform.ErrUnsupportedTheme, target)
	}
}

func TestExport_RendersThroughInvoker(t *testing.T) {
	rec := &recordingInvoker{}
	e, reg, _ := newTestExporter(t, rec)

	out, err := e.Export(context.Background(), sampleResume(), Request{Target: TargetTypst, Format: rendering.FormatPDF})
	require.NoError(t, err)
	assert.Contains(t, string(out), "pdf:")
	assert.Contains(t, string(out), "modern-cv")

	require.Len(t, rec.calls, 1)
	assert.Equal(t, "resume.typ", rec.calls[0].input)
	assert.Equal(t, "modern-cv", rec.calls[0].theme)

	_, statErr := os.Stat(rec.calls[0].dir)
	assert.True(t, os.IsNotExist(statErr), "work directory should be removed")

	count, err := testutil.GatherAndCount(reg, "resume_exporter_renders_total")
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestExport_JSONResumeThemeReachesInvoker(t *testing.T) {
	rec := &recordingInvoker{}
	e, _, _ := newTestExporter(t, rec)

	_, err := e.Export(context.Background(), sampleResume(), Request{Target: TargetJSONResume, Format: rendering.FormatHTML, Theme: "kendall"})
	require.NoError(t, err)
	require.Len(t, rec.calls, 1)
	assert.Equal(t, "kendall", rec.calls[0].theme)
	assert.Equal(t, "resume.json", rec.calls[0].input)
}

func TestExport_MarkdownSkipsRenderer(t *testing.T) {
	rec := &recordingInvoker{}
	e, _, _ := newTestExporter(t, rec)

	out, err := e.Export(context.Background(), sampleResume(), Request{Target: TargetMarkdown, Format: rendering.FormatMarkdown})
	require.NoError(t, err)
	assert.Contains(t, string(out), "## Professional Experience")
	assert.Empty(t, rec.calls)
}

func TestExport_UnsupportedCombinations(t *testing.T) {
	e, _, _ := newTestExporter(t, &recordingInvoker{})
	r := sampleResume()

	_, err := e.Export(context.Background(), r, Request{Target: TargetTypst, Format: rendering.FormatHTML})
	assert.ErrorIs(t, err, ErrUnsupportedFormat)

	_, err = e.Export(context.Background(), r, Request{Target: TargetRenderCV, Format: rendering.FormatMarkdown})
	assert.ErrorIs(t, err, ErrUnsupportedFormat)

	_, err = e.Export(context.Background(), r, Request{Target: "docx", Format: rendering.FormatPDF})
	assert.ErrorIs(t, err, ErrUnsupportedTarget)
}

func TestExport_FailureIsCounted(t *testing.T) {
	rec := &recordingInvoker{fail: map[Target]error{
		TargetRenderCV: &rendering.ProcessError{Tool: "rendercv", ExitCode: 1, Stderr: "bad yaml"},
	}}
	e, reg, _ := newTestExporter(t, rec)

	_, err := e.Export(context.Background(), sampleResume(), Request{Target: TargetRenderCV, Format: rendering.FormatPDF})
	require.Error(t, err)
	assert.ErrorIs(t, err, rendering.ErrRenderFailed)

	expected := `
# HELP resume_exporter_renders_total Renders attempted, by target, format and outcome.
# TYPE resume_exporter_renders_total counter
resume_exporter_renders_total{format="pdf",outcome="failure",target="rendercv"} 1
`
	assert.NoError(t, testutil.GatherAndCompare(reg, strings.NewReader(expected), "resume_exporter_renders_total"))
}

func TestExportMany_IndependentResults(t *testing.T) {
	rec := &recordingInvoker{fail: map[Target]error{
		TargetJSONResume: &rendering.MissingToolError{Tool: "resume-cli"},
	}}
	e, _, _ := newTestExporter(t, rec)

	reqs := AllRequests()
	results := e.ExportMany(context.Background(), sampleResume(), reqs)
	require.Len(t, results, len(reqs))

	dirs := map[string]bool{}
	for i, res := range results {
		assert.Equal(t, reqs[i], res.Request, "results keep request order")
		if res.Request.Target == TargetJSONResume {
			assert.ErrorIs(t, res.Err, rendering.ErrToolMissing)
			continue
		}
		assert.NoError(t, res.Err, res.Request)
		assert.NotEmpty(t, res.Output)
	}
	for _, c := range rec.calls {
		assert.False(t, dirs[c.dir], "each render gets its own directory")
		dirs[c.dir] = true
	}
	// markdown/markdown bypasses the renderer
	assert.Len(t, rec.calls, len(reqs)-1)
}

func TestExportMany_RespectsConcurrencyLimit(t *testing.T) {
	rec := &recordingInvoker{
		active:  &atomic.Int32{},
		maxSeen: &atomic.Int32{},
		delay:   20 * time.Millisecond,
	}
	e, _, _ := newTestExporter(t, rec)
	e.Render.Concurrency = 2

	reqs := make([]Request, 6)
	for i := range reqs {
		reqs[i] = Request{Target: TargetTypst, Format: rendering.FormatPDF}
	}
	results := e.ExportMany(context.Background(), sampleResume(), reqs)

	for _, res := range results {
		require.NoError(t, res.Err)
	}
	assert.LessOrEqual(t, rec.maxSeen.Load(), int32(2))
}

func TestExport_DoesNotMutateResume(t *testing.T) {
	e, _, _ := newTestExporter(t, &recordingInvoker{})
	r := sampleResume()
	before := r.Clone()

	e.ExportMany(context.Background(), r, AllRequests())
	assert.Equal(t, before, r)
}

func TestExport_CancelledContext(t *testing.T) {
	e, _, _ := newTestExporter(t, &recordingInvoker{})
	e.Invokers = func(Target, string) rendering.Invoker { return blockingInvoker{} }

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := e.Export(ctx, sampleResume(), Request{Target: TargetTypst, Format: rendering.FormatPDF})
	var timeout *rendering.TimeoutError
	assert.True(t, errors.As(err, &timeout))
}

type blockingInvoker struct{}

func (blockingInvoker) Name() string { return "blocking" }

func (blockingInvoker) Invoke(ctx context.Context, _ string, _ rendering.Format) ([]byte, error) {
	<-ctx.Done()
	return nil, ctx.Err()
}
