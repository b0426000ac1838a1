// Package export ties the transformers to the renderers: it picks the document
// shape for a target, checks the requested format and theme, and renders through a
// scoped rendering.Adapter.
package export

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/jonathan/resume-exporter/internal/rendering"
	"github.com/jonathan/resume-exporter/internal/transform"
)

var (
	// ErrUnsupportedTarget is returned for an unknown export target
	ErrUnsupportedTarget = errors.New("unsupported target")
	// ErrUnsupportedFormat is returned when a target cannot produce the requested format
	ErrUnsupportedFormat = errors.New("unsupported format")
)

// Target names a document schema and the renderer that consumes it
type Target string

// Export targets
const (
	TargetJSONResume Target = "jsonresume"
	TargetRenderCV   Target = "rendercv"
	TargetTypst      Target = "typst"
	TargetMarkdown   Target = "markdown"
)

// JSONResumeThemes are the resume-cli themes offered, default first
var JSONResumeThemes = []string{"even", "elegant", "kendall"}

// MarkdownThemes holds the single built-in HTML page style
var MarkdownThemes = []string{"default"}

// TargetInfo describes what one target can produce
type TargetInfo struct {
	Target    Target             `json:"target"`
	Themes    []string           `json:"themes"`
	Formats   []rendering.Format `json:"formats"`
	InputName string             `json:"-"`
}

// DefaultTheme is the theme used when a request leaves it empty.
func (i TargetInfo) DefaultTheme() string {
	return i.Themes[0]
}

// Supports reports whether the target can produce format.
func (i TargetInfo) Supports(format rendering.Format) bool {
	return slices.Contains(i.Formats, format)
}

var catalogue = []TargetInfo{
	{
		Target:    TargetJSONResume,
		Themes:    JSONResumeThemes,
		Formats:   []rendering.Format{rendering.FormatPDF, rendering.FormatHTML},
		InputName: "resume.json",
	},
	{
		Target:    TargetRenderCV,
		Themes:    transform.RenderCVThemes,
		Formats:   []rendering.Format{rendering.FormatPDF, rendering.FormatHTML},
		InputName: "resume.yaml",
	},
	{
		Target:    TargetTypst,
		Themes:    rendering.TypstTemplates,
		Formats:   []rendering.Format{rendering.FormatPDF},
		InputName: "resume.typ",
	},
	{
		Target:    TargetMarkdown,
		Themes:    MarkdownThemes,
		Formats:   []rendering.Format{rendering.FormatMarkdown, rendering.FormatHTML, rendering.FormatPDF},
		InputName: "resume.md",
	},
}

// Catalogue lists every target with its themes and formats.
func Catalogue() []TargetInfo {
	out := make([]TargetInfo, len(catalogue))
	for i, info := range catalogue {
		info.Themes = slices.Clone(info.Themes)
		info.Formats = slices.Clone(info.Formats)
		out[i] = info
	}
	return out
}

// Lookup returns the catalogue entry for target.
func Lookup(target Target) (TargetInfo, error) {
	for _, info := range catalogue {
		if info.Target == target {
			return info, nil
		}
	}
	names := make([]string, len(catalogue))
	for i, info := range catalogue {
		names[i] = string(info.Target)
	}
	return TargetInfo{}, fmt.Errorf("%w: %q (expected one of %s)", ErrUnsupportedTarget, target, strings.Join(names, ", "))
}

// ParseTarget validates a target name.
func ParseTarget(s string) (Target, error) {
	info, err := Lookup(Target(strings.ToLower(strings.TrimSpace(s))))
	if err != nil {
		return "", err
	}
	return info.Target, nil
}

// resolveTheme applies the default theme and rejects themes the target lacks.
func (i TargetInfo) resolveTheme(theme string) (string, error) {
	if theme == "" {
		return i.DefaultTheme(), nil
	}
	if !slices.Contains(i.Themes, theme) {
		return "", fmt.Errorf("%w: %q is not a %s theme (available: %s)", transform.ErrUnsupportedTheme, theme, i.Target, strings.Join(i.Themes, ", "))
	}
	return theme, nil
}
