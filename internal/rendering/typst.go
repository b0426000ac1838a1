package rendering

import (
	"fmt"
	"slices"
	"strings"
	"text/template"
)

// Typst template names
const (
	TypstModernCV    = "modern-cv"
	TypstBasicResume = "basic-resume"
)

// TypstTemplates lists the available Typst templates, default first
var TypstTemplates = []string{TypstModernCV, TypstBasicResume}

var typstTemplates = template.Must(
	template.New("typst").Funcs(template.FuncMap{
		"escape": EscapeTypst,
		"join":   strings.Join,
	}).ParseFS(templateFS, "templates/*.typ.tmpl"),
)

// TypstDocument is the resolved, unescaped content of a Typst resume. Every
// string is escaped by the template when it is written into a string literal.
type TypstDocument struct {
	Name        string
	FirstName   string
	LastName    string
	Title       string
	Email       string
	Phone       string
	Location    string
	LinkedIn    string // username
	LinkedInURL string
	GitHub      string // username
	GitHubURL   string
	Website     string

	Summary        string
	Experience     []TypstEntry
	Skills         []TypstSkillGroup
	Projects       []TypstEntry
	Education      []TypstEntry
	Certifications []TypstEntry
	Achievements   []string
}

// TypstEntry is one dated block with optional bullets
type TypstEntry struct {
	Title    string
	Subtitle string
	Location string
	Date     string
	URL      string
	Summary  string
	Bullets  []string
}

// TypstSkillGroup is one labelled skill list
type TypstSkillGroup struct {
	Label  string
	Skills []string
}

// RenderTypst executes the named template against doc and returns Typst source.
// The source is not compiled or checked here.
func RenderTypst(doc *TypstDocument, templateName string) (string, error) {
	if !slices.Contains(TypstTemplates, templateName) {
		return "", &TemplateError{Message: fmt.Sprintf("unknown typst template: %s", templateName)}
	}

	var result strings.Builder
	if err := typstTemplates.ExecuteTemplate(&result, templateName+".typ.tmpl", doc); err != nil {
		return "", &TemplateError{
			Message: "failed to execute template",
			Cause:   err,
		}
	}
	return result.String(), nil
}
