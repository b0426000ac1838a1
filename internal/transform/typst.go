package transform

import (
	"fmt"
	"slices"
	"strings"

	"github.com/jonathan/resume-exporter/internal/rendering"
	"github.com/jonathan/resume-exporter/internal/selection"
	"github.com/jonathan/resume-exporter/internal/types"
)

// ToTypst renders the resume as Typst source using the template named by
// opts.Theme (modern-cv by default). Every free-text value is escaped into a
// string literal; the source is not compiled here.
func ToTypst(r *types.Resume, opts Options) (string, error) {
	template := opts.Theme
	if template == "" {
		template = rendering.TypstTemplates[0]
	}
	if !slices.Contains(rendering.TypstTemplates, template) {
		return "", fmt.Errorf("%w: %q is not a typst template (available: %s)", ErrUnsupportedTheme, template, strings.Join(rendering.TypstTemplates, ", "))
	}
	return rendering.RenderTypst(TypstDocument(r), template)
}

// TypstDocument resolves the resume into the unescaped template input.
func TypstDocument(r *types.Resume) *rendering.TypstDocument {
	c := r.Contact
	first, last := splitName(c.Name)
	doc := &rendering.TypstDocument{
		Name:        c.Name,
		FirstName:   first,
		LastName:    last,
		Title:       c.Title,
		Email:       c.Email,
		Phone:       c.Phone,
		Location:    c.Location,
		LinkedIn:    socialUsername(c.LinkedIn, linkedInPrefix),
		LinkedInURL: profileURL(c.LinkedIn, linkedInPrefix),
		GitHub:      socialUsername(c.GitHub, gitHubPrefix),
		GitHubURL:   profileURL(c.GitHub, gitHubPrefix),
		Website:     c.Website,
		Summary:     strings.Join(nonBlank(selection.SummarySentences(r.Summary)), " "),
	}

	for _, exp := range r.Experience {
		doc.Experience = append(doc.Experience, rendering.TypstEntry{
			Title:    exp.Position,
			Subtitle: exp.Company,
			Location: exp.Location,
			Date:     exp.Duration,
			Summary:  selection.RoleSummary(exp),
			Bullets:  nonBlank(selection.Accomplishments(exp)),
		})
	}

	for _, g := range selection.SkillGroups(r.Skills) {
		doc.Skills = append(doc.Skills, rendering.TypstSkillGroup{Label: g.Label, Skills: g.Skills})
	}

	for _, proj := range r.Projects {
		doc.Projects = append(doc.Projects, rendering.TypstEntry{
			Title:    proj.Name,
			Subtitle: strings.Join(proj.Technologies, ", "),
			URL:      proj.URL,
			Summary:  selection.ProjectDescription(proj),
			Bullets:  nonBlank(proj.Achievements),
		})
	}

	for _, edu := range r.Education {
		degree := edu.Degree
		if edu.Specialization != "" {
			degree = joinNonEmpty(" in ", edu.Degree, edu.Specialization)
		}
		doc.Education = append(doc.Education, rendering.TypstEntry{
			Title:    degree,
			Subtitle: edu.Institution,
			Location: edu.Location,
			Date:     edu.Graduation,
			Bullets:  nonBlank(edu.Details),
		})
	}

	for _, cert := range r.Certifications {
		doc.Certifications = append(doc.Certifications, rendering.TypstEntry{
			Title:    cert.Name,
			Subtitle: cert.Issuer,
			Date:     cert.Date,
		})
	}

	doc.Achievements = nonBlank(r.Achievements)
	return doc
}
