package transform

import (
	"strings"

	"github.com/jonathan/resume-exporter/internal/selection"
	"github.com/jonathan/resume-exporter/internal/types"
)

// Bullet prefixes every list line in the markdown document
const Bullet = "• "

// ToMarkdown renders the resume as a flat markdown document. Sections appear in a
// fixed order and sections without content are left out, header included.
func ToMarkdown(r *types.Resume, _ Options) string {
	var doc strings.Builder
	doc.Grow(2048)

	writeMarkdownHeader(&doc, r.Contact)

	if summary := nonBlank(selection.SummarySentences(r.Summary)); len(summary) > 0 {
		section(&doc, "Summary")
		doc.WriteString(strings.Join(summary, " "))
		doc.WriteString("\n")
	}

	if len(r.Experience) > 0 {
		section(&doc, "Professional Experience")
		for i, exp := range r.Experience {
			if i > 0 {
				doc.WriteString("\n")
			}
			entryHeader(&doc, exp.Position, exp.Company, exp.Duration)
			if role := selection.RoleSummary(exp); strings.TrimSpace(role) != "" {
				doc.WriteString(role + "\n")
			}
			writeBullets(&doc, selection.Accomplishments(exp))
		}
	}

	if groups := selection.SkillGroups(r.Skills); len(groups) > 0 {
		section(&doc, "Skills")
		for _, g := range groups {
			doc.WriteString("**" + g.Label + ":** " + strings.Join(g.Skills, ", ") + "\n")
		}
	}

	if len(r.Projects) > 0 {
		section(&doc, "Projects")
		for i, proj := range r.Projects {
			if i > 0 {
				doc.WriteString("\n")
			}
			entryHeader(&doc, proj.Name, proj.URL)
			if desc := selection.ProjectDescription(proj); strings.TrimSpace(desc) != "" {
				doc.WriteString(desc + "\n")
			}
			if len(proj.Technologies) > 0 {
				doc.WriteString("**Technologies:** " + strings.Join(proj.Technologies, ", ") + "\n")
			}
			writeBullets(&doc, proj.Achievements)
		}
	}

	if len(r.Education) > 0 {
		section(&doc, "Education")
		for i, edu := range r.Education {
			if i > 0 {
				doc.WriteString("\n")
			}
			degree := edu.Degree
			if edu.Specialization != "" {
				degree = joinNonEmpty(" in ", edu.Degree, edu.Specialization)
			}
			entryHeader(&doc, degree, edu.Institution, edu.Graduation)
			writeBullets(&doc, edu.Details)
		}
	}

	if certs := certificationLines(r.Certifications); len(certs) > 0 {
		section(&doc, "Certifications")
		writeBullets(&doc, certs)
	}

	if achievements := nonBlank(r.Achievements); len(achievements) > 0 {
		section(&doc, "Achievements")
		writeBullets(&doc, achievements)
	}

	return doc.String()
}

func writeMarkdownHeader(doc *strings.Builder, c types.Contact) {
	if c.Name != "" {
		doc.WriteString("# " + c.Name + "\n")
	}
	if c.Title != "" {
		doc.WriteString("**" + c.Title + "**\n")
	}
	if line := joinNonEmpty(" | ", c.Email, c.Phone, c.Location, c.LinkedIn, c.GitHub, c.Website); line != "" {
		doc.WriteString(line + "\n")
	}
}

// section writes a level two header preceded by a blank line.
func section(doc *strings.Builder, title string) {
	if doc.Len() > 0 {
		doc.WriteString("\n")
	}
	doc.WriteString("## " + title + "\n\n")
}

// entryHeader writes a level three header joining the non-blank parts. Nothing is
// written when every part is blank.
func entryHeader(doc *strings.Builder, parts ...string) {
	if title := joinNonEmpty(" | ", parts...); title != "" {
		doc.WriteString("### " + title + "\n")
	}
}

// certificationLines renders "name - issuer (date)" per certification, skipping
// certifications with neither a name nor an issuer.
func certificationLines(certs []types.Certification) []string {
	lines := make([]string, 0, len(certs))
	for _, cert := range certs {
		line := joinNonEmpty(" - ", cert.Name, cert.Issuer)
		if line == "" {
			continue
		}
		if date := strings.TrimSpace(cert.Date); date != "" {
			line += " (" + date + ")"
		}
		lines = append(lines, line)
	}
	return lines
}

func writeBullets(doc *strings.Builder, items []string) {
	for _, item := range items {
		if strings.TrimSpace(item) == "" {
			continue
		}
		doc.WriteString(Bullet + item + "\n")
	}
}

func joinNonEmpty(sep string, parts ...string) string {
	kept := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, sep)
}
