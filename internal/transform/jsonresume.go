package transform

import (
	"regexp"
	"strings"

	"github.com/jonathan/resume-exporter/internal/dates"
	"github.com/jonathan/resume-exporter/internal/selection"
	"github.com/jonathan/resume-exporter/internal/types"
)

// JSONResumeSchemaURL is written into the $schema field of generated documents
const JSONResumeSchemaURL = "https://raw.githubusercontent.com/jsonresume/resume-schema/v1.0.0/schema.json"

// JSONResume is a document in the JSON Resume schema
type JSONResume struct {
	Schema       string            `json:"$schema,omitempty"`
	Basics       JSONBasics        `json:"basics"`
	Work         []JSONWork        `json:"work"`
	Education    []JSONEducation   `json:"education"`
	Skills       []JSONSkill       `json:"skills"`
	Projects     []JSONProject     `json:"projects"`
	Certificates []JSONCertificate `json:"certificates,omitempty"`
	Awards       []JSONAward       `json:"awards,omitempty"`
	Meta         JSONMeta          `json:"meta"`
}

// JSONBasics holds identity and contact details
type JSONBasics struct {
	Name     string        `json:"name,omitempty"`
	Label    string        `json:"label,omitempty"`
	Email    string        `json:"email,omitempty"`
	Phone    string        `json:"phone,omitempty"`
	URL      string        `json:"url,omitempty"`
	Summary  string        `json:"summary,omitempty"`
	Location *JSONLocation `json:"location,omitempty"`
	Profiles []JSONProfile `json:"profiles"`
}

// JSONLocation is a free-text address
type JSONLocation struct {
	Address string `json:"address,omitempty"`
}

// JSONProfile is a social network account
type JSONProfile struct {
	Network  string `json:"network"`
	Username string `json:"username"`
	URL      string `json:"url,omitempty"`
}

// JSONWork is one position
type JSONWork struct {
	Name       string   `json:"name,omitempty"`
	Position   string   `json:"position,omitempty"`
	Location   string   `json:"location,omitempty"`
	StartDate  string   `json:"startDate,omitempty"`
	EndDate    string   `json:"endDate,omitempty"`
	Summary    string   `json:"summary,omitempty"`
	Highlights []string `json:"highlights"`
}

// JSONEducation is one degree
type JSONEducation struct {
	Institution string   `json:"institution,omitempty"`
	Area        string   `json:"area,omitempty"`
	StudyType   string   `json:"studyType,omitempty"`
	StartDate   string   `json:"startDate,omitempty"`
	EndDate     string   `json:"endDate,omitempty"`
	Score       string   `json:"score,omitempty"`
	Courses     []string `json:"courses"`
}

// JSONSkill is one skill category
type JSONSkill struct {
	Name     string   `json:"name"`
	Keywords []string `json:"keywords"`
}

// JSONProject is one project
type JSONProject struct {
	Name        string   `json:"name,omitempty"`
	Description string   `json:"description,omitempty"`
	Highlights  []string `json:"highlights"`
	Keywords    []string `json:"keywords"`
	URL         string   `json:"url,omitempty"`
}

// JSONCertificate is one certification
type JSONCertificate struct {
	Name   string `json:"name"`
	Issuer string `json:"issuer,omitempty"`
	Date   string `json:"date,omitempty"`
}

// JSONAward is one achievement
type JSONAward struct {
	Title string `json:"title"`
}

// JSONMeta carries generation metadata
type JSONMeta struct {
	Version      string `json:"version"`
	LastModified string `json:"lastModified"`
}

var gpaPattern = regexp.MustCompile(`(?i)^\s*(?:cumulative\s+)?gpa\s*[:\-]?\s*(.+)$`)

// ToJSONResume maps the resume into the JSON Resume schema. meta.lastModified is
// the only value that depends on the clock.
func ToJSONResume(r *types.Resume, opts Options) *JSONResume {
	log := opts.logger().WithField("schema", "jsonresume")

	out := &JSONResume{
		Schema:    JSONResumeSchemaURL,
		Basics:    jsonBasics(r),
		Work:      make([]JSONWork, 0, len(r.Experience)),
		Education: make([]JSONEducation, 0, len(r.Education)),
		Skills:    []JSONSkill{},
		Projects:  make([]JSONProject, 0, len(r.Projects)),
		Meta: JSONMeta{
			Version:      "v1.0.0",
			LastModified: opts.now().UTC().Format("2006-01-02T15:04:05"),
		},
	}

	for i, exp := range r.Experience {
		start, end := duration(log, entryName("experience", i), "duration", exp.Duration)
		start, end = openEnded(start), openEnded(end)
		out.Work = append(out.Work, JSONWork{
			Name:       exp.Company,
			Position:   exp.Position,
			Location:   exp.Location,
			StartDate:  start,
			EndDate:    end,
			Summary:    selection.RoleSummary(exp),
			Highlights: selection.Accomplishments(exp),
		})
	}

	for i, edu := range r.Education {
		start, end := duration(log, entryName("education", i), "graduation", edu.Graduation)
		if end == "" {
			start, end = "", start
		}
		start, end = openEnded(start), openEnded(end)
		score, courses := splitDetails(edu.Details)
		out.Education = append(out.Education, JSONEducation{
			Institution: edu.Institution,
			Area:        edu.Specialization,
			StudyType:   edu.Degree,
			StartDate:   start,
			EndDate:     end,
			Score:       score,
			Courses:     courses,
		})
	}

	for _, group := range selection.SkillGroups(r.Skills) {
		out.Skills = append(out.Skills, JSONSkill{Name: group.Label, Keywords: group.Skills})
	}

	for _, proj := range r.Projects {
		out.Projects = append(out.Projects, JSONProject{
			Name:        proj.Name,
			Description: selection.ProjectDescription(proj),
			Highlights:  copyStrings(proj.Achievements),
			Keywords:    copyStrings(proj.Technologies),
			URL:         websiteURL(proj.URL),
		})
	}

	for i, cert := range r.Certifications {
		if strings.TrimSpace(cert.Name) == "" {
			dropped(log, "jsonresume", "certificates", i, "missing name")
			continue
		}
		date := openEnded(singleDate(log, entryName("certifications", i), "date", cert.Date))
		out.Certificates = append(out.Certificates, JSONCertificate{Name: cert.Name, Issuer: cert.Issuer, Date: date})
	}

	for _, a := range r.Achievements {
		if strings.TrimSpace(a) == "" {
			continue
		}
		out.Awards = append(out.Awards, JSONAward{Title: a})
	}

	return out
}

func jsonBasics(r *types.Resume) JSONBasics {
	c := r.Contact
	basics := JSONBasics{
		Name:     c.Name,
		Label:    c.Title,
		Phone:    c.Phone,
		URL:      websiteURL(c.Website),
		Summary:  strings.Join(nonBlank(selection.SummarySentences(r.Summary)), " "),
		Profiles: []JSONProfile{},
	}
	if validEmail(c.Email) {
		basics.Email = c.Email
	}
	if c.Location != "" {
		basics.Location = &JSONLocation{Address: c.Location}
	}
	if user := socialUsername(c.LinkedIn, linkedInPrefix); user != "" {
		basics.Profiles = append(basics.Profiles, JSONProfile{
			Network:  "LinkedIn",
			Username: user,
			URL:      profileURL(c.LinkedIn, linkedInPrefix),
		})
	}
	if user := socialUsername(c.GitHub, gitHubPrefix); user != "" {
		basics.Profiles = append(basics.Profiles, JSONProfile{
			Network:  "GitHub",
			Username: user,
			URL:      profileURL(c.GitHub, gitHubPrefix),
		})
	}
	return basics
}

// openEnded drops the present token, which JSON Resume expresses by omitting the date.
func openEnded(date string) string {
	if date == dates.Present {
		return ""
	}
	return date
}

// splitDetails pulls a GPA line out of education details as the score.
func splitDetails(details []string) (score string, rest []string) {
	rest = make([]string, 0, len(details))
	for _, d := range details {
		if score == "" {
			if m := gpaPattern.FindStringSubmatch(d); m != nil {
				score = strings.TrimSpace(m[1])
				continue
			}
		}
		rest = append(rest, d)
	}
	return score, rest
}

func copyStrings(s []string) []string {
	return append(make([]string, 0, len(s)), s...)
}
