package transform

import (
	"fmt"
	"slices"
	"strings"

	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"

	"github.com/jonathan/resume-exporter/internal/dates"
	"github.com/jonathan/resume-exporter/internal/selection"
	"github.com/jonathan/resume-exporter/internal/types"
)

// RenderCVThemes lists the built-in RenderCV themes, default first
var RenderCVThemes = []string{"classic", "engineeringresumes", "sb2nov", "moderncv", "engineeringclassic"}

// RenderCVDocument is a RenderCV input file. Field order matches the order
// RenderCV documents its keys in.
type RenderCVDocument struct {
	CV       RenderCVContent  `yaml:"cv"`
	Design   RenderCVDesign   `yaml:"design"`
	Locale   RenderCVLocale   `yaml:"locale"`
	Settings RenderCVSettings `yaml:"rendercv_settings"`
}

// RenderCVContent is the cv block
type RenderCVContent struct {
	Name           string          `yaml:"name,omitempty"`
	Title          string          `yaml:"title,omitempty"`
	Location       string          `yaml:"location,omitempty"`
	Email          string          `yaml:"email,omitempty"`
	Phone          string          `yaml:"phone,omitempty"`
	Website        string          `yaml:"website,omitempty"`
	SocialNetworks []SocialNetwork `yaml:"social_networks,omitempty"`
	Sections       Sections        `yaml:"sections,omitempty"`
}

// SocialNetwork is a RenderCV social network account
type SocialNetwork struct {
	Network  string `yaml:"network"`
	Username string `yaml:"username"`
}

// Section is one titled list of RenderCV entries. Entries holds one of []string,
// []ExperienceEntry, []EducationEntry, []NormalEntry or []OneLineEntry.
type Section struct {
	Title   string
	Entries any
}

// Sections keeps sections in insertion order when marshalled to YAML
type Sections []Section

// MarshalYAML encodes the sections as a mapping in slice order.
func (s Sections) MarshalYAML() (any, error) {
	node := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
	for _, sec := range s {
		value := &yaml.Node{}
		if err := value.Encode(sec.Entries); err != nil {
			return nil, fmt.Errorf("failed to encode section %s: %w", sec.Title, err)
		}
		node.Content = append(node.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: sec.Title},
			value,
		)
	}
	return node, nil
}

// Get returns the entries of the named section.
func (s Sections) Get(title string) (any, bool) {
	for _, sec := range s {
		if sec.Title == title {
			return sec.Entries, true
		}
	}
	return nil, false
}

// Titles returns the section titles in order.
func (s Sections) Titles() []string {
	titles := make([]string, len(s))
	for i, sec := range s {
		titles[i] = sec.Title
	}
	return titles
}

// ExperienceEntry requires company and position
type ExperienceEntry struct {
	Company    string   `yaml:"company"`
	Position   string   `yaml:"position"`
	Location   string   `yaml:"location,omitempty"`
	StartDate  string   `yaml:"start_date,omitempty"`
	EndDate    string   `yaml:"end_date,omitempty"`
	Summary    string   `yaml:"summary,omitempty"`
	Highlights []string `yaml:"highlights,omitempty"`
}

// EducationEntry requires institution and area
type EducationEntry struct {
	Institution string   `yaml:"institution"`
	Area        string   `yaml:"area"`
	Degree      string   `yaml:"degree,omitempty"`
	Location    string   `yaml:"location,omitempty"`
	StartDate   string   `yaml:"start_date,omitempty"`
	EndDate     string   `yaml:"end_date,omitempty"`
	Highlights  []string `yaml:"highlights,omitempty"`
}

// NormalEntry requires a name
type NormalEntry struct {
	Name       string   `yaml:"name"`
	Location   string   `yaml:"location,omitempty"`
	Date       string   `yaml:"date,omitempty"`
	Summary    string   `yaml:"summary,omitempty"`
	Highlights []string `yaml:"highlights,omitempty"`
}

// OneLineEntry is a label with comma-joined details
type OneLineEntry struct {
	Label   string `yaml:"label"`
	Details string `yaml:"details"`
}

// RenderCVDesign selects the theme and page layout
type RenderCVDesign struct {
	Theme  string         `yaml:"theme"`
	Page   RenderCVPage   `yaml:"page"`
	Colors RenderCVColors `yaml:"colors"`
}

// RenderCVPage is the page geometry
type RenderCVPage struct {
	Size         string `yaml:"size"`
	TopMargin    string `yaml:"top_margin"`
	BottomMargin string `yaml:"bottom_margin"`
	LeftMargin   string `yaml:"left_margin"`
	RightMargin  string `yaml:"right_margin"`
}

// RenderCVColors overrides theme colors
type RenderCVColors struct {
	Text string `yaml:"text"`
	Name string `yaml:"name"`
}

// RenderCVLocale controls language dependent formatting
type RenderCVLocale struct {
	Language          string `yaml:"language"`
	PhoneNumberFormat string `yaml:"phone_number_format"`
}

// RenderCVSettings holds the generation date
type RenderCVSettings struct {
	Date string `yaml:"date"`
}

// ToRenderCV maps the resume into a RenderCV document. Entries missing a field
// RenderCV requires are dropped and logged rather than emitted half-valid:
// experience without company or position, education without institution or
// area, projects and certifications without a name. Contact fields RenderCV
// would reject (malformed email, phone without a country code) are omitted.
// rendercv_settings.date is taken from the clock.
func ToRenderCV(r *types.Resume, opts Options) (*RenderCVDocument, error) {
	theme := opts.Theme
	if theme == "" {
		theme = RenderCVThemes[0]
	}
	if !slices.Contains(RenderCVThemes, theme) {
		return nil, fmt.Errorf("%w: %q is not a rendercv theme (available: %s)", ErrUnsupportedTheme, theme, strings.Join(RenderCVThemes, ", "))
	}

	log := opts.logger().WithField("schema", "rendercv")

	doc := &RenderCVDocument{
		CV: renderCVContact(r.Contact, log),
		Design: RenderCVDesign{
			Theme: theme,
			Page: RenderCVPage{
				Size:         "us-letter",
				TopMargin:    "2cm",
				BottomMargin: "2cm",
				LeftMargin:   "2cm",
				RightMargin:  "2cm",
			},
			Colors: RenderCVColors{Text: "black", Name: "#004f90"},
		},
		Locale:   RenderCVLocale{Language: "en", PhoneNumberFormat: "national"},
		Settings: RenderCVSettings{Date: opts.now().Format("2006-01-02")},
	}

	var sections Sections

	if summary := nonBlank(selection.SummarySentences(r.Summary)); len(summary) > 0 {
		sections = append(sections, Section{Title: "summary", Entries: summary})
	}

	if exp := renderCVExperience(r.Experience, log); len(exp) > 0 {
		sections = append(sections, Section{Title: "experience", Entries: exp})
	}

	if groups := selection.SkillGroups(r.Skills); len(groups) > 0 {
		skills := make([]OneLineEntry, 0, len(groups))
		for _, g := range groups {
			skills = append(skills, OneLineEntry{Label: g.Label, Details: strings.Join(g.Skills, ", ")})
		}
		sections = append(sections, Section{Title: "skills", Entries: skills})
	}

	if projects := renderCVProjects(r.Projects, log); len(projects) > 0 {
		sections = append(sections, Section{Title: "projects", Entries: projects})
	}

	if edu := renderCVEducation(r.Education, log); len(edu) > 0 {
		sections = append(sections, Section{Title: "education", Entries: edu})
	}

	if certs := renderCVCertifications(r.Certifications, log); len(certs) > 0 {
		sections = append(sections, Section{Title: "certifications", Entries: certs})
	}

	if achievements := nonBlank(r.Achievements); len(achievements) > 0 {
		sections = append(sections, Section{Title: "achievements", Entries: achievements})
	}

	doc.CV.Sections = sections
	return doc, nil
}

// Bytes renders the document as a RenderCV YAML file.
func (d *RenderCVDocument) Bytes() ([]byte, error) {
	var b strings.Builder
	enc := yaml.NewEncoder(&b)
	enc.SetIndent(2)
	if err := enc.Encode(d); err != nil {
		return nil, fmt.Errorf("failed to encode rendercv yaml: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("failed to encode rendercv yaml: %w", err)
	}
	return []byte(b.String()), nil
}

func renderCVContact(c types.Contact, log logrus.FieldLogger) RenderCVContent {
	cv := RenderCVContent{
		Name:     c.Name,
		Title:    c.Title,
		Location: c.Location,
		Website:  websiteURL(c.Website),
	}

	if validEmail(c.Email) {
		cv.Email = c.Email
	} else if c.Email != "" {
		log.WithField("field", "email").Info("omitting email rendercv would reject")
	}

	if phone := internationalPhone(c.Phone); phone != "" {
		cv.Phone = phone
	} else if c.Phone != "" {
		log.WithField("field", "phone").Info("omitting phone without a country code")
	}

	if user := socialUsername(c.LinkedIn, linkedInPrefix); user != "" {
		cv.SocialNetworks = append(cv.SocialNetworks, SocialNetwork{Network: "LinkedIn", Username: user})
	}
	if user := socialUsername(c.GitHub, gitHubPrefix); user != "" {
		cv.SocialNetworks = append(cv.SocialNetworks, SocialNetwork{Network: "GitHub", Username: user})
	}
	return cv
}

func renderCVExperience(experience []types.Experience, log logrus.FieldLogger) []ExperienceEntry {
	entries := make([]ExperienceEntry, 0, len(experience))
	for i, exp := range experience {
		switch {
		case strings.TrimSpace(exp.Company) == "":
			dropped(log, "rendercv", "experience", i, "missing company")
			continue
		case strings.TrimSpace(exp.Position) == "":
			dropped(log, "rendercv", "experience", i, "missing position")
			continue
		}

		start, end := duration(log, entryName("experience", i), "duration", exp.Duration)
		start, end = renderCVRange(start, end)
		entries = append(entries, ExperienceEntry{
			Company:    exp.Company,
			Position:   exp.Position,
			Location:   exp.Location,
			StartDate:  start,
			EndDate:    end,
			Summary:    selection.RoleSummary(exp),
			Highlights: nonBlank(selection.Accomplishments(exp)),
		})
	}
	return entries
}

func renderCVEducation(education []types.Education, log logrus.FieldLogger) []EducationEntry {
	entries := make([]EducationEntry, 0, len(education))
	for i, edu := range education {
		switch {
		case strings.TrimSpace(edu.Institution) == "":
			dropped(log, "rendercv", "education", i, "missing institution")
			continue
		case strings.TrimSpace(edu.Specialization) == "":
			dropped(log, "rendercv", "education", i, "missing area")
			continue
		}

		start, end, err := dates.GraduationWindow(edu.Graduation)
		if err != nil {
			unparseable(log, entryName("education", i), "graduation", edu.Graduation)
		}
		start, end = renderCVRange(start, end)
		entries = append(entries, EducationEntry{
			Institution: edu.Institution,
			Area:        edu.Specialization,
			Degree:      edu.Degree,
			Location:    edu.Location,
			StartDate:   start,
			EndDate:     end,
			Highlights:  nonBlank(edu.Details),
		})
	}
	return entries
}

func renderCVProjects(projects []types.Project, log logrus.FieldLogger) []NormalEntry {
	entries := make([]NormalEntry, 0, len(projects))
	for i, proj := range projects {
		if strings.TrimSpace(proj.Name) == "" {
			dropped(log, "rendercv", "projects", i, "missing name")
			continue
		}

		name := proj.Name
		if url := websiteURL(proj.URL); url != "" {
			name = fmt.Sprintf("[%s](%s)", proj.Name, url)
		}
		var highlights []string
		if len(proj.Technologies) > 0 {
			highlights = append(highlights, "Technologies: "+strings.Join(proj.Technologies, ", "))
		}
		highlights = append(highlights, nonBlank(proj.Achievements)...)

		entries = append(entries, NormalEntry{
			Name:       name,
			Summary:    selection.ProjectDescription(proj),
			Highlights: highlights,
		})
	}
	return entries
}

func renderCVCertifications(certs []types.Certification, log logrus.FieldLogger) []NormalEntry {
	entries := make([]NormalEntry, 0, len(certs))
	for i, cert := range certs {
		if strings.TrimSpace(cert.Name) == "" {
			dropped(log, "rendercv", "certifications", i, "missing name")
			continue
		}
		entry := NormalEntry{
			Name: cert.Name,
			Date: singleDate(log, entryName("certifications", i), "date", cert.Date),
		}
		if cert.Issuer != "" {
			entry.Summary = cert.Issuer
		}
		entries = append(entries, entry)
	}
	return entries
}

// renderCVRange drops an end date without a start, which RenderCV rejects.
func renderCVRange(start, end string) (string, string) {
	if start == "" || start == dates.Present {
		return "", ""
	}
	return start, end
}

// nonBlank returns the non-empty strings in order.
func nonBlank(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		if strings.TrimSpace(s) != "" {
			out = append(out, s)
		}
	}
	return out
}
