// Package types provides type definitions for structured data used throughout the resume-exporter system.
//
//nolint:revive // types is a standard Go package name pattern
package types

import (
	"strings"

	"github.com/go-playground/validator/v10"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// SkillCategory names one of the fixed skill groupings
type SkillCategory string

// Skill categories, in display order
const (
	SkillTechnical   SkillCategory = "technical"
	SkillProgramming SkillCategory = "programming"
	SkillTools       SkillCategory = "tools"
	SkillSoft        SkillCategory = "soft_skills"
)

// SkillCategories is the declared category order. Every transformer emits skills in
// this order regardless of the order the categories were populated in.
var SkillCategories = []SkillCategory{SkillTechnical, SkillProgramming, SkillTools, SkillSoft}

// Label returns the human readable category name, e.g. "Soft Skills".
func (c SkillCategory) Label() string {
	// cases.Caser keeps state between calls, so each call gets its own.
	return cases.Title(language.English).String(strings.ReplaceAll(string(c), "_", " "))
}

// Resume is the schema-agnostic resume record edited by the user and consumed
// read-only by the transformers.
type Resume struct {
	Contact        Contact         `json:"contact" yaml:"contact"`
	Summary        Summary         `json:"summary" yaml:"summary"`
	Experience     []Experience    `json:"experience" yaml:"experience" validate:"dive"`
	Projects       []Project       `json:"projects" yaml:"projects" validate:"dive"`
	Skills         Skills          `json:"skills" yaml:"skills" validate:"dive,keys,oneof=technical programming tools soft_skills,endkeys"`
	Education      []Education     `json:"education" yaml:"education" validate:"dive"`
	Certifications []Certification `json:"certifications" yaml:"certifications" validate:"dive"`
	Achievements   []string        `json:"achievements" yaml:"achievements"`
}

// Skills maps a category to its skills. Insertion order of the map is irrelevant.
type Skills map[SkillCategory][]string

// Contact holds the candidate's contact details. All fields are optional.
type Contact struct {
	Name     string `json:"name,omitempty" yaml:"name,omitempty"`
	Title    string `json:"title,omitempty" yaml:"title,omitempty"`
	Email    string `json:"email,omitempty" yaml:"email,omitempty"`
	Phone    string `json:"phone,omitempty" yaml:"phone,omitempty"`
	Location string `json:"location,omitempty" yaml:"location,omitempty"`
	LinkedIn string `json:"linkedin,omitempty" yaml:"linkedin,omitempty"`
	GitHub   string `json:"github,omitempty" yaml:"github,omitempty"`
	Website  string `json:"website,omitempty" yaml:"website,omitempty"`
}

// Summary holds candidate summary sentences and the optional selected subsequence.
// A nil SelectedSentences means no selection was made; a non-nil empty slice means
// the summary was explicitly excluded.
type Summary struct {
	Sentences         []string  `json:"sentences" yaml:"sentences"`
	SelectedSentences *[]string `json:"selected_sentences,omitempty" yaml:"selected_sentences,omitempty"`
}

// Experience is a single position with phrasing variants
type Experience struct {
	Position        string   `json:"position" yaml:"position"`
	Company         string   `json:"company" yaml:"company"`
	Duration        string   `json:"duration" yaml:"duration"` // free text, e.g. "Jan 2020 - Present"
	Location        string   `json:"location,omitempty" yaml:"location,omitempty"`
	RoleSummaries   []string `json:"role_summaries" yaml:"role_summaries"`
	Accomplishments []string `json:"accomplishments" yaml:"accomplishments"`

	SelectedRoleSummary     *string   `json:"selected_role_summary,omitempty" yaml:"selected_role_summary,omitempty"`
	SelectedAccomplishments *[]string `json:"selected_accomplishments,omitempty" yaml:"selected_accomplishments,omitempty"`
}

// Project is a side or portfolio project
type Project struct {
	Name         string   `json:"name" yaml:"name"`
	URL          string   `json:"url,omitempty" yaml:"url,omitempty"`
	Descriptions []string `json:"descriptions" yaml:"descriptions"`
	Technologies []string `json:"technologies" yaml:"technologies"` // display order matters
	Achievements []string `json:"achievements" yaml:"achievements"`

	SelectedDescription *string `json:"selected_description,omitempty" yaml:"selected_description,omitempty"`
}

// Education is a degree entry. Graduation is free text ("2020", "2016 - 2020", "May 2020").
type Education struct {
	Degree         string   `json:"degree" yaml:"degree"`
	Specialization string   `json:"specialization,omitempty" yaml:"specialization,omitempty"`
	Institution    string   `json:"institution" yaml:"institution"`
	Graduation     string   `json:"graduation,omitempty" yaml:"graduation,omitempty"`
	Location       string   `json:"location,omitempty" yaml:"location,omitempty"`
	Details        []string `json:"details" yaml:"details"` // GPA, honors, coursework
}

// Certification is a professional certification
type Certification struct {
	Name   string `json:"name" yaml:"name" validate:"required"`
	Issuer string `json:"issuer,omitempty" yaml:"issuer,omitempty"`
	Date   string `json:"date,omitempty" yaml:"date,omitempty"`
}

// Validate checks structural rules of the record: skill categories must come from
// the fixed set and certifications need a name.
func (r *Resume) Validate() error {
	validate := validator.New()
	return validate.Struct(r)
}

// ProfileName is the key the profile store files this resume under.
func (r *Resume) ProfileName() string {
	name := strings.TrimSpace(r.Contact.Name)
	if name == "" {
		return "Unknown"
	}
	return name
}

// Clone returns a deep copy of the resume. Overrides keep their presence:
// a nil pointer stays nil and an explicit empty selection stays empty.
func (r *Resume) Clone() *Resume {
	if r == nil {
		return nil
	}
	out := &Resume{
		Contact: r.Contact,
		Summary: Summary{
			Sentences:         cloneStrings(r.Summary.Sentences),
			SelectedSentences: cloneStringsPtr(r.Summary.SelectedSentences),
		},
		Achievements: cloneStrings(r.Achievements),
	}
	if r.Experience != nil {
		out.Experience = make([]Experience, len(r.Experience))
		for i, e := range r.Experience {
			e.RoleSummaries = cloneStrings(e.RoleSummaries)
			e.Accomplishments = cloneStrings(e.Accomplishments)
			e.SelectedRoleSummary = cloneStringPtr(e.SelectedRoleSummary)
			e.SelectedAccomplishments = cloneStringsPtr(e.SelectedAccomplishments)
			out.Experience[i] = e
		}
	}
	if r.Projects != nil {
		out.Projects = make([]Project, len(r.Projects))
		for i, p := range r.Projects {
			p.Descriptions = cloneStrings(p.Descriptions)
			p.Technologies = cloneStrings(p.Technologies)
			p.Achievements = cloneStrings(p.Achievements)
			p.SelectedDescription = cloneStringPtr(p.SelectedDescription)
			out.Projects[i] = p
		}
	}
	if r.Skills != nil {
		out.Skills = make(Skills, len(r.Skills))
		for k, v := range r.Skills {
			out.Skills[k] = cloneStrings(v)
		}
	}
	if r.Education != nil {
		out.Education = make([]Education, len(r.Education))
		for i, e := range r.Education {
			e.Details = cloneStrings(e.Details)
			out.Education[i] = e
		}
	}
	if r.Certifications != nil {
		out.Certifications = append([]Certification(nil), r.Certifications...)
	}
	return out
}

func cloneStrings(s []string) []string {
	if s == nil {
		return nil
	}
	return append(make([]string, 0, len(s)), s...)
}

func cloneStringsPtr(p *[]string) *[]string {
	if p == nil {
		return nil
	}
	c := cloneStrings(*p)
	if c == nil {
		c = []string{}
	}
	return &c
}

func cloneStringPtr(p *string) *string {
	if p == nil {
		return nil
	}
	s := *p
	return &s
}
