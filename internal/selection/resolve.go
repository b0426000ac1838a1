// Package selection resolves phrasing variants against the optional overrides
// written by the upstream matching step.
//
// The rule is the same for every target: a single-valued override wins when it is
// present and non-empty, a multi-valued override wins whenever it is present (an
// empty list excludes the content explicitly).
package selection

import (
	"strings"

	"github.com/jonathan/resume-exporter/internal/types"
)

// ResolveSingle returns override if it is non-nil and non-empty, else the first
// candidate, else "".
func ResolveSingle(candidates []string, override *string) string {
	if override != nil && *override != "" {
		return *override
	}
	if len(candidates) > 0 {
		return candidates[0]
	}
	return ""
}

// ResolveMulti returns the override verbatim if present, else the full candidate list.
// The returned slice is always a fresh copy.
func ResolveMulti(candidates []string, override *[]string) []string {
	src := candidates
	if override != nil {
		src = *override
	}
	return append(make([]string, 0, len(src)), src...)
}

// SummarySentences resolves the summary sentences.
func SummarySentences(s types.Summary) []string {
	return ResolveMulti(s.Sentences, s.SelectedSentences)
}

// RoleSummary resolves the single role summary of an experience entry.
func RoleSummary(e types.Experience) string {
	return ResolveSingle(e.RoleSummaries, e.SelectedRoleSummary)
}

// Accomplishments resolves the bullet list of an experience entry.
func Accomplishments(e types.Experience) []string {
	return ResolveMulti(e.Accomplishments, e.SelectedAccomplishments)
}

// ProjectDescription resolves the single description of a project.
func ProjectDescription(p types.Project) string {
	return ResolveSingle(p.Descriptions, p.SelectedDescription)
}

// SkillGroup is one non-empty skill category with its skills in input order
type SkillGroup struct {
	Category types.SkillCategory
	Label    string
	Skills   []string
}

// SkillGroups returns the populated skill categories in the fixed category order.
// Empty and unknown categories are skipped, blank skills are dropped and duplicates
// inside a category are emitted once.
func SkillGroups(skills types.Skills) []SkillGroup {
	groups := make([]SkillGroup, 0, len(types.SkillCategories))
	for _, cat := range types.SkillCategories {
		seen := make(map[string]bool)
		var list []string
		for _, s := range skills[cat] {
			s = strings.TrimSpace(s)
			if s == "" || seen[s] {
				continue
			}
			seen[s] = true
			list = append(list, s)
		}
		if len(list) == 0 {
			continue
		}
		groups = append(groups, SkillGroup{Category: cat, Label: cat.Label(), Skills: list})
	}
	return groups
}
