package selection

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/resume-exporter/internal/types"
)

func strPtr(s string) *string { return &s }

func slicePtr(s ...string) *[]string {
	if s == nil {
		s = []string{}
	}
	return &s
}

func TestResolveSingle(t *testing.T) {
	tests := []struct {
		name       string
		candidates []string
		override   *string
		want       string
	}{
		{name: "override wins", candidates: []string{"a", "b"}, override: strPtr("chosen"), want: "chosen"},
		{name: "empty override falls back", candidates: []string{"a", "b"}, override: strPtr(""), want: "a"},
		{name: "no override", candidates: []string{"a", "b"}, want: "a"},
		{name: "nothing at all", want: ""},
		{name: "override without candidates", override: strPtr("x"), want: "x"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ResolveSingle(tt.candidates, tt.override))
		})
	}
}

func TestResolveMulti(t *testing.T) {
	tests := []struct {
		name       string
		candidates []string
		override   *[]string
		want       []string
	}{
		{name: "override wins", candidates: []string{"a", "b"}, override: slicePtr("b"), want: []string{"b"}},
		{name: "explicit empty override excludes", candidates: []string{"a", "b"}, override: slicePtr(), want: []string{}},
		{name: "absent override", candidates: []string{"a", "b"}, want: []string{"a", "b"}},
		{name: "absent override and no candidates", want: []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ResolveMulti(tt.candidates, tt.override))
		})
	}
}

func TestResolveMulti_ReturnsCopy(t *testing.T) {
	candidates := []string{"a", "b"}
	got := ResolveMulti(candidates, nil)
	got[0] = "changed"
	assert.Equal(t, "a", candidates[0])
}

func TestEntityHelpers(t *testing.T) {
	exp := types.Experience{
		RoleSummaries:   []string{"first", "second"},
		Accomplishments: []string{"x", "y"},
	}
	assert.Equal(t, "first", RoleSummary(exp))
	assert.Equal(t, []string{"x", "y"}, Accomplishments(exp))

	exp.SelectedRoleSummary = strPtr("picked")
	exp.SelectedAccomplishments = slicePtr()
	assert.Equal(t, "picked", RoleSummary(exp))
	assert.Empty(t, Accomplishments(exp))

	proj := types.Project{Descriptions: []string{"d1", "d2"}, SelectedDescription: strPtr("")}
	assert.Equal(t, "d1", ProjectDescription(proj))

	sum := types.Summary{Sentences: []string{"s1", "s2"}, SelectedSentences: slicePtr("s2")}
	assert.Equal(t, []string{"s2"}, SummarySentences(sum))
}

func TestSkillGroups_FixedOrder(t *testing.T) {
	skills := types.Skills{
		types.SkillTools:       {"Docker", "", "Docker", "Kubernetes"},
		types.SkillTechnical:   {"APIs"},
		types.SkillProgramming: {"Go"},
		types.SkillSoft:        {},
		"languages":            {"French"},
	}

	groups := SkillGroups(skills)
	require.Len(t, groups, 3)
	assert.Equal(t, types.SkillTechnical, groups[0].Category)
	assert.Equal(t, types.SkillProgramming, groups[1].Category)
	assert.Equal(t, types.SkillTools, groups[2].Category)
	assert.Equal(t, "Tools", groups[2].Label)
	assert.Equal(t, []string{"Docker", "Kubernetes"}, groups[2].Skills)
}

func TestSkillGroups_Empty(t *testing.T) {
	assert.Empty(t, SkillGroups(nil))
}
