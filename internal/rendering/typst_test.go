package rendering

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleTypstDocument() *TypstDocument {
	return &TypstDocument{
		Name:      `Ada "The Countess" Lovelace`,
		FirstName: `Ada`,
		LastName:  `"The Countess" Lovelace`,
		Title:     "Engineer",
		Email:     "ada@example.com",
		Summary:   `Writes C:\Windows paths and "quotes".`,
		Experience: []TypstEntry{{
			Title:    "Engineer",
			Subtitle: "Acme",
			Date:     "Jan 2020 - Present",
			Bullets:  []string{`Shipped "X"`, "Improved Y"},
		}},
		Skills: []TypstSkillGroup{{Label: "Programming", Skills: []string{"Go", `C\C++`}}},
	}
}

func TestRenderTypst_ModernCV(t *testing.T) {
	src, err := RenderTypst(sampleTypstDocument(), TypstModernCV)
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(src, `#import "@preview/modern-cv:0.8.0": *`))
	assert.Contains(t, src, `lastname: "\"The Countess\" Lovelace"`)
	assert.Contains(t, src, `positions: ("Engineer",)`)
	assert.Contains(t, src, `#"Writes C:\\Windows paths and \"quotes\"."`)
	assert.Contains(t, src, `  - #"Shipped \"X\""`)
	assert.Contains(t, src, `#resume-skill-item("Programming", ("Go", "C\\C++", ))`)
	assert.Contains(t, src, "= Experience")

	// Empty sections are left out entirely
	assert.NotContains(t, src, "= Projects")
	assert.NotContains(t, src, "= Education")
	assert.NotContains(t, src, "= Achievements")
}

func TestRenderTypst_BasicResume(t *testing.T) {
	doc := sampleTypstDocument()
	doc.Education = []TypstEntry{{Title: "BSc Computer Science", Subtitle: "MIT", Date: "2020"}}
	doc.Achievements = []string{"Keynote speaker"}

	src, err := RenderTypst(doc, TypstBasicResume)
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(src, `#import "@preview/basic-resume:0.1.3": *`))
	assert.Contains(t, src, `author: "Ada \"The Countess\" Lovelace"`)
	assert.Contains(t, src, `company: "Acme"`)
	assert.Contains(t, src, `- #strong("Programming"): #"Go, C\\C++"`)
	assert.Contains(t, src, `institution: "MIT"`)
	assert.Contains(t, src, `- #"Keynote speaker"`)
	assert.NotContains(t, src, "== Projects")
}

func TestRenderTypst_SectionOrder(t *testing.T) {
	doc := sampleTypstDocument()
	doc.Projects = []TypstEntry{{Title: "Engine"}}
	doc.Education = []TypstEntry{{Title: "BSc", Subtitle: "MIT"}}
	doc.Certifications = []TypstEntry{{Title: "CKA"}}
	doc.Achievements = []string{"Award"}

	src, err := RenderTypst(doc, TypstModernCV)
	require.NoError(t, err)

	order := []string{"= Summary", "= Experience", "= Skills", "= Projects", "= Education", "= Certifications", "= Achievements"}
	last := -1
	for _, heading := range order {
		idx := strings.Index(src, heading)
		require.NotEqual(t, -1, idx, heading)
		assert.Greater(t, idx, last, heading)
		last = idx
	}
}

func TestRenderTypst_UnknownTemplate(t *testing.T) {
	_, err := RenderTypst(sampleTypstDocument(), "brilliant-cv")
	require.Error(t, err)

	var tmplErr *TemplateError
	require.ErrorAs(t, err, &tmplErr)
	assert.Contains(t, err.Error(), "unknown typst template")
}
