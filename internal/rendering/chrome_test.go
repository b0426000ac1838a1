package rendering

import (
	"bytes"
	"context"
	"os/exec"
	"testing"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleMarkdown = `# Ada Lovelace
**Engineer**
ada@example.com | London

## Professional Experience

### Engineer | Acme | Jan 2020 - Present
• Shipped X
• Improved Y

## Skills

**Programming:** Go, Python
`

func TestMarkdownToHTML(t *testing.T) {
	html, err := MarkdownToHTML([]byte(sampleMarkdown))
	require.NoError(t, err)

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(html))
	require.NoError(t, err)

	assert.Equal(t, "Ada Lovelace", doc.Find("title").Text())
	assert.Equal(t, "Ada Lovelace", doc.Find("h1").Text())
	assert.Equal(t, 2, doc.Find("h2").Length())
	assert.Equal(t, "Engineer | Acme | Jan 2020 - Present", doc.Find("h3").First().Text())
	assert.Contains(t, doc.Find("body").Text(), "• Improved Y")
	assert.Equal(t, "Programming:", doc.Find("strong").Last().Text())
}

func TestMarkdownToHTML_DropsRawHTML(t *testing.T) {
	html, err := MarkdownToHTML([]byte("# Name\n\n<script>alert(1)</script>\n"))
	require.NoError(t, err)

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(html))
	require.NoError(t, err)
	assert.Equal(t, 0, doc.Find("body script").Length())
}

func TestChromeInvoker_HTMLNeedsNoBrowser(t *testing.T) {
	inv := NewChromeInvoker("definitely-not-chrome")
	assert.NoError(t, inv.Available(FormatHTML))
	assert.ErrorIs(t, inv.Available(FormatPDF), ErrToolMissing)

	out, err := NewAdapter(inv, "resume.md", 5*time.Second, nil).Render(context.Background(), []byte(sampleMarkdown), FormatHTML)
	require.NoError(t, err)
	assert.Contains(t, string(out), "<h1>Ada Lovelace</h1>")
}

func TestChromeInvoker_PDF(t *testing.T) {
	found := false
	for _, name := range chromeCandidates {
		if _, err := exec.LookPath(name); err == nil {
			found = true
			break
		}
	}
	if !found {
		t.Skip("chrome not available, skipping PDF test")
	}

	out, err := NewAdapter(NewChromeInvoker(""), "resume.md", 60*time.Second, nil).
		Render(context.Background(), []byte(sampleMarkdown), FormatPDF)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF")))
}
