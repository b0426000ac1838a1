package rendering

import "fmt"

// Format is a rendered output format
type Format string

// Output formats
const (
	FormatPDF      Format = "pdf"
	FormatHTML     Format = "html"
	FormatMarkdown Format = "markdown"
)

// Ext returns the file extension for the format, without the dot.
func (f Format) Ext() string {
	if f == FormatMarkdown {
		return "md"
	}
	return string(f)
}

// ParseFormat validates a format name.
func ParseFormat(s string) (Format, error) {
	switch f := Format(s); f {
	case FormatPDF, FormatHTML, FormatMarkdown:
		return f, nil
	}
	return "", fmt.Errorf("unknown format %q (expected pdf, html or markdown)", s)
}
