package rendering

import "path/filepath"

// NewTypstInvoker compiles a .typ document with the typst CLI.
func NewTypstInvoker(binary string) *CommandInvoker {
	if binary == "" {
		binary = "typst"
	}
	return &CommandInvoker{
		Tool:    "typst",
		Binary:  binary,
		Hint:    "Install from https://github.com/typst/typst",
		Formats: []Format{FormatPDF},
		Args: func(inputPath, outputPath string, _ Format) []string {
			return []string{"compile", filepath.Base(inputPath), filepath.Base(outputPath)}
		},
	}
}

// NewRenderCVInvoker renders a RenderCV YAML document. RenderCV chooses its own
// output names under rendercv_output/, so the output is found by extension.
func NewRenderCVInvoker(binary string) *CommandInvoker {
	if binary == "" {
		binary = "rendercv"
	}
	return &CommandInvoker{
		Tool:    "rendercv",
		Binary:  binary,
		Hint:    "Install with: pip install 'rendercv[full]'",
		Formats: []Format{FormatPDF, FormatHTML},
		Args: func(inputPath, _ string, format Format) []string {
			args := []string{"render", filepath.Base(inputPath), "--dont-generate-png"}
			if format == FormatPDF {
				args = append(args, "--dont-generate-html")
			}
			return args
		},
	}
}

// NewResumeCLIInvoker exports a JSON Resume document with resume-cli and the
// given theme.
func NewResumeCLIInvoker(binary, theme string) *CommandInvoker {
	if binary == "" {
		binary = "resume"
	}
	return &CommandInvoker{
		Tool:    "resume-cli",
		Binary:  binary,
		Hint:    "Install with: npm install -g resume-cli",
		Formats: []Format{FormatPDF, FormatHTML},
		Args: func(inputPath, outputPath string, format Format) []string {
			return []string{
				"export", filepath.Base(outputPath),
				"--format", string(format),
				"--resume", filepath.Base(inputPath),
				"--theme", theme,
			}
		},
	}
}
