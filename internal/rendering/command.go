package rendering

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"os/exec"
	"path/filepath"
	"slices"
	"strings"
	"time"
)

// CommandInvoker runs a renderer executable in the input file's directory
type CommandInvoker struct {
	Tool    string // display name used in errors and logs
	Binary  string // executable name or path
	Hint    string // install hint shown when the binary is missing
	Formats []Format
	// Args builds the command line for one invocation. outputPath is the
	// conventional output location next to the input file.
	Args func(inputPath, outputPath string, format Format) []string
}

// Name returns the tool name.
func (c *CommandInvoker) Name() string {
	return c.Tool
}

// Available checks the binary can be found.
func (c *CommandInvoker) Available(Format) error {
	if _, err := exec.LookPath(c.Binary); err != nil {
		return &MissingToolError{Tool: c.Tool, Hint: c.Hint, Cause: err}
	}
	return nil
}

// Supports reports whether the renderer can produce format.
func (c *CommandInvoker) Supports(format Format) bool {
	return slices.Contains(c.Formats, format)
}

// Invoke runs the renderer and reads back its output. The conventional output path
// is tried first, then the work directory is searched for any file with the
// format's extension.
func (c *CommandInvoker) Invoke(ctx context.Context, inputPath string, format Format) ([]byte, error) {
	if !c.Supports(format) {
		return nil, &RenderError{Message: fmt.Sprintf("%s cannot produce %s output", c.Tool, format)}
	}

	workDir := filepath.Dir(inputPath)
	outputPath := strings.TrimSuffix(inputPath, filepath.Ext(inputPath)) + "." + format.Ext()

	cmd := exec.CommandContext(ctx, c.Binary, c.Args(inputPath, outputPath, format)...)
	cmd.Dir = workDir
	cmd.WaitDelay = 2 * time.Second

	var stdout, stderr strings.Builder
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if runErr := cmd.Run(); runErr != nil {
		exitCode := -1
		var exitErr *exec.ExitError
		if errors.As(runErr, &exitErr) {
			exitCode = exitErr.ExitCode()
		}
		diag := stderr.String()
		if strings.TrimSpace(diag) == "" {
			diag = stdout.String()
		}
		return nil, &ProcessError{Tool: c.Tool, ExitCode: exitCode, Stderr: diag, Cause: runErr}
	}

	path, err := locateOutput(workDir, inputPath, outputPath, format)
	if err != nil {
		return nil, &OutputMissingError{Tool: c.Tool, Expected: string(format), Produced: listFiles(workDir)}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &RenderError{Message: fmt.Sprintf("failed to read output file: %s", path), Cause: err}
	}
	return data, nil
}

// locateOutput returns outputPath when it exists, otherwise the first file under
// workDir (in lexical walk order) carrying the format's extension.
func locateOutput(workDir, inputPath, outputPath string, format Format) (string, error) {
	if info, err := os.Stat(outputPath); err == nil && !info.IsDir() {
		return outputPath, nil
	}

	ext := "." + format.Ext()
	var found string
	err := filepath.WalkDir(workDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || path == inputPath || !strings.EqualFold(filepath.Ext(path), ext) {
			return nil
		}
		found = path
		return fs.SkipAll
	})
	if err != nil {
		return "", err
	}
	if found == "" {
		return "", fs.ErrNotExist
	}
	return found, nil
}

// listFiles returns every regular file under dir, relative to dir.
func listFiles(dir string) []string {
	var files []string
	_ = filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return nil
		}
		if rel, relErr := filepath.Rel(dir, path); relErr == nil {
			files = append(files, rel)
		}
		return nil
	})
	return files
}
