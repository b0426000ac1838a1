// Package rendering turns transformed resume documents into output bytes by
// handing them to external renderers.
package rendering

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

var (
	// ErrRenderFailed matches every failure that prevented a renderer from producing
	// output: non-zero exit, timeout, or missing output file.
	ErrRenderFailed = errors.New("render failed")
	// ErrToolMissing matches a renderer that is not installed or not reachable.
	ErrToolMissing = errors.New("renderer not available")
)

// TemplateError represents an error parsing or executing a document template
type TemplateError struct {
	Message string
	Cause   error
}

func (e *TemplateError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("template error: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("template error: %s", e.Message)
}

func (e *TemplateError) Unwrap() error {
	return e.Cause
}

// RenderError represents a general rendering failure, such as an unwritable
// work directory
type RenderError struct {
	Message string
	Cause   error
}

func (e *RenderError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("render error: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("render error: %s", e.Message)
}

func (e *RenderError) Unwrap() error {
	return e.Cause
}

// MissingToolError is returned before invocation when the renderer is absent
type MissingToolError struct {
	Tool  string
	Hint  string
	Cause error
}

func (e *MissingToolError) Error() string {
	msg := fmt.Sprintf("%s not found", e.Tool)
	if e.Hint != "" {
		msg += ". " + e.Hint
	}
	if e.Cause != nil {
		msg += fmt.Sprintf(": %v", e.Cause)
	}
	return msg
}

func (e *MissingToolError) Unwrap() error {
	return e.Cause
}

// Is reports whether target is ErrToolMissing.
func (e *MissingToolError) Is(target error) bool {
	return target == ErrToolMissing
}

// ProcessError is a renderer that exited non-zero
type ProcessError struct {
	Tool     string
	ExitCode int
	Stderr   string
	Cause    error
}

func (e *ProcessError) Error() string {
	msg := fmt.Sprintf("%s failed with exit code %d", e.Tool, e.ExitCode)
	if stderr := strings.TrimSpace(e.Stderr); stderr != "" {
		msg += ": " + stderr
	}
	return msg
}

func (e *ProcessError) Unwrap() error {
	return e.Cause
}

// Is reports whether target is ErrRenderFailed.
func (e *ProcessError) Is(target error) bool {
	return target == ErrRenderFailed
}

// TimeoutError is a renderer that exceeded its time budget. The process is killed
// and never retried.
type TimeoutError struct {
	Tool    string
	Timeout time.Duration
	Stderr  string
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("%s timed out after %s", e.Tool, e.Timeout)
}

// Is reports whether target is ErrRenderFailed.
func (e *TimeoutError) Is(target error) bool {
	return target == ErrRenderFailed
}

// OutputMissingError is a renderer that exited cleanly without writing the
// expected output. Produced lists the files found in the work directory.
type OutputMissingError struct {
	Tool     string
	Expected string
	Produced []string
}

func (e *OutputMissingError) Error() string {
	produced := "nothing"
	if len(e.Produced) > 0 {
		produced = strings.Join(e.Produced, ", ")
	}
	return fmt.Sprintf("%s exited successfully but produced no %s output (found: %s)", e.Tool, e.Expected, produced)
}

// Is reports whether target is ErrRenderFailed.
func (e *OutputMissingError) Is(target error) bool {
	return target == ErrRenderFailed
}
