package rendering

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/sirupsen/logrus"
)

const (
	// DefaultTimeout is the maximum time to wait for one renderer invocation
	DefaultTimeout = 30 * time.Second
)

// Invoker runs one external renderer against an input file and returns the produced
// bytes. Implementations may write anything into the input file's directory; the
// Adapter owns that directory and removes it afterwards.
type Invoker interface {
	Name() string
	Invoke(ctx context.Context, inputPath string, format Format) ([]byte, error)
}

// Checker is implemented by invokers that can verify the renderer is installed
// before anything is written to disk.
type Checker interface {
	Available(format Format) error
}

// Adapter hands a transformed document to an Invoker inside a scoped temporary
// directory. Each Render call gets its own directory, so one Adapter may serve
// concurrent calls.
type Adapter struct {
	Invoker   Invoker
	InputName string // file name the document is written under, e.g. "resume.typ"
	Timeout   time.Duration
	Logger    logrus.FieldLogger
}

// NewAdapter creates an adapter. A zero timeout means DefaultTimeout and a nil
// logger discards output.
func NewAdapter(invoker Invoker, inputName string, timeout time.Duration, logger logrus.FieldLogger) *Adapter {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	if logger == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		logger = l
	}
	return &Adapter{Invoker: invoker, InputName: inputName, Timeout: timeout, Logger: logger}
}

// Render writes source to a fresh temporary directory, runs the invoker with a
// deadline and returns the produced bytes. The directory is removed on every path.
// Cancelling ctx kills the renderer and is reported as a timeout.
func (a *Adapter) Render(ctx context.Context, source []byte, format Format) ([]byte, error) {
	tool := a.Invoker.Name()
	log := a.Logger.WithFields(logrus.Fields{"tool": tool, "format": format})

	if checker, ok := a.Invoker.(Checker); ok {
		if err := checker.Available(format); err != nil {
			if !errors.Is(err, ErrToolMissing) {
				err = &MissingToolError{Tool: tool, Cause: err}
			}
			log.WithError(err).Error("renderer unavailable")
			return nil, err
		}
	}

	workDir, err := os.MkdirTemp("", "resume-render-*")
	if err != nil {
		return nil, &RenderError{Message: "failed to create temporary working directory", Cause: err}
	}
	defer func() {
		if rmErr := os.RemoveAll(workDir); rmErr != nil {
			log.WithError(rmErr).Warn("failed to remove working directory")
		}
	}()

	inputPath := filepath.Join(workDir, a.InputName)
	if err := os.WriteFile(inputPath, source, 0o644); err != nil {
		return nil, &RenderError{Message: fmt.Sprintf("failed to write %s", a.InputName), Cause: err}
	}

	ctx, cancel := context.WithTimeout(ctx, a.Timeout)
	defer cancel()

	started := time.Now()
	log.Info("render started")
	out, err := a.Invoker.Invoke(ctx, inputPath, format)
	duration := time.Since(started)
	if err != nil {
		if ctx.Err() != nil && !errors.Is(err, ErrToolMissing) {
			timeoutErr := &TimeoutError{Tool: tool, Timeout: a.Timeout}
			var procErr *ProcessError
			if errors.As(err, &procErr) {
				timeoutErr.Stderr = procErr.Stderr
			}
			err = timeoutErr
		}
		log.WithError(err).WithField("duration", duration).Error("render failed")
		return nil, err
	}

	log.WithFields(logrus.Fields{"duration": duration, "bytes": len(out)}).Info("render finished")
	return out, nil
}
