// Package transform maps the resume record into the document shapes of the
// supported renderers: JSON Resume, RenderCV YAML, Markdown and Typst.
//
// Every transformer is a pure function of its input. The input resume is never
// modified and every output slice is freshly allocated in input order.
package transform

import (
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/jonathan/resume-exporter/internal/dates"
)

// ErrUnsupportedTheme is returned for a theme the target does not provide
var ErrUnsupportedTheme = errors.New("unsupported theme")

// Options carries the collaborators shared by all transformers
type Options struct {
	// Logger receives dropped-entry and unparseable-date warnings. Nil discards.
	Logger logrus.FieldLogger
	// Now is embedded into schemas that carry a generation date. Defaults to time.Now.
	Now func() time.Time
	// Theme selects the RenderCV theme or Typst template. Empty means the default.
	Theme string
}

func (o Options) logger() logrus.FieldLogger {
	if o.Logger != nil {
		return o.Logger
	}
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

func (o Options) now() time.Time {
	if o.Now != nil {
		return o.Now()
	}
	return time.Now()
}

// duration parses a date range, logging unparseable components.
func duration(log logrus.FieldLogger, entry, field, value string) (start, end string) {
	start, end, err := dates.ParseDuration(value)
	if err != nil {
		unparseable(log, entry, field, value)
	}
	return start, end
}

// singleDate parses one date, logging it when unparseable.
func singleDate(log logrus.FieldLogger, entry, field, value string) string {
	out, err := dates.Parse(value)
	if err != nil {
		unparseable(log, entry, field, value)
	}
	return out
}

func unparseable(log logrus.FieldLogger, entry, field, value string) {
	log.WithFields(logrus.Fields{"entry": entry, "field": field, "value": value}).
		Warn("unparseable date, leaving it empty")
}

func entryName(section string, index int) string {
	return fmt.Sprintf("%s[%d]", section, index)
}

// dropped logs an entry removed from a schema because a required field is missing.
func dropped(log logrus.FieldLogger, schema, section string, index int, reason string) {
	log.WithFields(logrus.Fields{
		"schema":  schema,
		"section": section,
		"index":   index,
		"reason":  reason,
	}).Warn("dropping entry missing a required field")
}
