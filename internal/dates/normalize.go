// Package dates converts free-text resume dates into the ISO-like grammar accepted by
// the target schemas: YYYY, YYYY-MM, YYYY-MM-DD or the literal "present".
package dates

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Present is the open end-date token.
const Present = "present"

// RangeSeparator splits a duration into its start and end components.
const RangeSeparator = " - "

var (
	yearPattern     = regexp.MustCompile(`^\d{4}$`)
	isoPattern      = regexp.MustCompile(`^\d{4}-(0[1-9]|1[0-2])(-\d{2})?$`)
	monthYearRegexp = regexp.MustCompile(`^([A-Za-z]+)\.?,?\s+(\d{4})$`)
	twoDigitPattern = regexp.MustCompile(`^\d{2}$`)
)

var months = map[string]string{
	"jan": "01", "january": "01",
	"feb": "02", "february": "02",
	"mar": "03", "march": "03",
	"apr": "04", "april": "04",
	"may": "05",
	"jun": "06", "june": "06",
	"jul": "07", "july": "07",
	"aug": "08", "august": "08",
	"sep": "09", "sept": "09", "september": "09",
	"oct": "10", "october": "10",
	"nov": "11", "november": "11",
	"dec": "12", "december": "12",
}

// IsPresent reports whether s is an open end-date token (present, current, now).
func IsPresent(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "present", "current", "now":
		return true
	}
	return false
}

// Parse normalizes a single date component. An empty input yields "" with no error;
// anything that matches no grammar yields "" and an *UnparseableDateError.
func Parse(s string) (string, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", nil
	}
	if IsPresent(s) {
		return Present, nil
	}
	if yearPattern.MatchString(s) || isoPattern.MatchString(s) {
		return s, nil
	}
	if m := monthYearRegexp.FindStringSubmatch(s); m != nil {
		if mm, ok := months[strings.ToLower(m[1])]; ok {
			return m[2] + "-" + mm, nil
		}
	}
	if i := strings.Index(s, "-"); i >= 0 {
		if y, ok := yearToken(s[:i]); ok {
			return y, nil
		}
	}
	return "", &UnparseableDateError{Value: s}
}

// Normalize is Parse without the error: unknown input degrades to "".
func Normalize(s string) string {
	out, _ := Parse(s)
	return out
}

// ParseDuration splits a duration such as "Jan 2020 - Present" on " - " and
// normalizes both sides. A duration without the separator yields only a start,
// except compact ranges like "20-21" or "2019-2021" whose end year is taken from
// the text after the last dash.
func ParseDuration(s string) (start, end string, err error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", "", nil
	}

	startPart, endPart, found := strings.Cut(s, RangeSeparator)
	if !found {
		start, err = Parse(s)
		if err == nil {
			end = compactEnd(s)
		}
		return start, end, err
	}

	var startErr, endErr error
	start, startErr = Parse(startPart)
	end, endErr = Parse(endPart)
	if startErr != nil {
		return start, end, startErr
	}
	return start, end, endErr
}

// GraduationWindow synthesizes a start and end date for an education entry that only
// states when it ended. This is an approximation, not ground truth:
//
//	"2020"            -> 2016-09, 2020-05 (four year program)
//	"2016 - 2020"     -> 2016-09, 2020-05
//	"2018 - Present"  -> 2018-09, present
//	"2016-2020"       -> 2016-09, 2020-05
//	"2018-Present"    -> 2018-09, present
//	"May 2020"        -> 2016-09, 2020-05
//	"Jan 2016 - 2020" -> 2016-01, 2020-05
//
// Unrecognized input yields empty strings and an *UnparseableDateError.
func GraduationWindow(s string) (start, end string, err error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", "", nil
	}

	if startPart, endPart, found := strings.Cut(s, RangeSeparator); found {
		start = Normalize(startPart)
		if start == "" || start == Present {
			return "", "", &UnparseableDateError{Value: s}
		}
		if yearPattern.MatchString(start) {
			start += "-09"
		}
		end = Normalize(endPart)
		switch {
		case end == "":
			return start, "", &UnparseableDateError{Value: s}
		case yearPattern.MatchString(end):
			end += "-05"
		}
		return start, end, nil
	}

	if yearPattern.MatchString(s) {
		return shiftYear(s, -4) + "-09", s + "-05", nil
	}

	if first, last, ok := compactRange(s); ok {
		if last != Present {
			last += "-05"
		}
		return first + "-09", last, nil
	}

	norm, err := Parse(s)
	if err != nil {
		return "", "", err
	}
	if norm == Present {
		return "", Present, nil
	}
	y, _ := leadingYear(norm)
	return shiftYear(y, -4) + "-09", norm, nil
}

// compactRange splits a range written without the spaced separator, such as
// "2019-2021", "20-21" or "2018-Present", on its last dash. Both ends must be
// years, or the end an open token.
func compactRange(s string) (start, end string, ok bool) {
	if isoPattern.MatchString(s) {
		return "", "", false
	}
	i := strings.Index(s, "-")
	if i <= 0 {
		return "", "", false
	}
	start, ok = yearToken(s[:i])
	if !ok {
		return "", "", false
	}
	end = compactEnd(s)
	if end == "" {
		return "", "", false
	}
	return start, end, true
}

// compactEnd returns the normalized text after the last dash of a compact range:
// a year, Present, or "" when it is neither or s is an ISO date.
func compactEnd(s string) string {
	if isoPattern.MatchString(s) {
		return ""
	}
	i := strings.LastIndex(s, "-")
	if i <= 0 {
		return ""
	}
	tail := s[i+1:]
	if IsPresent(tail) {
		return Present
	}
	y, _ := yearToken(tail)
	return y
}

// yearToken accepts a 4-digit year as-is or a 2-digit year prefixed with "20".
func yearToken(s string) (string, bool) {
	s = strings.TrimSpace(s)
	switch {
	case yearPattern.MatchString(s):
		return s, true
	case twoDigitPattern.MatchString(s):
		return "20" + s, true
	}
	return "", false
}

func leadingYear(s string) (string, bool) {
	norm := Normalize(s)
	if len(norm) < 4 || !yearPattern.MatchString(norm[:4]) {
		return "", false
	}
	return norm[:4], true
}

func shiftYear(year string, delta int) string {
	y, err := strconv.Atoi(year)
	if err != nil {
		return year
	}
	return fmt.Sprintf("%04d", y+delta)
}
