package dates

import "fmt"

// UnparseableDateError reports a date string that matched none of the known grammars.
// It is never fatal: callers degrade the value to "".
type UnparseableDateError struct {
	Value string
}

func (e *UnparseableDateError) Error() string {
	return fmt.Sprintf("unparseable date: %q", e.Value)
}
