package fixedwidth

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Record reads fields out of one fixed-width line. Positions are 1-based
// columns as printed in the bank format descriptions. The first failing read
// sticks; callers read every field they need and then check Err once.
type Record struct {
	runes []rune
	err   error
}

// NewRecord wraps a single line. A trailing carriage return is dropped.
func NewRecord(line string) *Record {
	return &Record{runes: []rune(strings.TrimRight(line, "\r\n"))}
}

// Len returns the number of columns in the record.
func (r *Record) Len() int {
	return len(r.runes)
}

// Err returns the first error met while reading fields.
func (r *Record) Err() error {
	return r.err
}

func (r *Record) fail(err error) {
	if r.err == nil {
		r.err = err
	}
}

// Raw returns the field verbatim.
func (r *Record) Raw(start, length int) string {
	if start < 1 || length < 0 {
		r.fail(fmt.Errorf("%w: field %d+%d", ErrInvalidField, start, length))
		return ""
	}
	end := start - 1 + length
	if end > len(r.runes) {
		r.fail(fmt.Errorf("%w: field %d-%d, record has %d columns", ErrShortRecord, start, end, len(r.runes)))
		return ""
	}
	return string(r.runes[start-1 : end])
}

// Text returns the field with surrounding spaces removed.
func (r *Record) Text(start, length int) string {
	return strings.TrimSpace(r.Raw(start, length))
}

// Int parses a zero-padded numeric field.
func (r *Record) Int(start, length int) int64 {
	s := r.Text(start, length)
	if r.err != nil {
		return 0
	}
	if s == "" {
		r.fail(fmt.Errorf("%w: empty number at column %d", ErrInvalidField, start))
		return 0
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		r.fail(fmt.Errorf("%w: number at column %d: %v", ErrInvalidField, start, err))
		return 0
	}
	return n
}

// OptionalInt parses a numeric field that may be blank.
func (r *Record) OptionalInt(start, length int) int64 {
	if r.Text(start, length) == "" {
		return 0
	}
	return r.Int(start, length)
}

// Date parses a date field with the given layout. Dates are in UTC.
func (r *Record) Date(start, length int, layout string) time.Time {
	s := r.Raw(start, length)
	if r.err != nil {
		return time.Time{}
	}
	t, err := time.Parse(layout, s)
	if err != nil {
		r.fail(fmt.Errorf("%w: date at column %d: %v", ErrInvalidField, start, err))
		return time.Time{}
	}
	return t
}

// OptionalDate parses a date field that may be blank or all zeros.
func (r *Record) OptionalDate(start, length int, layout string) *time.Time {
	s := r.Text(start, length)
	if s == "" || strings.Trim(s, "0") == "" {
		return nil
	}
	t := r.Date(start, length, layout)
	if r.err != nil {
		return nil
	}
	return &t
}
