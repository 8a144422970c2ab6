package header

import (
	"fmt"
	"strconv"
	"strings"
)

// Severity is the importance of an event. CEF allows either an integer from 0
// to 10 or one of the named levels. The zero value is the numeric severity 0.
type Severity struct {
	name  string
	value int
}

// The named severity levels.
var (
	Unknown  = Severity{name: "Unknown", value: -1}
	Low      = Severity{name: "Low", value: 2}
	Medium   = Severity{name: "Medium", value: 5}
	High     = Severity{name: "High", value: 7}
	VeryHigh = Severity{name: "Very-High", value: 9}
)

var namedSeverities = []Severity{Unknown, Low, Medium, High, VeryHigh}

// SeverityFromInt returns a numeric severity. It returns an error if n is not
// in the range 0 to 10.
func SeverityFromInt(n int) (Severity, error) {
	if n < 0 || n > 10 {
		return Severity{}, fmt.Errorf("%w: %d", ErrBadSeverity, n)
	}
	return Severity{value: n}, nil
}

// ParseSeverity parses either a number from 0 to 10 or one of the names
// Unknown, Low, Medium, High, or Very-High. Names are matched without regard to
// case, and "VeryHigh" and "Very High" are accepted for Very-High.
func ParseSeverity(s string) (Severity, error) {
	s = strings.TrimSpace(s)
	if n, err := strconv.Atoi(s); err == nil {
		return SeverityFromInt(n)
	}

	folded := strings.NewReplacer("-", "", " ", "").Replace(s)
	for _, sev := range namedSeverities {
		if strings.EqualFold(folded, strings.ReplaceAll(sev.name, "-", "")) {
			return sev, nil
		}
	}

	return Severity{}, fmt.Errorf("%w: %q", ErrBadSeverity, s)
}

// IsNamed returns true if the severity is one of the named levels rather than
// a number.
func (s Severity) IsNamed() bool {
	return s.name != ""
}

// Int returns the numeric severity. Named levels map to a representative
// number, and Unknown maps to -1.
func (s Severity) Int() int {
	return s.value
}

// Level returns the named level a severity belongs to. Numeric severities
// 0-3 are Low, 4-6 Medium, 7-8 High, and 9-10 Very-High.
func (s Severity) Level() Severity {
	if s.IsNamed() {
		return s
	}

	switch {
	case s.value <= 3:
		return Low
	case s.value <= 6:
		return Medium
	case s.value <= 8:
		return High
	default:
		return VeryHigh
	}
}

// String returns the severity as it appears in a CEF header.
func (s Severity) String() string {
	if s.IsNamed() {
		return s.name
	}
	return strconv.Itoa(s.value)
}

// MarshalText implements encoding.TextMarshaler.
func (s Severity) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler using ParseSeverity.
func (s *Severity) UnmarshalText(b []byte) error {
	sev, err := ParseSeverity(string(b))
	if err != nil {
		return err
	}
	*s = sev
	return nil
}
