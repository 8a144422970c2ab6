// Package changes reads and checks the project change log.
//
// The change log is a plain text file made of version sections, newest first.
// Each section begins with a heading holding the version and release date, two
// spaces apart, followed by a blank line and a bulleted list:
//
//	WIP  TBD
//
//	 * Unreleased change.
//
//	v0.1.0  2026-10-01
//
//	 * First release.
//	   A bullet may continue on an indented line.
package changes

import (
	"bufio"
	"fmt"
	"io"
	"regexp"
	"strings"

	"github.com/coreos/go-semver/semver"
)

// CheckMode selects the extra rules applied by the linter.
type CheckMode int

const (
	// CheckStandard allows, but does not require, a WIP section on line 1.
	CheckStandard CheckMode = iota

	// CheckPreRelease requires a WIP section on line 1.
	CheckPreRelease

	// CheckRelease forbids a WIP section.
	CheckRelease
)

// Linter checks a change log for formatting problems.
type Linter struct {
	r    io.Reader
	mode CheckMode
}

// Failure is a single problem found by the linter.
type Failure struct {
	Line    int
	Message string
}

// Failures is every problem found by the linter, in line order.
type Failures []Failure

func (fs Failures) String() string {
	buf := &strings.Builder{}
	for i, f := range fs {
		if i > 0 {
			_, _ = fmt.Fprint(buf, "\n")
		}
		_, _ = fmt.Fprintf(buf, " * Line %d: %s", f.Line, f.Message)
	}
	return buf.String()
}

// Error is returned by Check when the change log has problems.
type Error struct {
	Failures
}

func (e *Error) Error() string {
	return fmt.Sprintf("change log linter check failed:\n%s", e.Failures.String())
}

// NewLinter returns a linter reading the change log from r.
func NewLinter(r io.Reader, mode CheckMode) *Linter {
	return &Linter{r, mode}
}

type checkStatus struct {
	previousVersion *semver.Version
	previousDate    string
	previousLine    int

	previousLineWasBlank  bool
	previousLineWasBullet bool

	Failures
}

func (s *checkStatus) Fail(lineNumber int, msg string) {
	s.Failures = append(s.Failures, Failure{lineNumber, msg})
}

func (s *checkStatus) Failf(lineNumber int, f string, args ...any) {
	s.Fail(lineNumber, fmt.Sprintf(f, args...))
}

// Check reads the whole change log. It returns an *Error listing every
// problem, or nil if there are none.
func (l *Linter) Check() error {
	status := checkStatus{}

	s := bufio.NewScanner(l.r)
	n := 0
	for s.Scan() {
		n++
		l.checkLine(n, s.Text(), &status)
	}

	if err := s.Err(); err != nil {
		return err
	}

	if n == 0 {
		status.Fail(0, "change log is empty")
	}

	if len(status.Failures) > 0 {
		return &Error{status.Failures}
	}
	return nil
}

var (
	versionHeading      = regexp.MustCompile(`^v(\d\S+) {2}(20\d\d-\d\d-\d\d)$`)
	logLineStart        = regexp.MustCompile(`^ \* (.*)$`)
	logLineContinuation = regexp.MustCompile(`^ {3}(.*)$`)
	whitespaceLine      = regexp.MustCompile(`^\s+$`)
)

// IsWIP reports whether line is the heading of the unreleased section.
func IsWIP(line string) bool {
	return line == "WIP" || line == "WIP  TBD"
}

func (l *Linter) checkLine(lineNumber int, line string, status *checkStatus) {
	lineIsBlank := false
	lineIsBullet := false

	defer func() {
		status.previousLineWasBlank = lineIsBlank
		status.previousLineWasBullet = lineIsBullet
	}()

	if IsWIP(line) {
		if lineNumber > 1 {
			status.Fail(lineNumber, "WIP found after line 1")
		}

		if l.mode == CheckRelease {
			status.Fail(lineNumber, "found WIP line during release")
		}

		status.previousLine = lineNumber
		return
	}

	if l.mode == CheckPreRelease && lineNumber == 1 {
		status.Fail(lineNumber, "WIP not found during pre-release check")
	}

	if m := versionHeading.FindStringSubmatch(line); m != nil {
		ver, date := m[1], m[2]
		status.previousLine = lineNumber

		version, err := semver.NewVersion(ver)
		if err != nil {
			status.Failf(lineNumber, "unable to parse version number in heading: %v", err)
			return
		}

		// newest first
		if status.previousVersion != nil && !version.LessThan(*status.previousVersion) {
			status.Failf(lineNumber, "version %s is not older than %s", version, status.previousVersion)
		}

		if status.previousDate != "" && status.previousDate < date {
			status.Failf(lineNumber, "date %s is later than %s", date, status.previousDate)
		}

		if lineNumber != 1 && !status.previousLineWasBlank {
			status.Fail(lineNumber, "version heading line missing blank line before it")
		}

		status.previousVersion = version
		status.previousDate = date
		return
	}

	if logLineStart.MatchString(line) {
		switch {
		case status.previousLine == 0:
			status.Fail(lineNumber, "log bullet before first version heading or WIP")
		case lineNumber-1 == status.previousLine:
			status.Fail(lineNumber, "missing blank line before log bullet")
		case lineNumber > status.previousLine+2 && status.previousLineWasBlank:
			status.Fail(lineNumber, "extra blank line before log bullet")
		}

		lineIsBullet = true
		return
	}

	if logLineContinuation.MatchString(line) {
		if status.previousLineWasBullet {
			lineIsBullet = true
		} else {
			status.Fail(lineNumber, "log line continuation has no bullet to continue")
		}
		return
	}

	if line == "" {
		if status.previousLineWasBlank {
			status.Fail(lineNumber, "consecutive blank lines")
		}

		lineIsBlank = true
		return
	}

	if whitespaceLine.MatchString(line) {
		status.Fail(lineNumber, "line looks blank, but has spaces in it")
		return
	}

	status.Fail(lineNumber, "badly formatted line")
}
