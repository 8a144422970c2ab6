package changes

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/coreos/go-semver/semver"
)

// ExtractSection returns the bullets written under the heading for version
// vstring (for example "v1.2.0"). It returns an error if the heading is not
// found.
func ExtractSection(r io.Reader, vstring string) (string, error) {
	var (
		vprefix = vstring + "  "
		sc      = bufio.NewScanner(r)
		started = false
		buf     = &strings.Builder{}
	)

	for sc.Scan() {
		line := sc.Text()
		if !started {
			started = strings.HasPrefix(line, vprefix)
			continue
		}

		if versionHeading.MatchString(line) {
			break
		}

		if line == "" {
			continue
		}

		buf.WriteString(line)
		buf.WriteRune('\n')
	}

	if err := sc.Err(); err != nil {
		return "", err
	}

	if !started {
		return "", fmt.Errorf("a change log section for version %s was not found", vstring)
	}

	return buf.String(), nil
}

// ExtractSectionFile is ExtractSection on the named file.
func ExtractSectionFile(fn string, vstring string) (string, error) {
	f, err := os.Open(fn)
	if err != nil {
		return "", err
	}
	defer func() { _ = f.Close() }()

	return ExtractSection(f, vstring)
}

// Stamp copies the change log from r to w, replacing the WIP heading with a
// heading for version v released on date (YYYY-MM-DD). It returns an error if
// there is no WIP heading.
func Stamp(w io.Writer, r io.Reader, v *semver.Version, date string) error {
	sc := bufio.NewScanner(r)
	stamped := false
	for sc.Scan() {
		line := sc.Text()
		if IsWIP(line) && !stamped {
			line = fmt.Sprintf("v%s  %s", v, date)
			stamped = true
		}

		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}

	if err := sc.Err(); err != nil {
		return err
	}

	if !stamped {
		return fmt.Errorf("no WIP section to stamp as v%s", v)
	}

	return nil
}
