// Package scanner holds bufio.SplitFunc helpers for line-oriented input.
package scanner

import (
	"bufio"
	"bytes"
)

// ExitByAdvance wraps split so that the scan ends only when the input is used
// up, not whenever split consumes input without producing a token.
//
// A bufio.Scanner stops at EOF the first time its SplitFunc returns a nil
// token, even if data remains. A SplitFunc that skips over some input would
// otherwise need its own inner loop; this wrapper is that loop.
func ExitByAdvance(split bufio.SplitFunc) bufio.SplitFunc {
	return func(data []byte, atEOF bool) (int, []byte, error) {
		totalAdvance := 0
		for {
			advance, token, err := split(data, atEOF)

			// advance == 0 means split wants more input
			if token != nil || err != nil || advance == 0 || len(data)-advance <= 0 {
				return totalAdvance + advance, token, err
			}

			data = data[advance:]
			totalAdvance += advance
		}
	}
}

// Lines splits input into lines with surrounding white space trimmed,
// skipping lines that are blank, and keeps count of every line it consumes.
type Lines struct {
	n int
}

// Line returns the number of the line most recently consumed, counting from
// 1. After a token is scanned, it is the line number of that token.
func (l *Lines) Line() int {
	return l.n
}

// Split returns the SplitFunc to hand to bufio.Scanner.Split.
func (l *Lines) Split() bufio.SplitFunc {
	return ExitByAdvance(func(data []byte, atEOF bool) (int, []byte, error) {
		advance, token, err := bufio.ScanLines(data, atEOF)
		if advance == 0 || err != nil {
			return advance, token, err
		}

		l.n++

		token = bytes.TrimSpace(token)
		if len(token) == 0 {
			return advance, nil, nil
		}

		return advance, token, nil
	})
}
