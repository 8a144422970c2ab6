package header

// Break represents the linebreak written after each CEF line.
type Break string

// Constants for use when selecting a line break to end CEF lines with. If you
// don't know what to pick, choose LF, which is what syslog expects.
const (
	Meh  Break = ""         // Let the writer decide
	CRLF Break = "\x0d\x0a" // \r\n - Network linebreak
	LF   Break = "\x0a"     // \n - Unix/Linux/BSD linebreak
)

// String returns the break as a string.
func (b Break) String() string {
	return string(b)
}

// Bytes returns the break as a slice of bytes.
func (b Break) Bytes() []byte {
	return []byte(b)
}

// OrDefault returns b, or LF if b is Meh.
func (b Break) OrDefault() Break {
	if b == Meh {
		return LF
	}
	return b
}
