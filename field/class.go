package field

// Class identifies which part of a CEF line a field value belongs to. The class
// determines the escaping and validity rules that apply to the value.
type Class int

// The field classes of a CEF line.
const (
	Header         Class = iota // a position in the pipe-delimited header
	ExtensionValue              // the value half of an extension pair
	ExtensionKey                // the key half of an extension pair
)

// String returns a human-readable name for the class.
func (c Class) String() string {
	switch c {
	case Header:
		return "header"
	case ExtensionValue:
		return "extension value"
	case ExtensionKey:
		return "extension key"
	default:
		return "unknown"
	}
}
