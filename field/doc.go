// Package field provides the low-level string handling for the fields of a CEF
// line. A CEF line is made up of a pipe-delimited header followed by an
// extension block of key=value pairs, and each of those positions has its own
// rules about which characters must be escaped and which are forbidden
// outright.
//
// Header fields must have every backslash and pipe escaped with a backslash.
// Extension values must have every backslash and equal sign escaped.
// Extension keys are never escaped. They are either valid or they are not.
// No field may contain a carriage return or a line feed because CEF is a
// line-oriented format. Such values are rejected rather than sanitized.
//
// Every function in this package is stateless and safe to call from many
// goroutines at once.
package field
