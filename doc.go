// Package cef writes security events in the Common Event Format. A CEF line is
// a pipe-delimited header followed by a block of key=value extension pairs:
//
//	CEF:0|Security|threatmanager|1.0|100|worm successfully stopped|10|src=10.0.0.1 dst=2.1.2.2
//
// This library only writes CEF. It does not parse it.
//
// The code is split according to part of the line. The field package holds the
// escaping and validity rules, which differ between header fields, extension
// values, and extension keys. The header package holds the fixed prefix and the
// extension package holds the pairs. This package ties those together as an
// Event, which can be formatted to a string or written to any io.Writer.
//
// Every field is escaped on output, so values may be set exactly as the device
// reported them. The one thing that cannot be escaped is a line break: CEF is
// line-oriented, so a carriage return or line feed in any field makes the event
// impossible to format and an error matching field.ErrInvalidField is returned.
//
// For moving events somewhere, see the sink package, which can write lines to
// an io.Writer or publish them to Kafka.
package cef
