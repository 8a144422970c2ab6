// Package header provides the fixed, pipe-delimited prefix of a CEF line. It
// holds the version, the identity of the reporting device, the signature ID,
// the event name, and the severity, and it knows how to escape those fields
// into their position on the wire.
package header
