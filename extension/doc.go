// Package extension provides the key=value block that follows the header of a
// CEF line. Pairs are kept in the order they are added so that output is
// stable. Keys are checked with field.IsValidExtensionKey when they are added
// and values are escaped with field.EscapeExtensionValue when the block is
// formatted.
package extension
