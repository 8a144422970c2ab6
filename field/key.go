package field

import "unicode"

// IsValidExtensionKey returns true if key may be used as the key of an
// extension pair. A valid key is non-empty and made up entirely of letters and
// digits. Both are judged by their Unicode classification, so non-ASCII
// letters are accepted. Whitespace, punctuation, and control characters are
// not.
func IsValidExtensionKey(key string) bool {
	if key == "" {
		return false
	}

	for _, c := range key {
		if !unicode.IsLetter(c) && !unicode.IsDigit(c) {
			return false
		}
	}

	return true
}

// IsValidExtensionKeyPtr is IsValidExtensionKey for a key that might not have
// been supplied. A nil key is never valid.
func IsValidExtensionKeyPtr(key *string) bool {
	return key != nil && IsValidExtensionKey(*key)
}
