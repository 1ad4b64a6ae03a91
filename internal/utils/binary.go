package utils

import "unicode/utf8"

// IsText reports whether data can be emitted verbatim as UTF-8 text.
// NUL bytes are valid UTF-8 and do not disqualify data.
func IsText(data []byte) bool {
	return utf8.Valid(data)
}
