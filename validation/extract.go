package validation

import (
	"regexp"
	"unicode"
	"unicode/utf8"
)

// VideoIDLength is the length of a bare video identifier.
const VideoIDLength = 11

// Tried in order; the first match wins. The capture stops at the next
// '&', '?', '#' or newline.
var videoURLPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?:youtube\.com/watch\?v=|youtu\.be/|youtube\.com/embed/)([^&\n?#]+)`),
	regexp.MustCompile(`youtube\.com/watch\?.*v=([^&\n?#]+)`),
}

// ExtractVideoID resolves a video URL or bare identifier to the canonical
// identifier. It reports false when none can be derived.
//
// Identifiers captured from a URL are returned as captured; only the bare
// form is held to the alphanumeric rule.
func ExtractVideoID(input string) (string, bool) {
	for _, re := range videoURLPatterns {
		if m := re.FindStringSubmatch(input); len(m) > 1 {
			return m[1], true
		}
	}

	if IsBareVideoID(input) {
		return input, true
	}
	return "", false
}

// IsBareVideoID reports whether s is exactly VideoIDLength letters or digits.
func IsBareVideoID(s string) bool {
	if utf8.RuneCountInString(s) != VideoIDLength {
		return false
	}
	for _, r := range s {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}
