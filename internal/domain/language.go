package domain

import "slices"

// Languages is the recognized set of preferred languages offered to users.
// Any language tag is accepted by the session; this set documents the
// expected domain.
var Languages = []string{"zh-Hans", "vi", "th", "id"}

// DefaultLanguage is the first recognized language.
var DefaultLanguage = Languages[0]

var languageNames = map[string]string{
	"zh-Hans": "Chinese (Simplified)",
	"vi":      "Vietnamese",
	"th":      "Thai",
	"id":      "Indonesian",
}

// IsRecognizedLanguage reports whether tag is in Languages.
func IsRecognizedLanguage(tag string) bool {
	return slices.Contains(Languages, tag)
}

// LanguageName returns a human-readable name for tag, or tag itself.
func LanguageName(tag string) string {
	if n, ok := languageNames[tag]; ok {
		return n
	}
	return tag
}
