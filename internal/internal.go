package internal

// Version is the kaglyph release version, overridable at build time via
// -ldflags "-X codeberg.org/kakha/kaglyph/internal.Version=...".
var Version = "0.3.0"

// SanitizeFilename creates a safe filename from a string
func SanitizeFilename(s string) string {
	result := ""
	for _, r := range s {
		if isAlphaNumeric(r) || r == '-' || r == '_' {
			result += string(r)
		} else {
			result += "_"
		}
	}
	return result
}

// isAlphaNumeric checks if a rune is alphanumeric (ASCII or Georgian Mkhedruli)
func isAlphaNumeric(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') ||
		(r >= '0' && r <= '9') || (r >= 'ა' && r <= 'ჰ')
}
