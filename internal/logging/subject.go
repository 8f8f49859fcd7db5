package logging

import "strings"

// FormatSubject builds the source/title subject string used in console output.
func FormatSubject(source, titleKey string) string {
	source = strings.TrimSpace(source)
	titleKey = strings.TrimSpace(titleKey)
	switch {
	case source != "" && titleKey != "":
		return source + " · " + titleKey
	case source != "":
		return source
	default:
		return titleKey
	}
}
