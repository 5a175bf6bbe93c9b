package studytutor

import (
	"regexp"
	"strings"
)

var (
	emphasisMarkers = regexp.MustCompile(`\*\*|\*`)
	listMarker      = regexp.MustCompile(`^(\d+\.\s|[-•]\s)`)
)

// FormatBullets normalizes raw model text into a bulleted form suitable for
// display. Markdown emphasis markers are stripped and blank lines dropped.
// Lines that already carry a numbered or bullet marker are kept verbatim;
// every other line gets a "- " prefix. Lines are joined with <br>.
func FormatBullets(text string) string {
	text = emphasisMarkers.ReplaceAllString(text, "")

	var formatted []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if listMarker.MatchString(line) {
			formatted = append(formatted, line)
		} else {
			formatted = append(formatted, "- "+line)
		}
	}
	return strings.Join(formatted, "<br>")
}
