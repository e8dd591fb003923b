package poller

import (
	"regexp"
	"strings"
)

// referencePattern matches a work item URL with any depth of project
// hierarchy, e.g. https://host/group/sub/project/-/merge_requests/123.
var referencePattern = regexp.MustCompile(`https?://[^\s<>]+/-/merge_requests/\d+`)

// ExtractReference returns the first work item URL found in the body.
// Enclosing angle brackets are excluded by the pattern itself; trailing
// punctuation is stripped.
func ExtractReference(body string) (string, bool) {
	match := referencePattern.FindString(body)
	if match == "" {
		return "", false
	}

	match = strings.TrimRight(match, ">")
	match = strings.TrimRight(match, ".")
	return match, true
}
