package cypher

import (
	"regexp"
	"strings"
)

var fencePattern = regexp.MustCompile("(?s)```[a-zA-Z]*\\s*\\n?(.*?)```")

// ExtractQuery pulls the query out of raw model output. Code fences win over
// surrounding prose; a leading "cypher" tag is dropped.
func ExtractQuery(output string) string {
	out := output
	if m := fencePattern.FindStringSubmatch(output); m != nil {
		out = m[1]
	}
	out = strings.TrimSpace(out)

	if len(out) >= 6 && strings.EqualFold(out[:6], "cypher") {
		rest := out[6:]
		if rest == "" || rest[0] == ':' || rest[0] == ' ' || rest[0] == '\n' || rest[0] == '\t' || rest[0] == '\r' {
			out = strings.TrimSpace(strings.TrimPrefix(rest, ":"))
		}
	}
	return out
}
