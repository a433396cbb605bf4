package links

import (
	"regexp"
	"strconv"
	"strings"
)

// Reported links appear one per line as `(id: source target)`, fields
// whitespace-separated, never comma-separated.
var (
	linePattern   = regexp.MustCompile(`^\((\d+):\s+(\d+)\s+(\d+)\)`)
	searchPattern = regexp.MustCompile(`\((\d+):\s+(\d+)\s+(\d+)\)`)
)

// Parse extracts every link from backend output. Blank lines and lines that
// do not match the triple notation are skipped; partial or decorated output
// is tolerated. Empty input yields an empty slice.
func Parse(output string) []Link {
	parsed := []Link{}
	for _, line := range strings.Split(output, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		m := linePattern.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		link, ok := toLink(m)
		if !ok {
			continue
		}
		parsed = append(parsed, link)
	}
	return parsed
}

// ParseFirst returns the first link found anywhere in the output, or nil if
// none matches. Used to recover the backend-assigned id from a change
// report, where the triple may be embedded in surrounding text.
func ParseFirst(output string) *Link {
	m := searchPattern.FindStringSubmatch(output)
	if m == nil {
		return nil
	}
	link, ok := toLink(m)
	if !ok {
		return nil
	}
	return &link
}

func toLink(m []string) (Link, bool) {
	id, err := strconv.ParseInt(m[1], 10, 64)
	if err != nil {
		return Link{}, false
	}
	source, err := strconv.ParseInt(m[2], 10, 64)
	if err != nil {
		return Link{}, false
	}
	target, err := strconv.ParseInt(m[3], 10, 64)
	if err != nil {
		return Link{}, false
	}
	return Link{ID: id, Source: source, Target: target}, true
}
