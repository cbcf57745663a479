package notebook

import "strings"

const maxTitleLen = 120

// Title derives a display title from the first non-blank line of a note,
// dropping a leading ATX heading marker. Long titles are truncated.
func Title(content string) string {
	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		line = strings.TrimSpace(strings.TrimLeft(line, "#"))
		line = strings.Join(strings.Fields(line), " ")
		if r := []rune(line); len(r) > maxTitleLen {
			line = string(r[:maxTitleLen])
		}
		return line
	}
	return ""
}
