package parser

import "strings"

// parseMultilineComment trims a single raw "/* ... */" block's leading and
// trailing comment markers and per-line "*" gutters, producing the text a
// docstring should actually contain. Ported from the original's
// parse_multiline_comment.
func parseMultilineComment(raw string) (string, bool) {
	trimmed := strings.TrimSpace(raw)
	if !strings.HasPrefix(trimmed, "/*") {
		return "", false
	}

	lines := strings.Split(trimmed, "\n")
	if len(lines) == 0 {
		return "", false
	}

	firstLine := strings.TrimPrefix(strings.TrimPrefix(strings.TrimLeft(lines[0], " \t"), "/*"), "*")

	if len(lines) == 1 {
		single := strings.TrimSuffix(strings.TrimSuffix(strings.TrimRight(firstLine, " \t"), "*/"), "*")
		return strings.TrimSpace(single), true
	}

	var result []string
	if strings.TrimSpace(firstLine) != "" {
		result = append(result, strings.TrimPrefix(firstLine, " "))
	}

	for _, line := range lines[1 : len(lines)-1] {
		result = append(result, strings.TrimPrefix(strings.TrimPrefix(strings.TrimLeft(line, " \t"), "*"), " "))
	}

	last := lines[len(lines)-1]
	lastTrimmed := strings.TrimSuffix(strings.TrimSuffix(strings.TrimRight(last, " \t"), "*/"), "*")
	if strings.TrimSpace(lastTrimmed) != "" {
		lastTrimmed = strings.TrimPrefix(strings.TrimPrefix(strings.TrimLeft(lastTrimmed, " \t"), "*"), " ")
		result = append(result, strings.TrimRight(lastTrimmed, " \t"))
	}

	return strings.Join(result, "\n"), true
}

// parseDocstrings joins a run of raw comment blocks immediately preceding a
// declaration into its docstring (spec §4.2, §9).
func parseDocstrings(raw []string) string {
	var parts []string
	for _, r := range raw {
		if s, ok := parseMultilineComment(r); ok {
			parts = append(parts, s)
		}
	}
	return strings.Join(parts, "\n")
}
