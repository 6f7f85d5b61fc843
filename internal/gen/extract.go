package gen

import (
	"regexp"
	"strings"
)

var classNamePattern = regexp.MustCompile(`(?m)\b(?:public|private|protected)?\s*(?:final\s+|abstract\s+)?class\s+(\w+)`)

// StripCodeFence recovers raw code from a fenced block the backend may have
// wrapped around its answer. Text without a fence is returned trimmed.
func StripCodeFence(text string) string {
	trimmed := strings.TrimSpace(text)
	start := strings.Index(trimmed, "```")
	if start < 0 {
		return trimmed
	}
	end := strings.LastIndex(trimmed, "```")
	if end <= start {
		return trimmed
	}
	inner := trimmed[start+3 : end]
	// Drop a language tag such as "java" on the opening fence line.
	if newline := strings.Index(inner, "\n"); newline >= 0 {
		firstLine := strings.TrimSpace(inner[:newline])
		if firstLine != "" && !strings.ContainsAny(firstLine, " \t{};") {
			inner = inner[newline+1:]
		}
	}
	return strings.TrimSpace(inner)
}

// ExtractClassName scans for the primary class identifier in a candidate.
// Returns empty when no class declaration is found; callers fall back to
// the unit ID.
func ExtractClassName(code string) string {
	match := classNamePattern.FindStringSubmatch(code)
	if match == nil {
		return ""
	}
	return match[1]
}
