// Package ingestion accepts recognized text from the OCR boundary and prepares it for extraction.
package ingestion

import (
	"regexp"
	"strings"
)

var (
	horizontalSpace = regexp.MustCompile(`[ \t\f\v\x{00A0}\x{2007}\x{202F}]+`)
	blankRun        = regexp.MustCompile(`\n{3,}`)
)

// CleanText normalizes OCR output while preserving the blank lines that separate blocks.
// Line endings become LF, runs of spaces collapse, each line is trimmed and
// runs of blank lines shrink to a single blank line.
func CleanText(content string) string {
	if content == "" {
		return ""
	}

	// 1. Normalize line endings (CRLF → LF)
	content = strings.ReplaceAll(content, "\r\n", "\n")
	content = strings.ReplaceAll(content, "\r", "\n")
	content = strings.ReplaceAll(content, "\uFEFF", "")

	lines := strings.Split(content, "\n")
	for i, line := range lines {
		lines[i] = cleanLine(line)
	}

	result := blankRun.ReplaceAllString(strings.Join(lines, "\n"), "\n\n")
	return strings.TrimSpace(result)
}

func cleanLine(line string) string {
	line = horizontalSpace.ReplaceAllString(line, " ")
	return strings.TrimSpace(line)
}

// CountLines returns the number of non-blank lines
func CountLines(content string) int {
	n := 0
	for _, line := range strings.Split(content, "\n") {
		if strings.TrimSpace(line) != "" {
			n++
		}
	}
	return n
}
