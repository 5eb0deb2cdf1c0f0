// Package normalizers tidies the help text of commands.
package normalizers

import (
	"strings"
)

const Indentation = `  `

// LongDesc trims a long description and removes the indentation shared by
// all of its lines, so it can be written as an indented raw string.
func LongDesc(s string) string {
	return strings.Join(dedent(strings.TrimSpace(s)), "\n")
}

// Examples dedents examples and then indents every line by Indentation.
// Relative indentation inside an example is kept.
func Examples(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return s
	}
	lines := dedent(s)
	for i, line := range lines {
		if line != "" {
			lines[i] = Indentation + line
		}
	}
	return strings.Join(lines, "\n")
}

// dedent splits s into lines and strips their common leading whitespace.
// The first line is ignored when measuring since TrimSpace removed its
// indentation already.
func dedent(s string) []string {
	lines := strings.Split(strings.ReplaceAll(s, "\t", Indentation), "\n")
	common := -1
	for _, line := range lines[1:] {
		if strings.TrimSpace(line) == "" {
			continue
		}
		n := len(line) - len(strings.TrimLeft(line, " "))
		if common < 0 || n < common {
			common = n
		}
	}
	for i, line := range lines {
		switch {
		case strings.TrimSpace(line) == "":
			lines[i] = ""
		case i > 0 && common > 0:
			lines[i] = strings.TrimRight(line[common:], " ")
		default:
			lines[i] = strings.TrimRight(line, " ")
		}
	}
	return lines
}
