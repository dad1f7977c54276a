package pdftext

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

var (
	controlChars   = regexp.MustCompile(`[\x00-\x08\x0B\x0C\x0E-\x1F\x7F]`)
	invisibleChars = regexp.MustCompile(`[\x{200B}-\x{200D}\x{FEFF}\x{00AD}\x{FFFD}\x{FFFF}\x{E000}-\x{F8FF}]`)
	cidRefs        = regexp.MustCompile(`\(cid:\d+\)`)
	escapedUnicode = regexp.MustCompile(`\\u[0-9a-fA-F]{4}`)
	longTokens     = regexp.MustCompile(`[A-Za-z0-9_-]{25,}`)
	encodedLine    = regexp.MustCompile(`^[A-Za-z0-9+/=_-]{30,}$`)
	pageNumber     = regexp.MustCompile(`^\d{1,3}$`)
	spaceRuns      = regexp.MustCompile(`[ \t]+`)
)

const (
	loneBullets = "•·○●■□▪▫"

	// Lines at least this long are kept only once.
	minRepeatedLine = 10
)

// Clean strips extraction artifacts from text: control and zero-width
// characters, private-use glyphs, "(cid:N)" references, hash-like tokens,
// repeated lines, page numbers and stray bullets. Whitespace is collapsed
// and at most one blank line separates paragraphs.
func Clean(text string) string {
	text = controlChars.ReplaceAllString(text, "")
	text = invisibleChars.ReplaceAllString(text, "")
	text = cidRefs.ReplaceAllString(text, "")
	text = escapedUnicode.ReplaceAllString(text, "")
	text = longTokens.ReplaceAllStringFunc(text, func(tok string) string {
		if hashLike(tok) {
			return ""
		}
		return tok
	})

	seen := make(map[string]struct{})
	out := make([]string, 0, strings.Count(text, "\n")+1)
	blank := true

	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(spaceRuns.ReplaceAllString(line, " "))

		if garbled(line) || pageNumber.MatchString(line) || loneBullet(line) {
			continue
		}

		if line == "" {
			if !blank {
				out = append(out, "")
			}
			blank = true
			continue
		}

		if utf8.RuneCountInString(line) >= minRepeatedLine {
			if _, dup := seen[line]; dup {
				continue
			}
			seen[line] = struct{}{}
		}

		out = append(out, line)
		blank = false
	}

	return strings.TrimSpace(strings.Join(out, "\n"))
}

func loneBullet(line string) bool {
	return utf8.RuneCountInString(line) == 1 && strings.ContainsAny(line, loneBullets)
}

// hashLike reports tokens that look like digests or encoded blobs rather
// than words.
func hashLike(s string) bool {
	n := utf8.RuneCountInString(s)
	if n < 20 || strings.ContainsFunc(s, unicode.IsSpace) {
		return false
	}

	var lower, upper, digits int
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z':
			lower++
		case r >= 'A' && r <= 'Z':
			upper++
		case r >= '0' && r <= '9':
			digits++
		}
	}

	if n > 25 && lower > 0 && upper > 0 && digits > 0 && float64(lower+upper+digits)/float64(n) > 0.9 {
		return true
	}

	return encodedLine.MatchString(s)
}

// garbled reports lines that are encoded blobs or mostly symbols.
func garbled(line string) bool {
	if line == "" {
		return false
	}
	if hashLike(line) {
		return true
	}

	n := utf8.RuneCountInString(line)
	if n <= 5 {
		return false
	}

	var meaningful int
	for _, r := range line {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_' {
			meaningful++
		}
	}

	return float64(meaningful)/float64(n) < 0.3
}
