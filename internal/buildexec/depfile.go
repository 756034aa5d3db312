package buildexec

import (
	"bufio"
	"bytes"
	"strings"
)

// ParseGNUDepfile parses a GNU make dependency rule: a single rule whose
// target is the object path and whose prerequisites are whitespace
// separated source paths, with `\`-line continuations and the standard
// `\ `, `\\`, `\#` escapes.
func ParseGNUDepfile(data []byte) (target string, prereqs []string, err error) {
	joined := joinContinuations(string(data))
	idx := strings.IndexByte(joined, ':')
	if idx < 0 {
		return "", nil, nil
	}
	target = strings.TrimSpace(joined[:idx])
	rest := joined[idx+1:]
	prereqs = splitDepWords(rest)
	return target, prereqs, nil
}

// joinContinuations removes `\`-newline continuations, turning a
// multi-line rule into one logical line.
func joinContinuations(s string) string {
	s = strings.ReplaceAll(s, "\\\r\n", " ")
	s = strings.ReplaceAll(s, "\\\n", " ")
	return s
}

// splitDepWords splits on unescaped whitespace, unescaping `\ `, `\\`, and
// `\#` within a word.
func splitDepWords(s string) []string {
	var words []string
	var cur strings.Builder
	inWord := false
	runes := []rune(s)
	for i := 0; i < len(runes); i++ {
		c := runes[i]
		if c == '\\' && i+1 < len(runes) {
			next := runes[i+1]
			if next == ' ' || next == '\\' || next == '#' {
				cur.WriteRune(next)
				inWord = true
				i++
				continue
			}
		}
		if c == ' ' || c == '\t' || c == '\n' || c == '\r' {
			if inWord {
				words = append(words, cur.String())
				cur.Reset()
				inWord = false
			}
			continue
		}
		cur.WriteRune(c)
		inWord = true
	}
	if inWord {
		words = append(words, cur.String())
	}
	return words
}

// msvcShowIncludesPrefix is the literal prefix MSVC's /showIncludes emits
// before every included file's path; padding width (which encodes include
// depth) is discarded.
const msvcShowIncludesPrefix = "Note: including file:"

// ParseMSVCShowIncludes extracts included file paths from captured stdout
// containing `/showIncludes` output lines.
func ParseMSVCShowIncludes(stdout []byte) []string {
	var includes []string
	scanner := bufio.NewScanner(bytes.NewReader(stdout))
	for scanner.Scan() {
		line := scanner.Text()
		if !strings.HasPrefix(line, msvcShowIncludesPrefix) {
			continue
		}
		path := strings.TrimSpace(strings.TrimPrefix(line, msvcShowIncludesPrefix))
		if path != "" {
			includes = append(includes, path)
		}
	}
	return includes
}
