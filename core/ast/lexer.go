package ast

import "strings"

// stripComments blanks out // and /* */ comments. Newlines are kept so
// offsets still map to the original line numbers, and string or char
// literals are left untouched.
func stripComments(src string) string {
	var b strings.Builder
	b.Grow(len(src))

	for i := 0; i < len(src); i++ {
		c := src[i]
		switch {
		case c == '"' || c == '\'':
			end := literalEnd(src, i)
			b.WriteString(src[i:end])
			i = end - 1
		case c == '/' && i+1 < len(src) && src[i+1] == '/':
			for i < len(src) && src[i] != '\n' {
				b.WriteByte(' ')
				i++
			}
			if i < len(src) {
				b.WriteByte('\n')
			}
		case c == '/' && i+1 < len(src) && src[i+1] == '*':
			b.WriteString("  ")
			i += 2
			for i < len(src) && !(src[i] == '*' && i+1 < len(src) && src[i+1] == '/') {
				if src[i] == '\n' {
					b.WriteByte('\n')
				} else {
					b.WriteByte(' ')
				}
				i++
			}
			if i < len(src) {
				b.WriteString("  ")
				i++
			}
		default:
			b.WriteByte(c)
		}
	}
	return b.String()
}

// literalEnd returns the index just past the string or char literal that
// starts at src[start]. Unterminated literals run to the end of the line.
func literalEnd(src string, start int) int {
	quote := src[start]
	for i := start + 1; i < len(src); i++ {
		switch src[i] {
		case '\\':
			i++
		case quote:
			return i + 1
		case '\n':
			return i
		}
	}
	return len(src)
}

// matchBrace returns the index of the '}' closing the '{' at open, or -1.
func matchBrace(src string, open int) int {
	return matchPair(src, open, '{', '}')
}

// matchParen returns the index of the ')' closing the '(' at open, or -1.
func matchParen(src string, open int) int {
	return matchPair(src, open, '(', ')')
}

func matchPair(src string, open int, opening, closing byte) int {
	depth := 0
	for i := open; i < len(src); i++ {
		switch src[i] {
		case '"', '\'':
			i = literalEnd(src, i) - 1
		case opening:
			depth++
		case closing:
			depth--
			if depth == 0 {
				return i
			}
		}
	}
	return -1
}

// stripAnnotations blanks out annotations, including any parenthesized
// arguments, so @Named("q") String q reads as String q.
func stripAnnotations(s string) string {
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		switch c := s[i]; {
		case c == '"' || c == '\'':
			end := literalEnd(s, i)
			b.WriteString(s[i:end])
			i = end - 1
		case c == '@':
			j := i + 1
			for j < len(s) && (isIdentByte(s[j]) || s[j] == '.') {
				j++
			}
			k := j
			for k < len(s) && (s[k] == ' ' || s[k] == '\t' || s[k] == '\n') {
				k++
			}
			if k < len(s) && s[k] == '(' {
				if end := matchParen(s, k); end >= 0 {
					j = end + 1
				} else {
					j = len(s)
				}
			}
			b.WriteByte(' ')
			i = j - 1
		default:
			b.WriteByte(c)
		}
	}
	return b.String()
}

func isIdentByte(c byte) bool {
	return c == '_' || c == '$' || c >= '0' && c <= '9' || c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z'
}

// splitTopLevel splits s on sep where sep is outside literals, parentheses
// and generic brackets.
func splitTopLevel(s string, sep byte) []string {
	var parts []string
	depth := 0
	last := 0
	for i := 0; i < len(s); i++ {
		switch c := s[i]; c {
		case '"', '\'':
			i = literalEnd(s, i) - 1
		case '(', '<', '[':
			depth++
		case ')', '>', ']':
			depth--
		case sep:
			if depth == 0 {
				parts = append(parts, s[last:i])
				last = i + 1
			}
		}
	}
	return append(parts, s[last:])
}

func lineAt(src string, offset int) int {
	return strings.Count(src[:offset], "\n") + 1
}
