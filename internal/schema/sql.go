package schema

import (
	"strings"
)

// RemoveComments strips line and block comments in one pass. Quoted
// literals and identifiers are copied untouched. Newlines inside comments
// are kept so line numbers stay valid.
func RemoveComments(sql string) string {
	var result strings.Builder
	result.Grow(len(sql))

	var quote byte
	for i := 0; i < len(sql); i++ {
		c := sql[i]

		if quote != 0 {
			result.WriteByte(c)
			if c == quote {
				quote = 0
			}
			continue
		}

		switch {
		case c == '\'' || c == '"' || c == '`':
			quote = c
			result.WriteByte(c)
		case c == '-' && i+1 < len(sql) && sql[i+1] == '-':
			for i < len(sql) && sql[i] != '\n' {
				i++
			}
			if i < len(sql) {
				result.WriteByte('\n')
			}
		case c == '/' && i+1 < len(sql) && sql[i+1] == '*':
			end := strings.Index(sql[i+2:], "*/")
			comment := sql[i+2:]
			if end >= 0 {
				comment = comment[:end]
			}
			result.WriteString(strings.Repeat("\n", strings.Count(comment, "\n")))
			if end < 0 {
				i = len(sql)
			} else {
				i += end + 3
			}
			result.WriteByte(' ')
		default:
			result.WriteByte(c)
		}
	}

	return result.String()
}

// SplitColumns splits a table body on top-level commas, so that
// numeric(10,2) or a multi-column UNIQUE stays in one piece.
func SplitColumns(columnsStr string) []string {
	result := make([]string, 0, 8)
	var current strings.Builder
	current.Grow(64)
	parenDepth := 0
	inString := false

	for i := 0; i < len(columnsStr); i++ {
		char := columnsStr[i]
		switch {
		case char == '\'':
			inString = !inString
			current.WriteByte(char)
		case inString:
			current.WriteByte(char)
		case char == '(':
			parenDepth++
			current.WriteByte(char)
		case char == ')':
			parenDepth--
			current.WriteByte(char)
		case char == ',' && parenDepth == 0:
			result = append(result, current.String())
			current.Reset()
			current.Grow(64)
		default:
			current.WriteByte(char)
		}
	}

	if strings.TrimSpace(current.String()) != "" {
		result = append(result, current.String())
	}

	return result
}

// matchingParen returns the index of the parenthesis closing the one at
// open, or -1 when the text ends first. Quoted literals and identifiers are
// skipped.
func matchingParen(text string, open int) int {
	depth := 0
	var quote byte
	for i := open; i < len(text); i++ {
		c := text[i]
		if quote != 0 {
			if c == quote {
				quote = 0
			}
			continue
		}
		switch c {
		case '\'', '"', '`':
			quote = c
		case '(':
			depth++
		case ')':
			depth--
			if depth == 0 {
				return i
			}
		}
	}
	return -1
}

// splitIdentifierList turns `"a", b , 'c'` into [a b c].
func splitIdentifierList(list string) []string {
	var cols []string
	for _, c := range strings.Split(list, ",") {
		c = strings.Trim(strings.TrimSpace(c), "\"'`")
		if c != "" {
			cols = append(cols, c)
		}
	}
	return cols
}

func hasConstraintPrefix(entry string) bool {
	upper := strings.ToUpper(entry)
	for _, prefix := range constraintPrefixes {
		if strings.HasPrefix(upper, prefix) {
			rest := upper[len(prefix):]
			if rest == "" || rest[0] == ' ' || rest[0] == '(' || rest[0] == '\t' || rest[0] == '\n' {
				return true
			}
		}
	}
	return false
}
