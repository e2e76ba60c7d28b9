package schema

import (
	"fmt"
	"strings"
)

// LintIssue is a structural problem found in schema text. Lint issues are
// warnings: extraction still runs on whatever the patterns can recover.
type LintIssue struct {
	Line    int
	Message string
}

func (i LintIssue) String() string {
	return fmt.Sprintf("line %d: %s", i.Line, i.Message)
}

// Lint scans CREATE TABLE blocks line by line for a trailing comma before
// the closing parenthesis, a stray closing parenthesis, and a block that
// never closes. Comments are ignored and parentheses inside quoted literals
// or identifiers are not counted.
func Lint(content string) []LintIssue {
	var issues []LintIssue
	lines := strings.Split(RemoveComments(content), "\n")

	inCreateTable := false
	tableStartLine := 0
	parenDepth := 0
	var quote rune

	for lineNum, line := range lines {
		lineNumber := lineNum + 1
		trimmed := strings.TrimSpace(line)

		if strings.Contains(strings.ToUpper(trimmed), "CREATE TABLE") {
			if inCreateTable && parenDepth > 0 {
				issues = append(issues, LintIssue{Line: tableStartLine, Message: "unclosed CREATE TABLE statement"})
			}
			inCreateTable = true
			tableStartLine = lineNumber
			parenDepth = 0
		}

		for _, ch := range line {
			if quote != 0 {
				if ch == quote {
					quote = 0
				}
				continue
			}
			switch ch {
			case '\'', '"', '`':
				quote = ch
			case '(':
				parenDepth++
			case ')':
				parenDepth--
			}
		}

		if inCreateTable && parenDepth == 0 && strings.Contains(trimmed, ");") {
			for i := lineNum - 1; i >= 0; i-- {
				prevLine := strings.TrimSpace(lines[i])
				if prevLine == "" {
					continue
				}
				if strings.HasSuffix(prevLine, ",") && strings.HasPrefix(trimmed, ")") {
					issues = append(issues, LintIssue{Line: lineNumber, Message: `trailing comma before ")"`})
				}
				break
			}
			inCreateTable = false
		}

		if parenDepth < 0 {
			issues = append(issues, LintIssue{Line: lineNumber, Message: `unexpected ")"`})
			parenDepth = 0
		}
	}

	if inCreateTable && parenDepth > 0 {
		issues = append(issues, LintIssue{Line: tableStartLine, Message: "unclosed CREATE TABLE statement"})
	}

	return issues
}
