package schema

import (
	"regexp"
)

// Identifiers may be bare or wrapped in double quotes, single quotes or
// backticks, and may carry one schema qualifier which is discarded.
const (
	quotedIdent    = `["'\x60]?(\w+)["'\x60]?`
	qualifiedIdent = `(?:["'\x60]?\w+["'\x60]?\s*\.\s*)?` + quotedIdent
	constraintName = `(?:CONSTRAINT\s+["'\x60]?\w+["'\x60]?\s+)?`
	// referenced column list; omitted means the target's primary key
	refColumn      = `(?:\s*\(\s*` + quotedIdent + `\s*\))?`
)

var (
	// CREATE TABLE header up to and including the opening parenthesis.
	tableHeaderRegex = regexp.MustCompile(`(?i)CREATE\s+(?:(?:GLOBAL\s+|LOCAL\s+)?(?:TEMP|TEMPORARY|UNLOGGED)\s+)?TABLE\s+(?:IF\s+NOT\s+EXISTS\s+)?` + qualifiedIdent + `\s*\(`)

	// ALTER TABLE statements: target table and everything up to the terminating semicolon.
	alterTableRegex = regexp.MustCompile(`(?is)ALTER\s+TABLE\s+(?:IF\s+EXISTS\s+)?(?:ONLY\s+)?` + qualifiedIdent + `\s+(.*?);`)

	// ADD CONSTRAINT clauses inside an ALTER TABLE body.
	addPrimaryKeyRegex = regexp.MustCompile(`(?i)ADD\s+` + constraintName + `PRIMARY\s+KEY\s*\(([^)]+)\)`)
	addForeignKeyRegex = regexp.MustCompile(`(?i)ADD\s+` + constraintName + `FOREIGN\s+KEY\s*\(\s*` + quotedIdent + `\s*\)\s*REFERENCES\s+` + qualifiedIdent + refColumn)
	addUniqueRegex     = regexp.MustCompile(`(?i)ADD\s+` + constraintName + `UNIQUE\s*\(([^)]+)\)`)

	// Table-level and column-level constraints inside a CREATE TABLE body.
	inlinePrimaryKeyRegex = regexp.MustCompile(`(?i)^` + constraintName + `PRIMARY\s+KEY\s*\(([^)]+)\)`)
	inlineForeignKeyRegex = regexp.MustCompile(`(?i)^` + constraintName + `FOREIGN\s+KEY\s*\(\s*` + quotedIdent + `\s*\)\s*REFERENCES\s+` + qualifiedIdent + refColumn)
	inlineUniqueRegex     = regexp.MustCompile(`(?i)^` + constraintName + `UNIQUE\s*\(([^)]+)\)`)
	columnReferenceRegex  = regexp.MustCompile(`(?i)\bREFERENCES\s+` + qualifiedIdent + refColumn)
	columnPrimaryKeyRegex = regexp.MustCompile(`(?i)\bPRIMARY\s+KEY\b`)
	columnUniqueRegex     = regexp.MustCompile(`(?i)\bUNIQUE\b`)
	notNullRegex          = regexp.MustCompile(`(?i)\bNOT\s+NULL\b`)
	defaultRegex          = regexp.MustCompile(`(?i)\bDEFAULT\b`)
)

// Leading keywords that mark a body entry as a table constraint rather than a column.
var constraintPrefixes = []string{"PRIMARY", "FOREIGN", "UNIQUE", "CHECK", "CONSTRAINT", "INDEX", "KEY", "EXCLUDE"}

// Keywords that end the declared type of a column definition.
var typeTerminators = map[string]bool{
	"NOT": true, "NULL": true, "DEFAULT": true, "PRIMARY": true, "REFERENCES": true,
	"UNIQUE": true, "CHECK": true, "CONSTRAINT": true, "GENERATED": true, "COLLATE": true,
}
