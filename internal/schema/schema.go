// Package schema extracts table descriptors and constraints from SQL schema
// text by pattern scanning rather than a full grammar.
//
// Coverage: CREATE TABLE blocks (optionally schema-qualified and quoted),
// ALTER TABLE ... ADD [CONSTRAINT name] PRIMARY KEY / FOREIGN KEY / UNIQUE
// clauses, and the equivalent inline constraints inside a table body. Foreign
// keys are single-column; a reference without a column list points at the
// target's primary key. A composite primary key is not recorded. Anything
// the patterns do not recognise is skipped.
package schema

import "errors"

// ErrNoTables is returned when the schema text holds no CREATE TABLE block.
var ErrNoTables = errors.New("no CREATE TABLE statements found in schema")

// TableDescriptor is one CREATE TABLE block: the table name and the raw text
// between its parentheses.
type TableDescriptor struct {
	Name string
	Body string
}

type ForeignKey struct {
	Column    string `json:"column" yaml:"column"`
	RefTable  string `json:"references_table" yaml:"references_table"`
	RefColumn string `json:"references_column" yaml:"references_column"`
}

type ConstraintSet struct {
	PrimaryKey  string       `json:"primary_key,omitempty" yaml:"primary_key,omitempty"`
	ForeignKeys []ForeignKey `json:"foreign_keys" yaml:"foreign_keys"`
	Unique      [][]string   `json:"unique" yaml:"unique"`
}

// Column is informational only; nothing downstream enforces it.
type Column struct {
	Name       string
	Type       string
	Definition string
	NotNull    bool
	HasDefault bool
}

func (c *ConstraintSet) addForeignKey(fk ForeignKey) {
	for _, existing := range c.ForeignKeys {
		if existing == fk {
			return
		}
	}
	c.ForeignKeys = append(c.ForeignKeys, fk)
}

func (c *ConstraintSet) addUnique(cols []string) {
	if len(cols) == 0 {
		return
	}
	for _, existing := range c.Unique {
		if equalColumns(existing, cols) {
			return
		}
	}
	c.Unique = append(c.Unique, cols)
}

func (c *ConstraintSet) setPrimaryKey(cols []string) {
	if c.PrimaryKey == "" && len(cols) == 1 {
		c.PrimaryKey = cols[0]
	}
}

func equalColumns(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
