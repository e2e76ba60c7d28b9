package schema

import (
	"strings"
)

// ParseTables returns every CREATE TABLE block in declaration order.
func ParseTables(text string) ([]TableDescriptor, error) {
	text = RemoveComments(text)

	tables := make([]TableDescriptor, 0, 8)
	offset := 0
	for offset < len(text) {
		loc := tableHeaderRegex.FindStringSubmatchIndex(text[offset:])
		if loc == nil {
			break
		}
		name := text[offset+loc[2] : offset+loc[3]]
		open := offset + loc[1] - 1
		closeIdx := matchingParen(text, open)
		if closeIdx < 0 {
			// unclosed block; Lint reports it
			offset = offset + loc[1]
			continue
		}
		tables = append(tables, TableDescriptor{
			Name: name,
			Body: text[open+1 : closeIdx],
		})
		offset = closeIdx + 1
	}

	if len(tables) == 0 {
		return nil, ErrNoTables
	}
	return tables, nil
}

// ExtractAllConstraints runs ExtractConstraints for every table and resolves
// references written without a column list to the target's primary key.
func ExtractAllConstraints(text string, tables []TableDescriptor) map[string]ConstraintSet {
	sets := make(map[string]ConstraintSet, len(tables))
	primaryKeys := make(map[string]string, len(tables))
	for _, table := range tables {
		cs := ExtractConstraints(text, table)
		sets[table.Name] = cs
		primaryKeys[strings.ToLower(table.Name)] = cs.PrimaryKey
	}

	for _, cs := range sets {
		for i, fk := range cs.ForeignKeys {
			if fk.RefColumn == "" {
				cs.ForeignKeys[i].RefColumn = primaryKeys[strings.ToLower(fk.RefTable)]
			}
		}
	}
	return sets
}

// ExtractConstraints collects the constraint set of one table: ALTER TABLE
// constraints found anywhere in text first, then inline ones from the body.
func ExtractConstraints(text string, table TableDescriptor) ConstraintSet {
	cs := ConstraintSet{
		ForeignKeys: []ForeignKey{},
		Unique:      [][]string{},
	}

	text = RemoveComments(text)
	for _, alter := range alterTableRegex.FindAllStringSubmatch(text, -1) {
		if !strings.EqualFold(alter[1], table.Name) {
			continue
		}
		body := alter[2]

		for _, m := range addPrimaryKeyRegex.FindAllStringSubmatch(body, -1) {
			cs.setPrimaryKey(splitIdentifierList(m[1]))
		}
		for _, m := range addForeignKeyRegex.FindAllStringSubmatch(body, -1) {
			cs.addForeignKey(ForeignKey{Column: m[1], RefTable: m[2], RefColumn: m[3]})
		}
		for _, m := range addUniqueRegex.FindAllStringSubmatch(body, -1) {
			cs.addUnique(splitIdentifierList(m[1]))
		}
	}

	extractInlineConstraints(&cs, table.Body)
	return cs
}

func extractInlineConstraints(cs *ConstraintSet, body string) {
	for _, entry := range SplitColumns(body) {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}

		if hasConstraintPrefix(entry) {
			if m := inlinePrimaryKeyRegex.FindStringSubmatch(entry); m != nil {
				cs.setPrimaryKey(splitIdentifierList(m[1]))
			} else if m := inlineForeignKeyRegex.FindStringSubmatch(entry); m != nil {
				cs.addForeignKey(ForeignKey{Column: m[1], RefTable: m[2], RefColumn: m[3]})
			} else if m := inlineUniqueRegex.FindStringSubmatch(entry); m != nil {
				cs.addUnique(splitIdentifierList(m[1]))
			}
			continue
		}

		fields := strings.Fields(entry)
		if len(fields) < 2 {
			continue
		}
		colName := strings.Trim(fields[0], "\"'`")
		rest := strings.Join(fields[1:], " ")

		if columnPrimaryKeyRegex.MatchString(rest) {
			cs.setPrimaryKey([]string{colName})
		}
		if m := columnReferenceRegex.FindStringSubmatch(rest); m != nil {
			cs.addForeignKey(ForeignKey{Column: colName, RefTable: m[1], RefColumn: m[2]})
		}
		if columnUniqueRegex.MatchString(rest) {
			cs.addUnique([]string{colName})
		}
	}
}

// ExtractColumns is best-effort: it reports name, declared type, NOT NULL
// and DEFAULT for each column entry of a table body.
func ExtractColumns(body string) []Column {
	columns := make([]Column, 0, 16)
	for _, entry := range SplitColumns(body) {
		entry = strings.TrimSpace(entry)
		if entry == "" || hasConstraintPrefix(entry) {
			continue
		}

		fields := strings.Fields(entry)
		if len(fields) < 2 {
			continue
		}

		typeParts := make([]string, 0, 2)
		for _, f := range fields[1:] {
			if typeTerminators[strings.ToUpper(f)] {
				break
			}
			typeParts = append(typeParts, f)
		}

		columns = append(columns, Column{
			Name:       strings.Trim(fields[0], "\"'`"),
			Type:       strings.Join(typeParts, " "),
			Definition: strings.Join(fields[1:], " "),
			NotNull:    notNullRegex.MatchString(entry),
			HasDefault: defaultRegex.MatchString(entry),
		})
	}
	return columns
}
