// Package sqlgen renders the normalized entities as literal INSERT
// statements in dependency order.
package sqlgen

import (
	"fmt"
	"strings"
	"time"

	sq "github.com/Masterminds/squirrel"

	"github.com/Lumos-Labs-HQ/seedgen/internal/pipeline"
	"github.com/Lumos-Labs-HQ/seedgen/internal/types"
)

var (
	groupColumns = []string{"workgroup_id", "workgroup", "created_at", "user_id", "preferred_template"}
	nameColumns  = []string{"name", "user_id", "approved", "created_at"}
	tagColumns   = []string{"tag", "type", "user_id", "created_at"}
	eventColumns = []string{"meeting_id", "name", "date", "workgroup_id", "user_id", "template", "summary", "confirmed", "created_at", "updated_at"}
)

type Generator struct {
	Dialect   string
	BatchSize int
	Tables    types.TableNames
}

func New(dialect string, batchSize int, tables types.TableNames) *Generator {
	if batchSize <= 0 {
		batchSize = 1
	}
	return &Generator{Dialect: dialect, BatchSize: batchSize, Tables: tables}
}

// Generate walks order and emits the INSERTs of every table that holds an
// entity kind. Rows keep their store order; only tables are reordered.
func (g *Generator) Generate(order []string, st *pipeline.State) (string, error) {
	var b strings.Builder
	b.WriteString(g.header(order))

	clock := st.Clock()
	for _, table := range order {
		var (
			columns []string
			rows    [][]interface{}
		)
		switch {
		case strings.EqualFold(table, g.Tables.Groups):
			columns, rows = groupColumns, groupRows(st.Groups.Items(), clock)
		case strings.EqualFold(table, g.Tables.Names):
			columns, rows = nameColumns, nameRows(st.Names.Items(), clock)
		case strings.EqualFold(table, g.Tables.Tags):
			columns, rows = tagColumns, tagRows(st.Tags.Items(), clock)
		case strings.EqualFold(table, g.Tables.Events):
			columns, rows = eventColumns, eventRows(st.Events.Items(), clock)
		default:
			continue
		}

		if err := g.writeInserts(&b, table, columns, rows); err != nil {
			return "", err
		}
	}

	return b.String(), nil
}

func (g *Generator) writeInserts(b *strings.Builder, table string, columns []string, rows [][]interface{}) error {
	for start := 0; start < len(rows); start += g.BatchSize {
		end := start + g.BatchSize
		if end > len(rows) {
			end = len(rows)
		}

		insert := sq.Insert(table).Columns(columns...)
		for _, row := range rows[start:end] {
			insert = insert.Values(row...)
		}

		query, _, err := insert.ToSql()
		if err != nil {
			return fmt.Errorf("failed to build insert for %s: %w", table, err)
		}
		// column list and values on separate lines
		query = strings.Replace(query, ") VALUES (", ")\nVALUES (", 1)
		b.WriteString(query)
		b.WriteString(";\n\n")
	}
	return nil
}

// header lists one commented clearing statement per entity table, dependents
// first. Entity tables absent from the schema follow in a fixed order.
func (g *Generator) header(order []string) string {
	var b strings.Builder
	b.WriteString("-- Generated seed data\n")
	b.WriteString("-- Clearing statements (commented out by default)\n")
	b.WriteString("-- Uncomment to clear existing data before inserting:\n")

	known := []string{g.Tables.Events, g.Tables.Groups, g.Tables.Names, g.Tables.Tags}
	listed := make(map[string]bool, len(known))
	for i := len(order) - 1; i >= 0; i-- {
		for _, k := range known {
			if strings.EqualFold(order[i], k) && !listed[k] {
				b.WriteString("-- " + g.clearStatement(order[i]) + "\n")
				listed[k] = true
			}
		}
	}
	for _, k := range known {
		if !listed[k] {
			b.WriteString("-- " + g.clearStatement(k) + "\n")
		}
	}

	b.WriteString("\n")
	return b.String()
}

func (g *Generator) clearStatement(table string) string {
	switch g.Dialect {
	case "mysql":
		return "TRUNCATE TABLE " + table + ";"
	case "sqlite":
		return "DELETE FROM " + table + ";"
	default:
		return "TRUNCATE TABLE " + table + " CASCADE;"
	}
}

func groupRows(groups []types.Group, clock func() time.Time) [][]interface{} {
	rows := make([][]interface{}, 0, len(groups))
	for _, grp := range groups {
		rows = append(rows, []interface{}{
			text(grp.ID),
			text(grp.Name),
			timestamp(grp.CreatedAt, clock),
			text(grp.OwnerID),
			nullableText(grp.PreferredTemplate),
		})
	}
	return rows
}

func nameRows(names []types.Name, clock func() time.Time) [][]interface{} {
	rows := make([][]interface{}, 0, len(names))
	for _, n := range names {
		rows = append(rows, []interface{}{
			text(n.Name),
			text(n.OwnerID),
			boolean(n.Approved),
			timestamp(n.CreatedAt, clock),
		})
	}
	return rows
}

func tagRows(tags []types.Tag, clock func() time.Time) [][]interface{} {
	rows := make([][]interface{}, 0, len(tags))
	for _, t := range tags {
		rows = append(rows, []interface{}{
			text(t.Text),
			text(t.Type),
			text(t.OwnerID),
			timestamp(t.CreatedAt, clock),
		})
	}
	return rows
}

func eventRows(events []types.Event, clock func() time.Time) [][]interface{} {
	rows := make([][]interface{}, 0, len(events))
	for _, e := range events {
		rows = append(rows, []interface{}{
			text(e.ID),
			text(e.Title),
			timestamp(e.Date, clock),
			text(e.GroupID),
			text(e.OwnerID),
			text(e.Template),
			text(e.Payload),
			boolean(e.Confirmed),
			timestamp(e.CreatedAt, clock),
			timestamp(e.UpdatedAt, clock),
		})
	}
	return rows
}
