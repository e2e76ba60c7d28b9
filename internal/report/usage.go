package report

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/Lumos-Labs-HQ/seedgen/internal/graph"
	"github.com/Lumos-Labs-HQ/seedgen/internal/pipeline"
	"github.com/Lumos-Labs-HQ/seedgen/internal/types"
)

// MaxListedIssues caps each issue list in the usage guide.
const MaxListedIssues = 10

// RenderUsage writes the TESTDATA.md guide for one run.
func RenderUsage(meta Meta, st *pipeline.State, order graph.Order) string {
	stats := CollectStatistics(st)
	seed := meta.SeedFile
	if seed == "" {
		seed = "seed.sql"
	}

	var md strings.Builder
	md.WriteString("# Test Data Usage Guide\n\n")
	fmt.Fprintf(&md, "**Generated**: %s\n", meta.GeneratedAt.UTC().Format(time.RFC3339))
	fmt.Fprintf(&md, "**Source File**: %s\n", meta.InputFile)
	fmt.Fprintf(&md, "**Schema File**: %s\n\n", meta.SchemaFile)

	md.WriteString("## Usage Instructions\n\n")
	md.WriteString("### Option 1: Using psql\n\n")
	md.WriteString("```bash\n")
	fmt.Fprintf(&md, "psql -h localhost -U your_user -d your_database -f %s\n", seed)
	md.WriteString("```\n\n")
	md.WriteString("### Option 2: Using Supabase CLI\n\n")
	md.WriteString("```bash\n")
	md.WriteString("# If using Supabase local development\n")
	md.WriteString("supabase db reset\n")
	fmt.Fprintf(&md, "psql -h localhost -p 54322 -U postgres -d postgres -f %s\n", seed)
	md.WriteString("```\n\n")
	md.WriteString("### Option 3: Using seedgen\n\n")
	md.WriteString("```bash\n")
	fmt.Fprintf(&md, "DATABASE_URL=postgres://... seedgen apply %s\n", seed)
	md.WriteString("```\n\n")

	md.WriteString("## Data Summary\n\n")
	fmt.Fprintf(&md, "- **Total Records Processed**: %d\n", stats.TotalRecords)
	fmt.Fprintf(&md, "- **Workgroups**: %d\n", stats.Workgroups)
	fmt.Fprintf(&md, "- **Meetings**: %d\n", stats.Meetings)
	fmt.Fprintf(&md, "- **Names**: %d\n", stats.Names)
	fmt.Fprintf(&md, "- **Tags**: %d\n\n", stats.Tags)

	writeOrder(&md, order)

	md.WriteString("## Limitations and Assumptions\n\n")
	md.WriteString("- UUIDs are generated deterministically using SHA-256 hashing\n")
	md.WriteString("- Dates are parsed from ISO format (YYYY-MM-DD) and a few common layouts, and written in UTC\n")
	md.WriteString("- Duplicate records are skipped with warnings\n")
	md.WriteString("- Foreign key constraints are satisfied by INSERT ordering\n\n")

	md.WriteString("## Error and Warning Summary\n\n")
	fmt.Fprintf(&md, "- **Total Errors**: %d\n", stats.Errors)
	fmt.Fprintf(&md, "- **Total Warnings**: %d\n\n", stats.Warnings)
	writeIssues(&md, "Errors", "errors", st.Errors)
	writeIssues(&md, "Warnings", "warnings", st.Warnings)

	md.WriteString("## Regeneration Instructions\n\n")
	md.WriteString("To regenerate seed data:\n\n")
	md.WriteString("```bash\n")
	fmt.Fprintf(&md, "seedgen generate %s %s\n", meta.InputFile, meta.SchemaFile)
	md.WriteString("```\n\n")

	md.WriteString("## Common Issues and Solutions\n\n")
	md.WriteString("### Foreign Key Constraint Violations\n")
	md.WriteString("The tool automatically orders INSERTs to satisfy foreign keys. If you see errors:\n")
	fmt.Fprintf(&md, "1. Check %s for error details\n", filepath.Base(usageName(meta)))
	md.WriteString("2. Verify that workgroups are inserted before meetings\n")
	md.WriteString("3. Check that all referenced workgroup_ids exist\n\n")
	md.WriteString("### Duplicate Key Violations\n")
	fmt.Fprintf(&md, "The tool skips duplicates automatically. Check %s for warnings about skipped duplicates.\n\n", filepath.Base(usageName(meta)))

	return md.String()
}

func usageName(meta Meta) string {
	if meta.UsageFile == "" {
		return "TESTDATA.md"
	}
	return meta.UsageFile
}

func writeOrder(md *strings.Builder, order graph.Order) {
	if len(order.Tables) == 0 {
		return
	}
	md.WriteString("## Table Insertion Order\n\n")
	for i, table := range order.Tables {
		fmt.Fprintf(md, "%d. %s (level %d)\n", i+1, table, order.Levels[table])
	}
	md.WriteString("\n")

	if len(order.Cycles) > 0 {
		md.WriteString("Circular dependencies (edge ignored for ordering):\n\n")
		for _, c := range order.Cycles {
			fmt.Fprintf(md, "- %s\n", c)
		}
		md.WriteString("\n")
	}
}

func writeIssues(md *strings.Builder, title, noun string, issues []types.Issue) {
	if len(issues) == 0 {
		return
	}
	fmt.Fprintf(md, "### %s\n\n", title)
	for i, issue := range issues {
		if i == MaxListedIssues {
			break
		}
		fmt.Fprintf(md, "- %s\n", issue)
	}
	if len(issues) > MaxListedIssues {
		fmt.Fprintf(md, "- ... and %d more %s\n", len(issues)-MaxListedIssues, noun)
	}
	md.WriteString("\n")
}
