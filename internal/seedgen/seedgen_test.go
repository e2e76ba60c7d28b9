package seedgen

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Lumos-Labs-HQ/seedgen/internal/config"
	"github.com/Lumos-Labs-HQ/seedgen/internal/identity"
	"github.com/Lumos-Labs-HQ/seedgen/internal/normalize"
	"github.com/Lumos-Labs-HQ/seedgen/internal/schema"
)

const testSchema = `
CREATE TABLE IF NOT EXISTS "public"."meetingsummaries" (
    "meeting_id" "uuid" NOT NULL,
    "name" "text",
    "date" timestamp without time zone,
    "workgroup_id" "uuid",
    "user_id" "uuid",
    "template" "text",
    "summary" "jsonb",
    "confirmed" boolean DEFAULT false,
    "created_at" timestamp with time zone DEFAULT "now"(),
    "updated_at" timestamp with time zone DEFAULT "now"()
);

CREATE TABLE IF NOT EXISTS "public"."names" (
    "name" "text" NOT NULL,
    "user_id" "uuid",
    "approved" boolean,
    "created_at" timestamp with time zone
);

CREATE TABLE IF NOT EXISTS "public"."tags" (
    "tag" "text" NOT NULL,
    "type" "text" NOT NULL,
    "user_id" "uuid",
    "created_at" timestamp with time zone
);

CREATE TABLE IF NOT EXISTS "public"."workgroups" (
    "workgroup_id" "uuid" NOT NULL,
    "workgroup" "text",
    "created_at" timestamp with time zone,
    "user_id" "uuid",
    "preferred_template" "jsonb"
);

ALTER TABLE ONLY "public"."meetingsummaries"
    ADD CONSTRAINT "meetingsummaries_workgroup_id_fkey" FOREIGN KEY ("workgroup_id") REFERENCES "public"."workgroups"("workgroup_id");
`

var fixedClock = func() time.Time { return time.Date(2025, 2, 2, 2, 2, 2, 0, time.UTC) }

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestRunWritesArtifacts(t *testing.T) {
	dir := t.TempDir()
	schemaPath := writeFile(t, dir, "schema.sql", testSchema)
	inputPath := writeFile(t, dir, "meetings.json", `[
  {"workgroup": "Alpha", "meetingInfo": {"name": "Standup", "date": "2024-01-15", "peoplePresent": "Ann, Bob"}, "tags": {"emotions": "calm"}}
]`)

	res, err := Run(Options{InputPath: inputPath, SchemaPath: schemaPath, Clock: fixedClock})
	require.NoError(t, err)
	assert.Equal(t, ExitOK, ExitCode(res, nil))

	assert.Equal(t, filepath.Join(dir, "seed.sql"), res.SeedPath)
	assert.Equal(t, filepath.Join(dir, "mapping.json"), res.MappingPath)
	assert.Equal(t, filepath.Join(dir, "TESTDATA.md"), res.UsagePath)

	seed, err := os.ReadFile(res.SeedPath)
	require.NoError(t, err)
	sql := string(seed)

	groupID := identity.GroupID("Alpha")
	assert.Equal(t, 1, strings.Count(sql, "INSERT INTO workgroups"))
	assert.Equal(t, 1, strings.Count(sql, "INSERT INTO meetingsummaries"))
	assert.Equal(t, 2, strings.Count(sql, "INSERT INTO names"))
	assert.Contains(t, sql, "VALUES ('Ann',")
	assert.Contains(t, sql, "VALUES ('Bob',")
	assert.Contains(t, sql, "'"+groupID+"','"+identity.OwnerID("Alpha")+"','custom'")
	assert.Less(t, strings.Index(sql, "INSERT INTO workgroups"), strings.Index(sql, "INSERT INTO meetingsummaries"))

	var doc map[string]interface{}
	mapping, err := os.ReadFile(res.MappingPath)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(mapping, &doc))
	stats := doc["statistics"].(map[string]interface{})
	assert.Equal(t, float64(1), stats["totalRecords"])
	assert.Equal(t, float64(2), stats["names"])
	assert.Equal(t, "2025-02-02T02:02:02Z", doc["generatedAt"])

	usage, err := os.ReadFile(res.UsagePath)
	require.NoError(t, err)
	assert.Contains(t, string(usage), "- **Meetings**: 1\n")
}

func TestRunIsReproducible(t *testing.T) {
	dir := t.TempDir()
	schemaPath := writeFile(t, dir, "schema.sql", testSchema)
	inputPath := writeFile(t, dir, "meetings.json", `[
  {"workgroup": "Alpha", "workgroup_id": "bad", "meetingInfo": {"name": "Standup", "date": "2024-01-15", "peoplePresent": "Ann"}},
  {"workgroup": "Beta", "meetingInfo": {"name": "Retro", "date": "2024-01-16T10:00:00Z"}, "type": "retro"}
]`)

	res, err := Run(Options{InputPath: inputPath, SchemaPath: schemaPath, Clock: fixedClock})
	require.NoError(t, err)
	first, err := os.ReadFile(res.SeedPath)
	require.NoError(t, err)

	res, err = Run(Options{InputPath: inputPath, SchemaPath: schemaPath, Clock: fixedClock})
	require.NoError(t, err)
	second, err := os.ReadFile(res.SeedPath)
	require.NoError(t, err)

	assert.Equal(t, string(first), string(second))
	assert.Equal(t, ExitIssues, ExitCode(res, nil))
	require.Len(t, res.State.Warnings, 1)
	assert.Equal(t, "[record-0] Invalid workgroup_id format, generated deterministic UUID", res.State.Warnings[0].String())
}

func TestRunFatalConditionsWriteNothing(t *testing.T) {
	tests := []struct {
		name   string
		schema string
		input  string
		want   error
	}{
		{"no tables", "-- empty\nSELECT 1;", `[{"workgroup": "A"}]`, schema.ErrNoTables},
		{"not a list", testSchema, `{"workgroup": "A"}`, normalize.ErrNotList},
		{"not a record", testSchema, `[{"workgroup": "A"}, "x"]`, normalize.ErrNotRecord},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			schemaPath := writeFile(t, dir, "schema.sql", tt.schema)
			inputPath := writeFile(t, dir, "input.json", tt.input)

			res, err := Run(Options{InputPath: inputPath, SchemaPath: schemaPath})
			assert.ErrorIs(t, err, tt.want)
			assert.Nil(t, res)
			assert.Equal(t, ExitFatal, ExitCode(res, err))

			for _, name := range []string{"seed.sql", "mapping.json", "TESTDATA.md"} {
				_, statErr := os.Stat(filepath.Join(dir, name))
				assert.True(t, errors.Is(statErr, os.ErrNotExist), name)
			}
		})
	}
}

func TestRunMissingFiles(t *testing.T) {
	dir := t.TempDir()
	schemaPath := writeFile(t, dir, "schema.sql", testSchema)
	inputPath := writeFile(t, dir, "input.json", `[]`)

	_, err := Run(Options{InputPath: filepath.Join(dir, "missing.json"), SchemaPath: schemaPath})
	assert.ErrorIs(t, err, ErrInputNotFound)

	_, err = Run(Options{InputPath: inputPath, SchemaPath: filepath.Join(dir, "missing.sql")})
	assert.ErrorIs(t, err, ErrSchemaNotFound)
}

func TestRunWithConfig(t *testing.T) {
	dir := t.TempDir()
	outDir := filepath.Join(dir, "out")
	schemaPath := writeFile(t, dir, "schema.sql", testSchema+"\nCREATE TABLE self (id int, parent int REFERENCES self(id));\n")
	inputPath := writeFile(t, dir, "input.json", `[]`)

	cfg := config.Default()
	cfg.OutputDir = outDir
	cfg.MappingFormat = "yaml"
	cfg.Output.MappingFile = "mapping.yaml"
	cfg.Database.Provider = "sqlite"

	res, err := Run(Options{InputPath: inputPath, SchemaPath: schemaPath, Config: cfg, Clock: fixedClock})
	require.NoError(t, err)

	seed, err := os.ReadFile(filepath.Join(outDir, "seed.sql"))
	require.NoError(t, err)
	assert.Contains(t, string(seed), "-- DELETE FROM meetingsummaries;")

	mapping, err := os.ReadFile(filepath.Join(outDir, "mapping.yaml"))
	require.NoError(t, err)
	assert.Contains(t, string(mapping), "totalRecords: 0")

	messages := make([]string, 0, len(res.State.Warnings))
	for _, w := range res.State.Warnings {
		messages = append(messages, w.Message)
	}
	assert.Equal(t, []string{
		"Circular dependency detected involving table: self",
		"JSON input array is empty",
	}, messages)
	assert.Equal(t, ExitIssues, ExitCode(res, nil))
}

func TestRunReportsLintWarnings(t *testing.T) {
	dir := t.TempDir()
	schemaPath := writeFile(t, dir, "schema.sql", "CREATE TABLE workgroups (\n  workgroup_id uuid,\n  workgroup text,\n);\n")
	inputPath := writeFile(t, dir, "input.json", `[{"workgroup": "A", "meetingInfo": {"name": "m", "date": "2024-01-01"}}]`)

	res, err := Run(Options{InputPath: inputPath, SchemaPath: schemaPath, Clock: fixedClock})
	require.NoError(t, err)

	require.NotEmpty(t, res.State.Warnings)
	assert.Equal(t, `Schema line 4: trailing comma before ")"`, res.State.Warnings[0].Message)
	assert.Equal(t, []string{"workgroups"}, res.Order.Tables)
}

func TestRunCleanSchemaWithQuotedParensAndComments(t *testing.T) {
	dir := t.TempDir()
	schemaPath := writeFile(t, dir, "schema.sql", "/* the team's tables -- v2 */\n"+
		"CREATE TABLE workgroups (\n  workgroup_id uuid PRIMARY KEY,\n  workgroup text DEFAULT ':)'\n);\n"+
		"-- CREATE TABLE legacy (id int);\n")
	inputPath := writeFile(t, dir, "input.json", `[{"workgroup": "A", "meetingInfo": {"name": "m", "date": "2024-01-01"}}]`)

	res, err := Run(Options{InputPath: inputPath, SchemaPath: schemaPath, Clock: fixedClock})
	require.NoError(t, err)

	assert.Equal(t, []string{"workgroups"}, res.Order.Tables)
	assert.Empty(t, res.State.Warnings)
	assert.Equal(t, ExitOK, ExitCode(res, nil))
}
