package sqlgen

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Lumos-Labs-HQ/seedgen/internal/pipeline"
	"github.com/Lumos-Labs-HQ/seedgen/internal/types"
)

var (
	jan15 = time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)
	now   = time.Date(2025, 5, 5, 5, 5, 5, 0, time.UTC)
)

func testState() *pipeline.State {
	st := pipeline.New(pipeline.WithClock(func() time.Time { return now }))
	st.Groups.Add("g1", types.Group{ID: "g1", Name: "Alpha's", CreatedAt: jan15, OwnerID: "o1"})
	st.Names.Add("Ann", types.Name{Name: "Ann", OwnerID: "o2", Approved: true, CreatedAt: jan15})
	st.Names.Add("Bob", types.Name{Name: "Bob", OwnerID: "o3", Approved: true})
	st.Tags.Add(types.TagKey{Text: "c:\\x", Type: "other"}, types.Tag{Text: `c:\x`, Type: "other", OwnerID: "o4", CreatedAt: jan15})
	st.Events.Add(types.EventKey{Title: "Standup"}, types.Event{
		ID: "e1", Title: "Standup", Date: jan15, GroupID: "g1", OwnerID: "o1",
		Template: "custom", Payload: `{"note":"it's"}`, CreatedAt: jan15, UpdatedAt: jan15,
	})
	return st
}

func TestEscape(t *testing.T) {
	assert.Equal(t, "it''s", Escape("it's"))
	assert.Equal(t, `a\\b`, Escape(`a\b`))
	assert.Equal(t, `\\''`, Escape(`\'`))
	assert.Equal(t, "plain", Escape("plain"))
}

func TestGenerate(t *testing.T) {
	g := New("postgresql", 1, types.DefaultTableNames())
	out, err := g.Generate([]string{"users", "workgroups", "names", "tags", "meetingsummaries"}, testState())
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(out, "-- Generated seed data\n"))
	assert.Contains(t, out, "-- TRUNCATE TABLE meetingsummaries CASCADE;\n-- TRUNCATE TABLE tags CASCADE;\n-- TRUNCATE TABLE names CASCADE;\n-- TRUNCATE TABLE workgroups CASCADE;\n\n")
	assert.NotContains(t, out, "users")

	assert.Contains(t, out,
		"INSERT INTO workgroups (workgroup_id,workgroup,created_at,user_id,preferred_template)\n"+
			"VALUES ('g1','Alpha''s','2024-01-15 00:00:00','o1',NULL);\n\n")
	assert.Contains(t, out,
		"INSERT INTO names (name,user_id,approved,created_at)\nVALUES ('Ann','o2',true,'2024-01-15 00:00:00');\n\n")
	assert.Contains(t, out,
		"INSERT INTO names (name,user_id,approved,created_at)\nVALUES ('Bob','o3',true,'2025-05-05 05:05:05');\n\n",
		"zero timestamps render as the clock")
	assert.Contains(t, out,
		"INSERT INTO tags (tag,type,user_id,created_at)\nVALUES ('c:\\\\x','other','o4','2024-01-15 00:00:00');")
	assert.Contains(t, out,
		"INSERT INTO meetingsummaries (meeting_id,name,date,workgroup_id,user_id,template,summary,confirmed,created_at,updated_at)\n"+
			"VALUES ('e1','Standup','2024-01-15 00:00:00','g1','o1','custom','{\"note\":\"it''s\"}',false,'2024-01-15 00:00:00','2024-01-15 00:00:00');")

	wg := strings.Index(out, "INSERT INTO workgroups")
	ms := strings.Index(out, "INSERT INTO meetingsummaries")
	ann := strings.Index(out, "'Ann'")
	bob := strings.Index(out, "'Bob'")
	assert.Less(t, wg, ms)
	assert.Less(t, ann, bob)
}

func TestGenerateFollowsOrder(t *testing.T) {
	g := New("postgresql", 1, types.DefaultTableNames())
	out, err := g.Generate([]string{"meetingsummaries", "workgroups"}, testState())
	require.NoError(t, err)

	assert.Less(t, strings.Index(out, "INSERT INTO meetingsummaries"), strings.Index(out, "INSERT INTO workgroups"))
	assert.NotContains(t, out, "INSERT INTO names")
	// tables missing from the order are still listed for clearing
	assert.Contains(t, out, "-- TRUNCATE TABLE workgroups CASCADE;\n-- TRUNCATE TABLE meetingsummaries CASCADE;\n-- TRUNCATE TABLE names CASCADE;\n-- TRUNCATE TABLE tags CASCADE;\n")
}

func TestClearingStatementPerDialect(t *testing.T) {
	tests := []struct {
		dialect string
		want    string
	}{
		{"postgresql", "-- TRUNCATE TABLE workgroups CASCADE;"},
		{"mysql", "-- TRUNCATE TABLE workgroups;"},
		{"sqlite", "-- DELETE FROM workgroups;"},
	}
	for _, tt := range tests {
		out, err := New(tt.dialect, 1, types.DefaultTableNames()).Generate([]string{"workgroups"}, pipeline.New())
		require.NoError(t, err)
		assert.Contains(t, out, tt.want, tt.dialect)
	}
}

func TestBatching(t *testing.T) {
	st := pipeline.New()
	for _, n := range []string{"a", "b", "c"} {
		st.Names.Add(n, types.Name{Name: n, OwnerID: "o", Approved: true, CreatedAt: jan15})
	}

	out, err := New("postgresql", 2, types.DefaultTableNames()).Generate([]string{"names"}, st)
	require.NoError(t, err)

	assert.Equal(t, 2, strings.Count(out, "INSERT INTO names"))
	assert.Contains(t, out, "VALUES ('a','o',true,'2024-01-15 00:00:00'),('b','o',true,'2024-01-15 00:00:00');")
	assert.Contains(t, out, "VALUES ('c','o',true,'2024-01-15 00:00:00');")
}

func TestCustomTableNames(t *testing.T) {
	tables := types.TableNames{Groups: "teams", Names: "people", Tags: "labels", Events: "meetings"}
	st := testState()

	out, err := New("sqlite", 1, tables).Generate([]string{"Teams", "meetings"}, st)
	require.NoError(t, err)

	assert.Contains(t, out, "INSERT INTO Teams (workgroup_id,")
	assert.Contains(t, out, "INSERT INTO meetings (meeting_id,")
	assert.Contains(t, out, "-- DELETE FROM meetings;\n-- DELETE FROM Teams;\n-- DELETE FROM people;\n-- DELETE FROM labels;\n")
}

func TestPreferredTemplateLiteral(t *testing.T) {
	tmpl := `{"a":"b'c"}`
	st := pipeline.New()
	st.Groups.Add("g", types.Group{ID: "g", Name: "n", CreatedAt: jan15, OwnerID: "o", PreferredTemplate: &tmpl})

	out, err := New("postgresql", 1, types.DefaultTableNames()).Generate([]string{"workgroups"}, st)
	require.NoError(t, err)
	assert.Contains(t, out, `'{"a":"b''c"}');`)
}
