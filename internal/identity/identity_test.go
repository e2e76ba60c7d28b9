package identity

import (
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var groupedHex = regexp.MustCompile(`^[0-9a-f]{8}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{12}$`)

func TestSurrogateIDDeterministic(t *testing.T) {
	inputs := []string{"", "workgroup:Alpha", "user:Ann:user", "meeting:Standup:2024-01-15:x", "ünïcode"}
	seen := make(map[string]string, len(inputs))

	for _, in := range inputs {
		id := SurrogateID(in)
		assert.Equal(t, id, SurrogateID(in))
		assert.Regexp(t, groupedHex, id)
		assert.True(t, IsWellFormed(id))

		if prev, dup := seen[id]; dup {
			t.Fatalf("%q and %q produced the same id", prev, in)
		}
		seen[id] = in
	}
}

func TestSurrogateIDDigestPrefix(t *testing.T) {
	// sha256("") = e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855
	assert.Equal(t, "e3b0c442-98fc-1c14-9afb-f4c8996fb924", SurrogateID(""))
}

func TestContextHelpers(t *testing.T) {
	assert.Equal(t, SurrogateID("workgroup:Alpha"), GroupID("Alpha"))
	assert.Equal(t, SurrogateID("user:Alpha:user"), OwnerID("Alpha"))
	assert.Equal(t, SurrogateID("user:music:gamesPlayed:user"), TagOwnerID("music", "gamesPlayed"))
	assert.Equal(t, SurrogateID("meeting:Standup:2024-01-15:g"), EventID("Standup", "2024-01-15", "g"))
	assert.NotEqual(t, EventID("Standup", "2024-01-15", "g"), EventID("Standup", "2024-01-15T00:00:00Z", "g"))
}

func TestIsWellFormed(t *testing.T) {
	tests := []struct {
		value string
		want  bool
	}{
		{"123e4567-e89b-12d3-a456-426614174000", true},
		{"123E4567-E89B-12D3-A456-426614174000", true},
		{"123e4567e89b12d3a456426614174000", false},
		{"{123e4567-e89b-12d3-a456-426614174000}", false},
		{"urn:uuid:123e4567-e89b-12d3-a456-426614174000", false},
		{"123e4567-e89b-12d3-a456-42661417400g", false},
		{"not-a-uuid", false},
		{"", false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, IsWellFormed(tt.value), tt.value)
	}
}

func TestParseFlexibleDate(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"2024-01-15", "2024-01-15 00:00:00"},
		{"2024-01-15T10:30:00Z", "2024-01-15 10:30:00"},
		{"2024-01-15T12:30:00+02:00", "2024-01-15 10:30:00"},
		{"2024-01-15 08:00:00", "2024-01-15 08:00:00"},
		{"2024/01/15", "2024-01-15 00:00:00"},
		{"January 15, 2024", "2024-01-15 00:00:00"},
	}
	for _, tt := range tests {
		got, ok := ParseFlexibleDate(tt.in)
		require.True(t, ok, tt.in)
		assert.Equal(t, tt.want, FormatTimestamp(got), tt.in)
	}

	for _, bad := range []string{"", "   ", "not a date", "2024-13-45"} {
		_, ok := ParseFlexibleDate(bad)
		assert.False(t, ok, bad)
	}
}

func TestFormatOrNow(t *testing.T) {
	fixed := time.Date(2025, 3, 4, 5, 6, 7, 890, time.UTC)
	clock := func() time.Time { return fixed }

	assert.Equal(t, "2025-03-04 05:06:07", FormatOrNow(time.Time{}, clock))

	ts := time.Date(2024, 1, 15, 9, 0, 0, 0, time.FixedZone("X", 3600))
	assert.Equal(t, "2024-01-15 08:00:00", FormatOrNow(ts, clock))
	assert.False(t, strings.Contains(FormatTimestamp(ts), "T"))
}
