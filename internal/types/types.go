package types

import (
	"time"
)

// Group is one workgroup row. ID is either the supplied workgroup_id or a
// key derived from Name.
type Group struct {
	ID                string
	Name              string
	CreatedAt         time.Time
	OwnerID           string
	PreferredTemplate *string
}

// Name is one person seen in a peoplePresent list. Name is the key and is
// compared case-sensitively.
type Name struct {
	Name      string
	OwnerID   string
	Approved  bool
	CreatedAt time.Time
}

type Tag struct {
	Text      string
	Type      string
	OwnerID   string
	CreatedAt time.Time
}

// TagKey identifies a Tag for deduplication.
type TagKey struct {
	Text string
	Type string
}

func (t Tag) Key() TagKey {
	return TagKey{Text: t.Text, Type: t.Type}
}

// Event is one meeting summary. Payload holds the source record as compact
// JSON with its original key order.
type Event struct {
	ID        string
	Title     string
	Date      time.Time
	GroupID   string
	OwnerID   string
	Template  string
	Payload   string
	Confirmed bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// EventKey is the duplicate-detection key for events. OwnerID is derived
// from the group name, so it never separates two events that Title, Date
// and GroupID do not already separate. It stays part of the key to keep
// duplicate reports compatible with existing seed runs.
type EventKey struct {
	Title   string
	Date    string
	GroupID string
	OwnerID string
}

// Mapping records how one output column is derived from the input. Context
// is always written, as null when the derivation has none.
type Mapping struct {
	JSONPath       string  `json:"jsonPath" yaml:"jsonPath"`
	Table          string  `json:"table" yaml:"table"`
	Column         string  `json:"column" yaml:"column"`
	Transformation string  `json:"transformation" yaml:"transformation"`
	Synthetic      bool    `json:"synthetic" yaml:"synthetic"`
	Context        *string `json:"context" yaml:"context"`
}

// MappingKey deduplicates Mapping entries.
type MappingKey struct {
	JSONPath string
	Table    string
	Column   string
}

func (m Mapping) Key() MappingKey {
	return MappingKey{JSONPath: m.JSONPath, Table: m.Table, Column: m.Column}
}

// SyntheticField notes a column whose value has no input counterpart.
type SyntheticField struct {
	Table      string `json:"table" yaml:"table"`
	Column     string `json:"column" yaml:"column"`
	Generation string `json:"generation" yaml:"generation"`
	Source     string `json:"source" yaml:"source"`
}

type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
)

// Issue is one accumulated error or warning. RecordID is empty for issues
// that do not belong to a single record.
type Issue struct {
	Severity Severity `json:"severity" yaml:"severity"`
	RecordID string   `json:"recordId,omitempty" yaml:"recordId,omitempty"`
	Message  string   `json:"message" yaml:"message"`
}

func (i Issue) String() string {
	if i.RecordID == "" {
		return i.Message
	}
	return "[" + i.RecordID + "] " + i.Message
}

// TableNames maps each entity kind to its target table.
type TableNames struct {
	Groups string
	Names  string
	Tags   string
	Events string
}

func DefaultTableNames() TableNames {
	return TableNames{
		Groups: "workgroups",
		Names:  "names",
		Tags:   "tags",
		Events: "meetingsummaries",
	}
}

// List returns the table names in a fixed order: groups, names, tags, events.
func (t TableNames) List() []string {
	return []string{t.Groups, t.Names, t.Tags, t.Events}
}
