package normalize

// FieldMap holds the dotted paths read from each record.
type FieldMap struct {
	GroupName  string
	GroupID    string
	EventInfo  string
	EventTitle string
	EventDate  string
	People     string
	Template   string
	Tags       []TagSource
}

// TagSource is one tag field. Type is written to the tag's type column.
type TagSource struct {
	Type      string
	Path      string
	Delimited bool
}

// DefaultTemplate is used when a record carries no template kind.
const DefaultTemplate = "custom"

func DefaultFieldMap() FieldMap {
	return FieldMap{
		GroupName:  "workgroup",
		GroupID:    "workgroup_id",
		EventInfo:  "meetingInfo",
		EventTitle: "meetingInfo.name",
		EventDate:  "meetingInfo.date",
		People:     "meetingInfo.peoplePresent",
		Template:   "type",
		Tags: []TagSource{
			{Type: "topicsCovered", Path: "tags.topicsCovered", Delimited: true},
			{Type: "emotions", Path: "tags.emotions", Delimited: true},
			{Type: "gamesPlayed", Path: "tags.gamesPlayed", Delimited: true},
			{Type: "other", Path: "tags.other"},
		},
	}
}
