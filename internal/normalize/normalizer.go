// Package normalize folds meeting-summary records into groups, names, tags
// and events, deduplicating against the pipeline state as it goes.
package normalize

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cast"

	"github.com/Lumos-Labs-HQ/seedgen/internal/identity"
	"github.com/Lumos-Labs-HQ/seedgen/internal/pipeline"
	"github.com/Lumos-Labs-HQ/seedgen/internal/types"
)

type Normalizer struct {
	state  *pipeline.State
	fields FieldMap
	tables types.TableNames
}

func New(state *pipeline.State, fields FieldMap, tables types.TableNames) *Normalizer {
	return &Normalizer{state: state, fields: fields, tables: tables}
}

// ProcessAll runs Process over records in order.
func (n *Normalizer) ProcessAll(records []Record) {
	if len(records) == 0 {
		n.state.AddWarning("", "JSON input array is empty")
	}
	for _, rec := range records {
		n.Process(rec)
	}
}

// Process extracts the entities of one record. Failures are recorded as
// issues tagged with the record id and never affect other records.
func (n *Normalizer) Process(rec Record) {
	n.state.RecordsSeen++
	recordID := fmt.Sprintf("record-%d", rec.Index)

	group, hasGroup := n.extractGroup(rec, recordID)
	if hasGroup {
		n.addGroup(group, recordID)
	}

	eventDate, hasDate := identity.ParseFlexibleDate(n.text(rec, n.fields.EventDate))
	if !hasDate {
		eventDate = n.state.Now()
	}

	n.addNames(rec, eventDate)
	n.addTags(rec, eventDate)

	if !hasGroup {
		return
	}
	event, ok := n.extractEvent(rec, group, recordID)
	if !ok || event.GroupID != group.ID {
		return
	}
	n.addEvent(event, recordID)
}

func (n *Normalizer) extractGroup(rec Record, recordID string) (types.Group, bool) {
	name := n.text(rec, n.fields.GroupName)
	if name == "" {
		n.state.AddError(recordID, "Missing workgroup field")
		return types.Group{}, false
	}

	id := n.text(rec, n.fields.GroupID)
	transformation := "direct"
	if !identity.IsWellFormed(id) {
		if id != "" {
			n.state.AddWarning(recordID, "Invalid workgroup_id format, generated deterministic UUID")
		}
		id = identity.GroupID(name)
		transformation = "deterministic-uuid"
	}

	n.state.AddMapping(types.Mapping{
		JSONPath: n.fields.GroupName, Table: n.tables.Groups, Column: "workgroup", Transformation: "direct",
	})
	n.state.AddMapping(types.Mapping{
		JSONPath: n.fields.GroupID, Table: n.tables.Groups, Column: "workgroup_id", Transformation: transformation, Context: &name,
	})

	createdAt, ok := identity.ParseFlexibleDate(n.text(rec, n.fields.EventDate))
	if !ok {
		createdAt = n.state.Now()
	}

	return types.Group{
		ID:        id,
		Name:      name,
		CreatedAt: createdAt,
		OwnerID:   identity.OwnerID(name),
	}, true
}

func (n *Normalizer) addGroup(group types.Group, recordID string) {
	if !n.state.Groups.Add(group.ID, group) {
		n.state.AddWarning(recordID, "Duplicate workgroup_id: %s (using first occurrence)", group.ID)
		return
	}

	n.synthetic(n.tables.Groups, "created_at", "timestamp", "meeting date")
	n.synthetic(n.tables.Groups, "user_id", "deterministic-uuid", "workgroup name")
	n.synthetic(n.tables.Groups, "preferred_template", "default", "NULL")
}

func (n *Normalizer) addNames(rec Record, createdAt time.Time) {
	names := splitList(n.stringOnly(rec, n.fields.People))
	if len(names) == 0 {
		return
	}

	n.state.AddMapping(types.Mapping{
		JSONPath: n.fields.People, Table: n.tables.Names, Column: "name", Transformation: "extract-comma-separated",
	})

	for _, name := range names {
		added := n.state.Names.Add(name, types.Name{
			Name:      name,
			OwnerID:   identity.OwnerID(name),
			Approved:  true,
			CreatedAt: createdAt,
		})
		if !added {
			continue
		}
		n.synthetic(n.tables.Names, "user_id", "deterministic-uuid", "name context")
		n.synthetic(n.tables.Names, "approved", "default", "true")
		n.synthetic(n.tables.Names, "created_at", "timestamp", "meeting date")
	}
}

func (n *Normalizer) addTags(rec Record, createdAt time.Time) {
	for _, src := range n.fields.Tags {
		value := n.stringOnly(rec, src.Path)

		var texts []string
		if src.Delimited {
			texts = splitList(value)
		} else if trimmed := strings.TrimSpace(value); trimmed != "" {
			texts = []string{trimmed}
		}

		for _, text := range texts {
			n.state.AddMapping(types.Mapping{
				JSONPath: src.Path, Table: n.tables.Tags, Column: "tag", Transformation: "extract-comma-separated",
			})
			n.state.AddMapping(types.Mapping{
				JSONPath: src.Path, Table: n.tables.Tags, Column: "type", Transformation: "direct",
			})

			tag := types.Tag{
				Text:      text,
				Type:      src.Type,
				OwnerID:   identity.TagOwnerID(text, src.Type),
				CreatedAt: createdAt,
			}
			if !n.state.Tags.Add(tag.Key(), tag) {
				continue
			}
			n.synthetic(n.tables.Tags, "user_id", "deterministic-uuid", "tag + type context")
			n.synthetic(n.tables.Tags, "created_at", "timestamp", "meeting date")
		}
	}
}

func (n *Normalizer) extractEvent(rec Record, group types.Group, recordID string) (types.Event, bool) {
	if _, ok := rec.Lookup(n.fields.EventInfo); !ok {
		n.state.AddError(recordID, "Missing %s field", n.fields.EventInfo)
		return types.Event{}, false
	}

	title := n.text(rec, n.fields.EventTitle)
	if title == "" {
		n.state.AddError(recordID, "Missing %s field", n.fields.EventTitle)
		return types.Event{}, false
	}

	rawDate := n.text(rec, n.fields.EventDate)
	if rawDate == "" {
		n.state.AddError(recordID, "Missing %s field", n.fields.EventDate)
		return types.Event{}, false
	}
	date, ok := identity.ParseFlexibleDate(rawDate)
	if !ok {
		n.state.AddError(recordID, "Invalid date format: %s", rawDate)
		return types.Event{}, false
	}

	if group.ID == "" {
		n.state.AddError(recordID, "Missing workgroup_id reference")
		return types.Event{}, false
	}

	template := n.text(rec, n.fields.Template)
	if template == "" {
		template = DefaultTemplate
	}

	n.state.AddMapping(types.Mapping{JSONPath: n.fields.EventTitle, Table: n.tables.Events, Column: "name", Transformation: "direct"})
	n.state.AddMapping(types.Mapping{JSONPath: n.fields.EventDate, Table: n.tables.Events, Column: "date", Transformation: "parse-iso-date"})
	n.state.AddMapping(types.Mapping{JSONPath: n.fields.GroupID, Table: n.tables.Events, Column: "workgroup_id", Transformation: "direct"})
	n.state.AddMapping(types.Mapping{JSONPath: n.fields.Template, Table: n.tables.Events, Column: "template", Transformation: "direct"})
	n.state.AddMapping(types.Mapping{JSONPath: "*", Table: n.tables.Events, Column: "summary", Transformation: "json-stringify"})

	n.synthetic(n.tables.Events, "meeting_id", "deterministic-uuid", "name + date + workgroup_id")
	n.synthetic(n.tables.Events, "user_id", "deterministic-uuid", "workgroup context")
	n.synthetic(n.tables.Events, "confirmed", "default", "false")
	n.synthetic(n.tables.Events, "created_at", "timestamp", "meeting date")
	n.synthetic(n.tables.Events, "updated_at", "timestamp", "meeting date")

	return types.Event{
		ID:        identity.EventID(title, rawDate, group.ID),
		Title:     title,
		Date:      date,
		GroupID:   group.ID,
		OwnerID:   identity.OwnerID(group.Name),
		Template:  template,
		Payload:   payload(rec),
		Confirmed: false,
		CreatedAt: date,
		UpdatedAt: date,
	}, true
}

func (n *Normalizer) addEvent(event types.Event, recordID string) {
	key := types.EventKey{
		Title:   event.Title,
		Date:    identity.FormatTimestamp(event.Date),
		GroupID: event.GroupID,
		OwnerID: event.OwnerID,
	}
	if !n.state.Events.Add(key, event) {
		n.state.AddWarning(recordID, "Duplicate meeting summary (name, date, workgroup_id, user_id) - skipping")
	}
}

func (n *Normalizer) synthetic(table, column, generation, source string) {
	n.state.AddSyntheticField(types.SyntheticField{Table: table, Column: column, Generation: generation, Source: source})
}

// text renders the value at path as a string. Scalars of any JSON type are
// accepted; objects and arrays are not.
func (n *Normalizer) text(rec Record, path string) string {
	v, ok := rec.Lookup(path)
	if !ok {
		return ""
	}
	switch v.(type) {
	case map[string]interface{}, []interface{}:
		return ""
	}
	s, err := cast.ToStringE(v)
	if err != nil {
		return ""
	}
	return s
}

// stringOnly returns the value at path only when it is a JSON string.
func (n *Normalizer) stringOnly(rec Record, path string) string {
	v, ok := rec.Lookup(path)
	if !ok {
		return ""
	}
	s, _ := v.(string)
	return s
}

func splitList(value string) []string {
	if value == "" {
		return nil
	}
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func payload(rec Record) string {
	if rec.Raw != "" {
		return rec.Raw
	}
	b, err := json.Marshal(rec.Fields)
	if err != nil {
		return "{}"
	}
	return string(b)
}
