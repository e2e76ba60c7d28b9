package identity

import "fmt"

// GroupID is the key for a group known only by its display name.
func GroupID(name string) string {
	return SurrogateID(fmt.Sprintf(groupContext, name))
}

// OwnerID is the synthetic owner of a group, its events, and a person name.
func OwnerID(name string) string {
	return SurrogateID(fmt.Sprintf(ownerContext, name))
}

func TagOwnerID(text, tagType string) string {
	return SurrogateID(fmt.Sprintf(tagOwnerContext, text, tagType))
}

// EventID uses the raw date text, so "2024-01-15" and "2024-01-15T00:00:00Z"
// name different events.
func EventID(title, rawDate, groupID string) string {
	return SurrogateID(fmt.Sprintf(eventContext, title, rawDate, groupID))
}
