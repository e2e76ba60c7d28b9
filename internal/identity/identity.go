// Package identity derives deterministic surrogate keys and normalizes
// free-form dates.
package identity

import (
	"crypto/sha256"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cast"
)

// TimestampLayout is the unzoned, seconds-resolution form written to SQL.
const TimestampLayout = "2006-01-02 15:04:05"

// Context strings. Changing any of these changes every generated key.
const (
	groupContext    = "workgroup:%s"
	ownerContext    = "user:%s:user"
	tagOwnerContext = "user:%s:%s:user"
	eventContext    = "meeting:%s:%s:%s"
)

// extra layouts tried after cast's own list
var extraLayouts = []string{
	"2006-01-02 15:04:05",
	"2006/01/02",
	"2006/01/02 15:04:05",
	"01/02/2006",
	"January 2, 2006",
	"Jan 2, 2006",
	"2 January 2006",
	"2006-01-02T15:04",
	"2006-01-02 15:04",
}

// SurrogateID hashes context with SHA-256 and renders the first 16 bytes of
// the digest as a lowercase 8-4-4-4-12 identifier.
func SurrogateID(context string) string {
	sum := sha256.Sum256([]byte(context))
	id, err := uuid.FromBytes(sum[:16])
	if err != nil {
		// FromBytes only fails on a length other than 16
		panic(err)
	}
	return id.String()
}

// IsWellFormed reports whether value is a 36-character grouped hex
// identifier. Either case is accepted; braces and urn prefixes are not.
func IsWellFormed(value string) bool {
	if len(value) != 36 {
		return false
	}
	_, err := uuid.Parse(value)
	return err == nil
}

// ParseFlexibleDate returns false for empty or unparseable text instead of
// an error, leaving the decision to the caller.
func ParseFlexibleDate(text string) (time.Time, bool) {
	text = strings.TrimSpace(text)
	if text == "" {
		return time.Time{}, false
	}

	if t, err := cast.ToTimeInDefaultLocationE(text, time.UTC); err == nil {
		return t.UTC(), true
	}
	for _, layout := range extraLayouts {
		if t, err := time.ParseInLocation(layout, text, time.UTC); err == nil {
			return t.UTC(), true
		}
	}
	return time.Time{}, false
}

// FormatTimestamp renders t in UTC with seconds precision.
func FormatTimestamp(t time.Time) string {
	return t.UTC().Format(TimestampLayout)
}

// FormatOrNow renders the zero time as clock().
func FormatOrNow(t time.Time, clock func() time.Time) string {
	if t.IsZero() {
		return FormatTimestamp(clock())
	}
	return FormatTimestamp(t)
}
