package sqlgen

import (
	"strings"
	"time"

	sq "github.com/Masterminds/squirrel"

	"github.com/Lumos-Labs-HQ/seedgen/internal/identity"
)

var escaper = strings.NewReplacer(`\`, `\\`, `'`, `''`)

// Escape doubles backslashes and single quotes.
func Escape(s string) string {
	return escaper.Replace(s)
}

func text(s string) sq.Sqlizer {
	return sq.Expr("'" + Escape(s) + "'")
}

func nullableText(s *string) sq.Sqlizer {
	if s == nil {
		return sq.Expr("NULL")
	}
	return text(*s)
}

func boolean(b bool) sq.Sqlizer {
	if b {
		return sq.Expr("true")
	}
	return sq.Expr("false")
}

func timestamp(t time.Time, clock func() time.Time) sq.Sqlizer {
	return text(identity.FormatOrNow(t, clock))
}
