package prompt

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/tidwall/gjson"

	"github.com/phalouvas/cognitive-folio/internal/models"
)

// resolveVariable resolves a token expression against a record.
//
// A plain field name renders the field's string value, or "" when the field
// is unknown or unset. A dotted expression treats the first segment as a
// JSON-blob field and navigates the rest of the path into it; a blob that
// fails to parse as JSON renders as "" rather than the raw blob.
//
// token is the original delimited token text; it is returned verbatim when
// resolution hits an unexpected failure, so a broken record never erases
// the author's template. This differs deliberately from the parse-failure
// case above.
func resolveVariable(token, expr string, doc models.FieldAccessor) (out string) {
	defer func() {
		if r := recover(); r != nil {
			out = token
		}
	}()

	expr = strings.TrimSpace(expr)
	if expr == "" {
		return ""
	}

	if !strings.Contains(expr, ".") {
		return stringifyField(doc.GetField(expr))
	}

	segs := strings.Split(expr, ".")
	field, rest := segs[0], segs[1:]

	raw := doc.GetField(field)
	if raw == nil {
		return ""
	}
	blob := stringifyField(raw)
	if strings.TrimSpace(blob) == "" {
		return ""
	}
	if !gjson.Valid(blob) {
		return ""
	}

	parsed := gjson.Parse(blob)
	if containsWildcard(rest) {
		return expandWildcard(parsed, rest)
	}
	return renderResult(navigate(parsed, rest))
}

func containsWildcard(parts []string) bool {
	for _, p := range parts {
		if p == wildcardSegment {
			return true
		}
	}
	return false
}

// stringifyField renders a record field value for template output.
func stringifyField(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(t), 'f', -1, 32)
	case int:
		return strconv.Itoa(t)
	case int64:
		return strconv.FormatInt(t, 10)
	case bool:
		return strconv.FormatBool(t)
	case time.Time:
		if t.IsZero() {
			return ""
		}
		return t.Format("2006-01-02")
	default:
		return fmt.Sprintf("%v", t)
	}
}
