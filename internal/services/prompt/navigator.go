// Package prompt implements the template expansion engine that resolves
// prompt templates against portfolio and security data.
package prompt

import (
	"strconv"
	"strings"

	"github.com/tidwall/gjson"
)

// wildcardSegment is the path component that fans out over a collection,
// e.g. "news.ARRAY.content.title" collects every article title.
const wildcardSegment = "ARRAY"

// navigate resolves dotted path parts against a parsed JSON value.
// At each step an object is traversed by key, an array by numeric index.
// Any miss (unknown key, bad index, traversal into a scalar) returns the
// zero Result rather than an error.
func navigate(data gjson.Result, parts []string) gjson.Result {
	current := data
	for _, part := range parts {
		if !current.Exists() || current.Type == gjson.Null {
			return gjson.Result{}
		}
		switch {
		case current.IsObject():
			current = current.Get(escapeKey(part))
		case current.IsArray():
			idx, err := strconv.Atoi(part)
			if err != nil || idx < 0 {
				return gjson.Result{}
			}
			arr := current.Array()
			if idx >= len(arr) {
				return gjson.Result{}
			}
			current = arr[idx]
		default:
			return gjson.Result{}
		}
	}
	return current
}

// expandWildcard resolves path parts containing one wildcard segment.
// Every element of the collection at the wildcard position (array elements,
// or object values for an object) is navigated through the remaining parts;
// non-empty results are joined with ", ".
func expandWildcard(data gjson.Result, parts []string) string {
	pos := -1
	for i, p := range parts {
		if p == wildcardSegment {
			pos = i
			break
		}
	}
	if pos < 0 {
		return renderResult(navigate(data, parts))
	}

	current := navigate(data, parts[:pos])
	if !current.Exists() || (!current.IsArray() && !current.IsObject()) {
		return ""
	}

	rest := parts[pos+1:]
	var values []string
	current.ForEach(func(_, elem gjson.Result) bool {
		v := renderResult(navigate(elem, rest))
		if v != "" {
			values = append(values, v)
		}
		return true
	})
	return strings.Join(values, ", ")
}

// renderResult converts a resolved JSON value to its display string.
// Missing and null values render as "". Objects and arrays render as raw JSON.
func renderResult(r gjson.Result) string {
	if !r.Exists() || r.Type == gjson.Null {
		return ""
	}
	return r.String()
}

// escapeKey escapes gjson path metacharacters in a single object key.
func escapeKey(key string) string {
	if !strings.ContainsAny(key, `*?\.`) {
		return key
	}
	var sb strings.Builder
	for _, c := range key {
		switch c {
		case '*', '?', '\\', '.':
			sb.WriteByte('\\')
		}
		sb.WriteRune(c)
	}
	return sb.String()
}
