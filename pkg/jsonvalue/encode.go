package jsonvalue

import (
	"bytes"
	"encoding/json"
	"strings"

	gojson "github.com/goccy/go-json"
)

// Quote renders s as a JSON string literal. HTML characters are left alone;
// escaping for a markup surface is the renderer's job.
func Quote(s string) string {
	b, err := gojson.MarshalNoEscape(s)
	if err == nil {
		return string(b)
	}
	// go-json only fails here on encoder bugs; the standard encoder is the
	// reference behaviour.
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	_ = enc.Encode(s)
	return strings.TrimSuffix(buf.String(), "\n")
}

// Compact renders v on a single line without insignificant whitespace.
func Compact(v Value) string {
	var sb strings.Builder
	writeCompact(&sb, v)
	return sb.String()
}

func writeCompact(sb *strings.Builder, v Value) {
	switch v.kind {
	case KindObject:
		sb.WriteByte('{')
		for i, m := range v.members {
			if i > 0 {
				sb.WriteByte(',')
			}
			sb.WriteString(Quote(m.Key))
			sb.WriteByte(':')
			writeCompact(sb, m.Value)
		}
		sb.WriteByte('}')
	case KindArray:
		sb.WriteByte('[')
		for i, e := range v.elems {
			if i > 0 {
				sb.WriteByte(',')
			}
			writeCompact(sb, e)
		}
		sb.WriteByte(']')
	default:
		sb.WriteString(v.Literal())
	}
}

// MarshalJSON implements json.Marshaler so Values embed in encoded records.
func (v Value) MarshalJSON() ([]byte, error) {
	return []byte(Compact(v)), nil
}
