package jsonvalue

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	gojson "github.com/goccy/go-json"

	"github.com/vanderheijden86/jsonview/pkg/metrics"
)

// SyntaxError reports input that is not well-formed JSON. Msg is the
// parser's own message, kept verbatim; Line and Column are 1-based and
// derived from Offset.
type SyntaxError struct {
	Msg    string
	Offset int64
	Line   int
	Column int
}

func (e *SyntaxError) Error() string {
	return e.Msg
}

// Location renders the position as "line L, column C".
func (e *SyntaxError) Location() string {
	return fmt.Sprintf("line %d, column %d", e.Line, e.Column)
}

// Parse parses exactly one JSON value from data.
//
// Grammar checking is done by go-json, whose error carries the offending
// offset. The ordered tree is then built from encoding/json's token stream,
// since go-json only decodes objects into unordered maps.
func Parse(data []byte) (Value, error) {
	defer metrics.Timer(metrics.Parse)()

	// Numbers stay json.Number so out-of-range literals like 1e400 pass.
	check := gojson.NewDecoder(bytes.NewReader(data))
	check.UseNumber()
	var probe any
	if err := check.Decode(&probe); err != nil {
		return Value{}, newSyntaxError(data, err)
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	v, err := decodeValue(dec)
	if err != nil {
		return Value{}, newSyntaxError(data, err)
	}
	end := dec.InputOffset()
	if _, err := dec.Token(); err != io.EOF {
		if err == nil {
			return Value{}, syntaxErrorAt(data, "invalid character after top-level value", skipSpace(data, end))
		}
		return Value{}, newSyntaxError(data, err)
	}
	return v, nil
}

// ParseString is Parse for string input.
func ParseString(s string) (Value, error) {
	return Parse([]byte(s))
}

func decodeValue(dec *json.Decoder) (Value, error) {
	tok, err := dec.Token()
	if err != nil {
		if err == io.EOF {
			return Value{}, io.ErrUnexpectedEOF
		}
		return Value{}, err
	}

	switch t := tok.(type) {
	case json.Delim:
		switch t {
		case '{':
			return decodeObject(dec)
		case '[':
			return decodeArray(dec)
		}
		return Value{}, fmt.Errorf("unexpected %q", rune(t))
	case string:
		return String(t), nil
	case json.Number:
		return Number(t.String()), nil
	case bool:
		return Bool(t), nil
	case nil:
		return Null(), nil
	}
	return Value{}, fmt.Errorf("unexpected token %v", tok)
}

func decodeObject(dec *json.Decoder) (Value, error) {
	var members []Member
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return Value{}, err
		}
		key, ok := tok.(string)
		if !ok {
			return Value{}, fmt.Errorf("expected object key, got %v", tok)
		}
		v, err := decodeValue(dec)
		if err != nil {
			return Value{}, err
		}
		members = append(members, Member{Key: key, Value: v})
	}
	if _, err := dec.Token(); err != nil {
		return Value{}, err
	}
	return Object(members...), nil
}

func decodeArray(dec *json.Decoder) (Value, error) {
	var elems []Value
	for dec.More() {
		v, err := decodeValue(dec)
		if err != nil {
			return Value{}, err
		}
		elems = append(elems, v)
	}
	if _, err := dec.Token(); err != nil {
		return Value{}, err
	}
	return Array(elems...), nil
}

func newSyntaxError(data []byte, err error) *SyntaxError {
	offset := int64(len(data))

	var goErr *gojson.SyntaxError
	var stdErr *json.SyntaxError
	switch {
	case errors.As(err, &goErr):
		offset = goErr.Offset
	case errors.As(err, &stdErr):
		offset = stdErr.Offset
	}
	msg := err.Error()
	if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) || truncated(data) {
		msg = errUnexpectedEnd
		offset = int64(len(data))
	}
	return syntaxErrorAt(data, msg, offset)
}

// errUnexpectedEnd replaces whatever the parsers report when the input stops
// inside a value.
const errUnexpectedEnd = "unexpected end of JSON input"

// truncated reports whether data is a valid prefix of some JSON value, using
// encoding/json's scanner, which distinguishes running out of input from
// bad input.
func truncated(data []byte) bool {
	var raw json.RawMessage
	var se *json.SyntaxError
	return errors.As(json.Unmarshal(data, &raw), &se) && se.Error() == errUnexpectedEnd
}

func syntaxErrorAt(data []byte, msg string, offset int64) *SyntaxError {
	if offset < 0 {
		offset = 0
	}
	if offset > int64(len(data)) {
		offset = int64(len(data))
	}
	line, col := position(data, offset)
	return &SyntaxError{Msg: msg, Offset: offset, Line: line, Column: col}
}

// skipSpace returns the offset of the first non-whitespace byte at or after
// offset, or len(data).
func skipSpace(data []byte, offset int64) int64 {
	if offset < 0 {
		offset = 0
	}
	for offset < int64(len(data)) {
		switch data[offset] {
		case ' ', '\t', '\n', '\r':
			offset++
		default:
			return offset
		}
	}
	return int64(len(data))
}

// position converts a byte offset into a 1-based line and column.
func position(data []byte, offset int64) (line, col int) {
	line, col = 1, 1
	for _, c := range data[:offset] {
		if c == '\n' {
			line++
			col = 1
			continue
		}
		col++
	}
	return line, col
}
