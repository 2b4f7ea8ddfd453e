package jsonvalue

import (
	"strconv"
	"strings"
)

// PointerEscape escapes one reference token per RFC 6901.
func PointerEscape(token string) string {
	if !strings.ContainsAny(token, "~/") {
		return token
	}
	token = strings.ReplaceAll(token, "~", "~0")
	return strings.ReplaceAll(token, "/", "~1")
}

// PointerUnescape reverses PointerEscape.
func PointerUnescape(token string) string {
	if !strings.Contains(token, "~") {
		return token
	}
	token = strings.ReplaceAll(token, "~1", "/")
	return strings.ReplaceAll(token, "~0", "~")
}

// ChildPointer appends an object key to a JSON pointer.
func ChildPointer(parent, key string) string {
	return parent + "/" + PointerEscape(key)
}

// IndexPointer appends an array index to a JSON pointer.
func IndexPointer(parent string, index int) string {
	return parent + "/" + strconv.Itoa(index)
}

// Lookup resolves a JSON pointer against v. The empty pointer is v itself.
// With duplicate keys the first member wins.
func Lookup(v Value, pointer string) (Value, bool) {
	if pointer == "" {
		return v, true
	}
	if !strings.HasPrefix(pointer, "/") {
		return Value{}, false
	}
	cur := v
	for _, raw := range strings.Split(pointer[1:], "/") {
		token := PointerUnescape(raw)
		switch cur.kind {
		case KindObject:
			found := false
			for _, m := range cur.members {
				if m.Key == token {
					cur = m.Value
					found = true
					break
				}
			}
			if !found {
				return Value{}, false
			}
		case KindArray:
			i, err := strconv.Atoi(token)
			if err != nil || i < 0 || i >= len(cur.elems) {
				return Value{}, false
			}
			cur = cur.elems[i]
		default:
			return Value{}, false
		}
	}
	return cur, true
}
