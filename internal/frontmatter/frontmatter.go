// Package frontmatter implements the lossless codec for the YAML-style
// front matter envelope used by the blog repository: a leading block of
// key-value lines delimited by `---` lines, followed by the Markdown body.
//
// Values are either scalars or flat string arrays; the codec never coerces
// numeric- or boolean-looking scalars, and it preserves insertion order for
// keys it does not recognize, so parse/serialize round-trips are lossless.
package frontmatter

import (
	"fmt"
	"strings"

	"github.com/virel/pagesmith/internal/apperr"
)

const delimiter = "---"

// Kind selects the parsing contract for a document.
type Kind int

const (
	// KindPost requires a front matter block; a post without one is malformed.
	KindPost Kind = iota
	// KindPage tolerates plain Markdown with no front matter at all.
	KindPage
)

// Recognized keys per kind, in canonical serialization order.
var (
	postKeys = []string{"layout", "title", "date", "categories", "tags", "excerpt"}
	pageKeys = []string{"layout", "title", "permalink", "description"}
)

// Value is a front matter value: a scalar string or a flat string array.
type Value struct {
	scalar string
	items  []string
	isList bool
}

// String returns a scalar Value.
func String(s string) Value {
	return Value{scalar: s}
}

// List returns an array Value.
func List(items ...string) Value {
	return Value{items: items, isList: true}
}

// IsList reports whether the value is an array.
func (v Value) IsList() bool { return v.isList }

// Scalar returns the scalar form; empty for arrays.
func (v Value) Scalar() string { return v.scalar }

// Items returns the array elements; nil for scalars.
func (v Value) Items() []string { return v.items }

// empty reports whether serialization should skip the value.
func (v Value) empty() bool {
	if v.isList {
		return len(v.items) == 0
	}
	return v.scalar == ""
}

// Metadata is an insertion-ordered mapping of front matter keys to values.
type Metadata struct {
	keys   []string
	values map[string]Value
}

// NewMetadata returns an empty metadata map.
func NewMetadata() *Metadata {
	return &Metadata{values: make(map[string]Value)}
}

// Get returns the value for key and whether it is present.
func (m *Metadata) Get(key string) (Value, bool) {
	v, ok := m.values[key]
	return v, ok
}

// GetString returns the scalar value for key, or "" if absent or an array.
func (m *Metadata) GetString(key string) string {
	v, ok := m.values[key]
	if !ok || v.isList {
		return ""
	}
	return v.scalar
}

// GetList returns the array value for key, or nil if absent or a scalar.
func (m *Metadata) GetList(key string) []string {
	v, ok := m.values[key]
	if !ok || !v.isList {
		return nil
	}
	return v.items
}

// Set stores a value, appending the key to the insertion order if new.
func (m *Metadata) Set(key string, v Value) {
	if _, ok := m.values[key]; !ok {
		m.keys = append(m.keys, key)
	}
	m.values[key] = v
}

// SetDefault stores a value only if the key is absent.
func (m *Metadata) SetDefault(key string, v Value) {
	if _, ok := m.values[key]; !ok {
		m.Set(key, v)
	}
}

// Delete removes a key.
func (m *Metadata) Delete(key string) {
	if _, ok := m.values[key]; !ok {
		return
	}
	delete(m.values, key)
	for i, k := range m.keys {
		if k == key {
			m.keys = append(m.keys[:i], m.keys[i+1:]...)
			break
		}
	}
}

// Keys returns all keys in insertion order.
func (m *Metadata) Keys() []string {
	out := make([]string, len(m.keys))
	copy(out, m.keys)
	return out
}

// Len returns the number of keys.
func (m *Metadata) Len() int { return len(m.keys) }

// Clone returns a deep copy.
func (m *Metadata) Clone() *Metadata {
	c := NewMetadata()
	for _, k := range m.keys {
		v := m.values[k]
		if v.isList {
			items := make([]string, len(v.items))
			copy(items, v.items)
			c.Set(k, List(items...))
		} else {
			c.Set(k, v)
		}
	}
	return c
}

// Parse splits raw document text into metadata and body.
//
// Posts must start with a delimited front matter block; pages without one
// are returned whole as body with empty metadata. An opened but unterminated
// block is malformed for either kind.
func Parse(raw string, kind Kind) (*Metadata, string, error) {
	if !strings.HasPrefix(raw, delimiter+"\n") {
		if kind == KindPost {
			return nil, "", fmt.Errorf("%w: post has no front matter block", apperr.ErrMalformedDocument)
		}
		return NewMetadata(), raw, nil
	}

	rest := raw[len(delimiter)+1:]
	meta := NewMetadata()

	for {
		line, remainder, found := cutLine(rest)
		if !found && line == "" {
			return nil, "", fmt.Errorf("%w: unterminated front matter block", apperr.ErrMalformedDocument)
		}
		rest = remainder

		if strings.TrimRight(line, " \t") == delimiter {
			// One newline separates the closing delimiter from the body;
			// Serialize emits it, so strip it here for a clean round-trip.
			body := strings.TrimPrefix(rest, "\n")
			return meta, body, nil
		}
		if strings.TrimSpace(line) == "" {
			continue
		}

		idx := strings.Index(line, ":")
		if idx < 0 {
			return nil, "", fmt.Errorf("%w: front matter line %q is not key: value", apperr.ErrMalformedDocument, line)
		}
		key := strings.TrimSpace(line[:idx])
		if key == "" {
			return nil, "", fmt.Errorf("%w: front matter line %q has empty key", apperr.ErrMalformedDocument, line)
		}
		meta.Set(key, parseValue(strings.TrimSpace(line[idx+1:])))

		if !found {
			return nil, "", fmt.Errorf("%w: unterminated front matter block", apperr.ErrMalformedDocument)
		}
	}
}

// cutLine splits s at the first newline. found is false when s has no
// newline left, in which case line is the remainder.
func cutLine(s string) (line, rest string, found bool) {
	return strings.Cut(s, "\n")
}

// parseValue applies the value rules: strip surrounding quotes, or split a
// bracketed list on commas with per-element quote stripping. Everything else
// stays a raw string; no type guessing.
func parseValue(raw string) Value {
	if len(raw) >= 2 && raw[0] == '[' && raw[len(raw)-1] == ']' {
		inner := strings.TrimSpace(raw[1 : len(raw)-1])
		if inner == "" {
			return List()
		}
		parts := strings.Split(inner, ",")
		items := make([]string, 0, len(parts))
		for _, p := range parts {
			items = append(items, stripQuotes(strings.TrimSpace(p)))
		}
		return List(items...)
	}
	return String(stripQuotes(raw))
}

func stripQuotes(s string) string {
	if len(s) >= 2 {
		first, last := s[0], s[len(s)-1]
		if first == last && (first == '"' || first == '\'') {
			return s[1 : len(s)-1]
		}
	}
	return s
}

// Serialize renders metadata and body back into document text.
//
// Recognized keys for the kind come first in canonical order, then any
// remaining keys in their insertion order. Keys with empty values are
// skipped. The body is appended untouched after the closing delimiter and a
// single separating newline. Empty metadata yields the bare body.
func Serialize(meta *Metadata, body string, kind Kind) string {
	if meta == nil || meta.Len() == 0 {
		return body
	}

	recognized := postKeys
	if kind == KindPage {
		recognized = pageKeys
	}

	var b strings.Builder
	b.WriteString(delimiter + "\n")

	emitted := make(map[string]bool, meta.Len())
	for _, key := range recognized {
		if v, ok := meta.Get(key); ok {
			emitted[key] = true
			writeField(&b, key, v)
		}
	}
	for _, key := range meta.Keys() {
		if emitted[key] {
			continue
		}
		v, _ := meta.Get(key)
		writeField(&b, key, v)
	}

	b.WriteString(delimiter + "\n\n")
	b.WriteString(body)
	return b.String()
}

func writeField(b *strings.Builder, key string, v Value) {
	if v.empty() {
		return
	}
	if v.isList {
		quoted := make([]string, len(v.items))
		for i, item := range v.items {
			quoted[i] = `"` + item + `"`
		}
		fmt.Fprintf(b, "%s: [%s]\n", key, strings.Join(quoted, ", "))
		return
	}
	fmt.Fprintf(b, "%s: \"%s\"\n", key, v.scalar)
}
