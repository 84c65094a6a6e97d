package qskema

import (
	"iter"
	"net/url"
	"slices"
	"strings"
	"unicode/utf8"
)

// Params is an ordered multi-map of query parameters with the semantics of the
// WHATWG URLSearchParams object: keys may repeat, insertion order is kept, and
// String renders application/x-www-form-urlencoded output.
//
// A Params is not safe for concurrent mutation; decode only reads it and
// encode works on a clone.
type Params struct {
	list []param
}

type param struct {
	key, value string
}

// NewParams returns an empty parameter set.
func NewParams() *Params { return &Params{} }

// ParseParams parses a query string. A single leading '?' is ignored, empty
// pieces are skipped, '+' decodes to a space and malformed %-escapes are kept
// literally. A piece without '=' yields the key with an empty value.
func ParseParams(query string) *Params {
	query = strings.TrimPrefix(query, "?")
	p := &Params{}
	for piece := range strings.SplitSeq(query, "&") {
		if piece == "" {
			continue
		}
		k, v, _ := strings.Cut(piece, "=")
		p.list = append(p.list, param{key: formDecode(k), value: formDecode(v)})
	}
	return p
}

// ParamsFromValues converts url.Values. Keys are added in sorted order since
// Go maps carry no order; values keep their slice order.
func ParamsFromValues(v url.Values) *Params {
	keys := make([]string, 0, len(v))
	for k := range v {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	p := &Params{}
	for _, k := range keys {
		for _, val := range v[k] {
			p.list = append(p.list, param{key: k, value: val})
		}
	}
	return p
}

// Len returns the number of key/value pairs, counting repeated keys.
func (p *Params) Len() int { return len(p.list) }

// Get returns the first value for key.
func (p *Params) Get(key string) (string, bool) {
	for _, kv := range p.list {
		if kv.key == key {
			return kv.value, true
		}
	}
	return "", false
}

// Last returns the last value for key.
func (p *Params) Last(key string) (string, bool) {
	for i := len(p.list) - 1; i >= 0; i-- {
		if p.list[i].key == key {
			return p.list[i].value, true
		}
	}
	return "", false
}

// GetAll returns every value for key in order, or nil.
func (p *Params) GetAll(key string) []string {
	var out []string
	for _, kv := range p.list {
		if kv.key == key {
			out = append(out, kv.value)
		}
	}
	return out
}

// Has reports whether key occurs at least once.
func (p *Params) Has(key string) bool {
	_, ok := p.Get(key)
	return ok
}

// Append adds a pair at the end.
func (p *Params) Append(key, value string) {
	p.list = append(p.list, param{key: key, value: value})
}

// Set replaces the first occurrence of key in place and drops the others; a
// new key is appended.
func (p *Params) Set(key, value string) {
	found := false
	out := p.list[:0]
	for _, kv := range p.list {
		if kv.key != key {
			out = append(out, kv)
			continue
		}
		if !found {
			found = true
			out = append(out, param{key: key, value: value})
		}
	}
	p.list = out
	if !found {
		p.list = append(p.list, param{key: key, value: value})
	}
}

// Delete removes every occurrence of key.
func (p *Params) Delete(key string) {
	p.list = slices.DeleteFunc(p.list, func(kv param) bool { return kv.key == key })
}

// Clone returns an independent copy.
func (p *Params) Clone() *Params {
	if p == nil {
		return &Params{}
	}
	return &Params{list: slices.Clone(p.list)}
}

// All iterates pairs in order, including repeated keys.
func (p *Params) All() iter.Seq2[string, string] {
	return func(yield func(string, string) bool) {
		for _, kv := range p.list {
			if !yield(kv.key, kv.value) {
				return
			}
		}
	}
}

// Keys returns the distinct keys in order of first appearance.
func (p *Params) Keys() []string {
	seen := make(map[string]struct{}, len(p.list))
	var out []string
	for _, kv := range p.list {
		if _, ok := seen[kv.key]; ok {
			continue
		}
		seen[kv.key] = struct{}{}
		out = append(out, kv.key)
	}
	return out
}

// Values converts to url.Values (order across keys is lost).
func (p *Params) Values() url.Values {
	v := make(url.Values, len(p.list))
	for _, kv := range p.list {
		v[kv.key] = append(v[kv.key], kv.value)
	}
	return v
}

// String renders the pairs as application/x-www-form-urlencoded text.
func (p *Params) String() string {
	b := &strings.Builder{}
	for i, kv := range p.list {
		if i > 0 {
			b.WriteByte('&')
		}
		formEncode(b, kv.key)
		b.WriteByte('=')
		formEncode(b, kv.value)
	}
	return b.String()
}

// ---- application/x-www-form-urlencoded ----

const upperhex = "0123456789ABCDEF"

func formEncode(b *strings.Builder, s string) {
	if !utf8.ValidString(s) {
		s = toValidUTF8([]byte(s))
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c == ' ':
			b.WriteByte('+')
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9',
			c == '*', c == '-', c == '.', c == '_':
			b.WriteByte(c)
		default:
			b.WriteByte('%')
			b.WriteByte(upperhex[c>>4])
			b.WriteByte(upperhex[c&15])
		}
	}
}

// formDecode replaces '+' with a space and decodes %XX escapes, leaving
// malformed escapes untouched. Each maximal invalid UTF-8 subpart becomes one
// U+FFFD.
func formDecode(s string) string {
	if strings.IndexByte(s, '%') < 0 && strings.IndexByte(s, '+') < 0 {
		if utf8.ValidString(s) {
			return s
		}
		return toValidUTF8([]byte(s))
	}
	buf := make([]byte, 0, len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c == '+':
			buf = append(buf, ' ')
		case c == '%' && i+2 < len(s) && ishex(s[i+1]) && ishex(s[i+2]):
			buf = append(buf, unhex(s[i+1])<<4|unhex(s[i+2]))
			i += 2
		default:
			buf = append(buf, c)
		}
	}
	if utf8.Valid(buf) {
		return string(buf)
	}
	return toValidUTF8(buf)
}

func toValidUTF8(b []byte) string {
	out := make([]byte, 0, len(b)+8)
	for len(b) > 0 {
		r, size := utf8.DecodeRune(b)
		if r == utf8.RuneError && size <= 1 {
			out = utf8.AppendRune(out, utf8.RuneError)
			b = b[maximalSubpart(b):]
			continue
		}
		out = append(out, b[:size]...)
		b = b[size:]
	}
	return string(out)
}

// maximalSubpart returns the length of the longest prefix of b that starts a
// well-formed UTF-8 sequence, or 1 when b[0] cannot start one.
func maximalSubpart(b []byte) int {
	n, lo, hi := 0, byte(0x80), byte(0xBF)
	switch c := b[0]; {
	case c >= 0xC2 && c <= 0xDF:
		n = 2
	case c == 0xE0:
		n, lo = 3, 0xA0
	case c == 0xED:
		n, hi = 3, 0x9F
	case c >= 0xE1 && c <= 0xEF:
		n = 3
	case c == 0xF0:
		n, lo = 4, 0x90
	case c == 0xF4:
		n, hi = 4, 0x8F
	case c >= 0xF1 && c <= 0xF3:
		n = 4
	default:
		return 1
	}
	i := 1
	if i < len(b) && b[i] >= lo && b[i] <= hi {
		i++
		for i < n && i < len(b) && b[i] >= 0x80 && b[i] <= 0xBF {
			i++
		}
	}
	return i
}

func ishex(c byte) bool {
	return (c >= '0' && c <= '9') || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')
}

func unhex(c byte) byte {
	switch {
	case c >= '0' && c <= '9':
		return c - '0'
	case c >= 'a' && c <= 'f':
		return c - 'a' + 10
	default:
		return c - 'A' + 10
	}
}
