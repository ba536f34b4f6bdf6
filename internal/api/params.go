package api

import (
	"fmt"
	"net/url"
	"reflect"
	"sort"
	"strconv"
	"strings"
	"time"
)

// Params is an ordered set of request parameters.
//
// Values may be nil, strings, booleans, numbers, time.Time, fmt.Stringer,
// nested *Params or maps, and slices of any of those. Nil values are
// dropped when encoding; empty strings are kept.
type Params struct {
	keys   []string
	values map[string]any
}

// NewParams returns an empty parameter set.
func NewParams() *Params {
	return &Params{values: make(map[string]any)}
}

// ParamsFromMap copies m into a new Params. Keys are sorted so that encoding
// is deterministic.
func ParamsFromMap(m map[string]any) *Params {
	p := NewParams()
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		p.Set(k, m[k])
	}
	return p
}

// Set assigns value to key. An existing key keeps its position.
func (p *Params) Set(key string, value any) *Params {
	if p.values == nil {
		p.values = make(map[string]any)
	}
	if _, exists := p.values[key]; !exists {
		p.keys = append(p.keys, key)
	}
	p.values[key] = value
	return p
}

// Get returns the value stored for key.
func (p *Params) Get(key string) (any, bool) {
	if p == nil {
		return nil, false
	}
	v, ok := p.values[key]
	return v, ok
}

// Del removes key.
func (p *Params) Del(key string) {
	if p == nil {
		return
	}
	if _, ok := p.values[key]; !ok {
		return
	}
	delete(p.values, key)
	for i, k := range p.keys {
		if k == key {
			p.keys = append(p.keys[:i], p.keys[i+1:]...)
			break
		}
	}
}

// Keys returns the keys in insertion order.
func (p *Params) Keys() []string {
	if p == nil {
		return nil
	}
	return append([]string(nil), p.keys...)
}

// Len returns the number of keys.
func (p *Params) Len() int {
	if p == nil {
		return 0
	}
	return len(p.keys)
}

// Clone returns a shallow copy of p.
func (p *Params) Clone() *Params {
	c := NewParams()
	if p == nil {
		return c
	}
	for _, k := range p.keys {
		c.Set(k, p.values[k])
	}
	return c
}

// Merge returns a copy of p overlaid with other. Keys present in both take
// the value from other.
func (p *Params) Merge(other *Params) *Params {
	merged := p.Clone()
	if other == nil {
		return merged
	}
	for _, k := range other.keys {
		merged.Set(k, other.values[k])
	}
	return merged
}

// Pair is one flattened key=value parameter.
type Pair struct {
	Key   string
	Value string
}

// Flatten returns the parameters in wire form. Nested containers expand to
// bracketed keys: parent[child], parent[] for scalar lists and parent[i][child]
// for lists of containers.
func (p *Params) Flatten() []Pair {
	var pairs []Pair
	if p == nil {
		return pairs
	}
	for _, k := range p.keys {
		pairs = flattenValue(pairs, k, p.values[k])
	}
	return pairs
}

// Encode returns the form-encoded parameters. Brackets are left unescaped.
func (p *Params) Encode() string {
	pairs := p.Flatten()
	parts := make([]string, 0, len(pairs))
	for _, pair := range pairs {
		parts = append(parts, escapeKey(pair.Key)+"="+url.QueryEscape(pair.Value))
	}
	return strings.Join(parts, "&")
}

func escapeKey(k string) string {
	escaped := url.QueryEscape(k)
	escaped = strings.ReplaceAll(escaped, "%5B", "[")
	return strings.ReplaceAll(escaped, "%5D", "]")
}

func flattenValue(pairs []Pair, key string, value any) []Pair {
	switch v := value.(type) {
	case nil:
		return pairs
	case *Params:
		if v == nil {
			return pairs
		}
		for _, k := range v.keys {
			pairs = flattenValue(pairs, key+"["+k+"]", v.values[k])
		}
		return pairs
	case string:
		return append(pairs, Pair{key, v})
	case bool:
		return append(pairs, Pair{key, strconv.FormatBool(v)})
	case time.Time:
		return append(pairs, Pair{key, v.Format(time.RFC3339)})
	case fmt.Stringer:
		return append(pairs, Pair{key, v.String()})
	}

	rv := reflect.ValueOf(value)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Interface:
		if rv.IsNil() {
			return pairs
		}
		return flattenValue(pairs, key, rv.Elem().Interface())
	case reflect.Map:
		if rv.IsNil() {
			return pairs
		}
		keys := make([]string, 0, rv.Len())
		byKey := make(map[string]reflect.Value, rv.Len())
		for _, mk := range rv.MapKeys() {
			s := fmt.Sprint(mk.Interface())
			keys = append(keys, s)
			byKey[s] = rv.MapIndex(mk)
		}
		sort.Strings(keys)
		for _, k := range keys {
			pairs = flattenValue(pairs, key+"["+k+"]", byKey[k].Interface())
		}
		return pairs
	case reflect.Slice, reflect.Array:
		if rv.Kind() == reflect.Slice && rv.IsNil() {
			return pairs
		}
		for i := 0; i < rv.Len(); i++ {
			elem := rv.Index(i).Interface()
			if isContainer(elem) {
				pairs = flattenValue(pairs, key+"["+strconv.Itoa(i)+"]", elem)
			} else {
				pairs = flattenValue(pairs, key+"[]", elem)
			}
		}
		return pairs
	}

	return append(pairs, Pair{key, fmt.Sprint(value)})
}

func isContainer(v any) bool {
	if _, ok := v.(*Params); ok {
		return true
	}
	if v == nil {
		return false
	}
	k := reflect.TypeOf(v).Kind()
	return k == reflect.Map
}

// parseQuery decodes a raw query string into Params, keeping the order in
// which keys first appear. Repeated keys keep the last value.
func parseQuery(raw string) (*Params, error) {
	p := NewParams()
	for _, part := range strings.Split(raw, "&") {
		if part == "" {
			continue
		}
		k, v, _ := strings.Cut(part, "=")
		key, err := url.QueryUnescape(k)
		if err != nil {
			return nil, fmt.Errorf("decode query key %q: %w", k, err)
		}
		value, err := url.QueryUnescape(v)
		if err != nil {
			return nil, fmt.Errorf("decode query value %q: %w", v, err)
		}
		p.Set(key, value)
	}
	return p, nil
}
