package graph

import (
	"encoding"
	"reflect"
	"strings"
	"sync"
	"time"
)

const (
	// TagDiff holds comparison options for a struct field: "-" to
	// exclude it, "key" to make it (part of) the identity of the
	// record when it appears in a collection.
	TagDiff = "diff"
	// TagDisplay holds the display label of a struct field. An empty
	// label is different from no label.
	TagDisplay = "display"
)

// TypeConfig is the per-type configuration consulted during mapping
// and comparison.
type TypeConfig struct {
	// Display, if not nil, labels instances of the type.
	Display *string
	// Ignore excludes all members of the type from comparison.
	Ignore bool
	// Leaf makes the type an atomic value, compared as a whole
	// rather than member by member.
	Leaf bool
	// Values labels individual values, e.g., the constants of an
	// enum-like type. A type with value labels is a leaf.
	Values map[interface{}]string
	// Members configures members by name.
	Members map[string]MemberConfig
}

type MemberConfig struct {
	Ignore  bool
	Key     bool
	Display *string
}

// Label returns a pointer to s, for filling in display labels.
func Label(s string) *string {
	return &s
}

var (
	timeType          = reflect.TypeOf(time.Time{})
	textMarshalerType = reflect.TypeOf((*encoding.TextMarshaler)(nil)).Elem()
)

// Metadata answers questions about types and members: whether they
// are compared, whether they identify records, how they are
// labelled. Struct tags are always consulted; explicit registrations
// take precedence. A nil *Metadata answers from struct tags alone.
type Metadata struct {
	mu      sync.RWMutex
	types   map[reflect.Type]TypeConfig
	members map[string]MemberConfig
}

func NewMetadata() *Metadata {
	return &Metadata{
		types:   map[reflect.Type]TypeConfig{},
		members: map[string]MemberConfig{},
	}
}

// Register sets the configuration for a type. Registering a pointer
// type configures the type pointed to.
func (md *Metadata) Register(t reflect.Type, c TypeConfig) {
	md.mu.Lock()
	defer md.mu.Unlock()
	md.types[elemType(t)] = c
}

// RegisterMember configures members with the given name on every
// type that doesn't configure it itself. This is how documents
// without types of their own (e.g., maps read from YAML) are
// configured.
func (md *Metadata) RegisterMember(name string, c MemberConfig) {
	md.mu.Lock()
	defer md.mu.Unlock()
	md.members[name] = c
}

func (md *Metadata) typeConfig(t reflect.Type) (TypeConfig, bool) {
	if md == nil || t == nil {
		return TypeConfig{}, false
	}
	md.mu.RLock()
	defer md.mu.RUnlock()
	c, ok := md.types[elemType(t)]
	return c, ok
}

func (md *Metadata) memberConfig(m *Member) (MemberConfig, bool) {
	if md == nil || m == nil {
		return MemberConfig{}, false
	}
	if tc, ok := md.typeConfig(m.DeclaringType); ok {
		if c, ok := tc.Members[m.Name]; ok {
			return c, true
		}
	}
	md.mu.RLock()
	defer md.mu.RUnlock()
	c, ok := md.members[m.Name]
	return c, ok
}

// IsIgnored reports whether the member is excluded from comparison.
func (md *Metadata) IsIgnored(m *Member) bool {
	if m == nil {
		return false
	}
	if c, ok := md.memberConfig(m); ok && c.Ignore {
		return true
	}
	ignore, _ := tagOptions(m.Tag)
	return ignore
}

// IsTypeIgnored reports whether every member of the type is
// excluded from comparison.
func (md *Metadata) IsTypeIgnored(t reflect.Type) bool {
	c, ok := md.typeConfig(t)
	return ok && c.Ignore
}

// IsKey reports whether the member is part of the identity of its
// declaring record.
func (md *Metadata) IsKey(m *Member) bool {
	if m == nil {
		return false
	}
	if c, ok := md.memberConfig(m); ok && c.Key {
		return true
	}
	_, key := tagOptions(m.Tag)
	return key
}

// MemberDisplay returns the display label declared for the member.
func (md *Metadata) MemberDisplay(m *Member) (string, bool) {
	if m == nil {
		return "", false
	}
	if c, ok := md.memberConfig(m); ok && c.Display != nil {
		return *c.Display, true
	}
	return m.Tag.Lookup(TagDisplay)
}

// TypeDisplay returns the display label registered for the type.
func (md *Metadata) TypeDisplay(t reflect.Type) (string, bool) {
	if c, ok := md.typeConfig(t); ok && c.Display != nil {
		return *c.Display, true
	}
	return "", false
}

// ValueDisplay returns the display label registered for a value of
// an enum-like type.
func (md *Metadata) ValueDisplay(v interface{}) (string, bool) {
	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.Ptr {
		if rv.IsNil() {
			return "", false
		}
		rv = rv.Elem()
	}
	if !rv.IsValid() || !rv.Type().Comparable() || !rv.CanInterface() {
		return "", false
	}
	c, ok := md.typeConfig(rv.Type())
	if !ok || c.Values == nil {
		return "", false
	}
	label, ok := c.Values[rv.Interface()]
	return label, ok
}

// IsLeaf reports whether values of the type are compared as a whole.
// Besides registered leaf and enum-like types, this is true of
// time.Time and anything that marshals itself to text.
func (md *Metadata) IsLeaf(t reflect.Type) bool {
	if t == nil {
		return false
	}
	if c, ok := md.typeConfig(t); ok && (c.Leaf || len(c.Values) > 0) {
		return true
	}
	if elemType(t) == timeType {
		return true
	}
	return t.Implements(textMarshalerType) || reflect.PtrTo(t).Implements(textMarshalerType)
}

func tagOptions(tag reflect.StructTag) (ignore, key bool) {
	value, ok := tag.Lookup(TagDiff)
	if !ok {
		return false, false
	}
	for _, opt := range strings.Split(value, ",") {
		switch strings.TrimSpace(opt) {
		case "-":
			ignore = true
		case "key":
			key = true
		}
	}
	return ignore, key
}

func elemType(t reflect.Type) reflect.Type {
	for t != nil && t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	return t
}
