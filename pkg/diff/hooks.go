package diff

import (
	"fmt"
	"reflect"
	"sort"
	"time"

	"github.com/Masterminds/semver/v3"
	"github.com/go-kit/kit/log"

	"github.com/fluxcd/graphdiff/pkg/graph"
)

// Config holds the hooks an Engine consults. Any hook left nil gets
// its default.
type Config struct {
	// Metadata is consulted for ignored members, identity keys,
	// display labels and leaf types. It may be nil, in which case
	// only struct tags are consulted.
	Metadata *graph.Metadata
	// Mapper maps the roots to their generic view. The default is a
	// graph.ReflectMapper over Metadata and MemberFilter.
	Mapper graph.Mapper
	// MemberFilter, if not nil, must return true for a member to be
	// compared.
	MemberFilter func(*graph.Member) bool
	// InstanceDisplay labels a step of a breadcrumb. The default is
	// InstanceLabeler(Metadata, nil).
	InstanceDisplay func(from, to interface{}, fromMember, toMember *graph.Member) string
	// ValueDisplay labels the old or new value of a delta. The
	// default is ValueLabeler(Metadata, nil).
	ValueDisplay func(member *graph.Member, value interface{}) string
	// Equal decides whether two scalar values are the same. The
	// default is DefaultEqual.
	Equal func(v1, v2 interface{}) bool
	// CollectionItemKey computes the key on which elements of two
	// collections are matched. The default is
	// ItemKeyer(Metadata, Equal).
	CollectionItemKey func(item interface{}, index int, collection *graph.Member) Equatable
	// MaxDepth, if positive, is the breadcrumb depth below which
	// instances are not compared.
	MaxDepth int
	Logger   log.Logger
}

func (c Config) withDefaults() Config {
	if c.Mapper == nil {
		c.Mapper = graph.NewMapper(c.Metadata, c.MemberFilter)
	}
	if c.InstanceDisplay == nil {
		c.InstanceDisplay = InstanceLabeler(c.Metadata, nil)
	}
	if c.ValueDisplay == nil {
		c.ValueDisplay = ValueLabeler(c.Metadata, nil)
	}
	if c.Equal == nil {
		c.Equal = DefaultEqual
	}
	if c.CollectionItemKey == nil {
		c.CollectionItemKey = ItemKeyer(c.Metadata, c.Equal)
	}
	if c.Logger == nil {
		c.Logger = log.NewNopLogger()
	}
	return c
}

// Equatable is the key of a collection element. Elements whose keys
// are equal are taken to be the same element.
type Equatable interface {
	Equal(other Equatable) bool
}

// InstanceLabeler returns the default InstanceDisplay hook. A step is
// labelled, in order of preference, by the display label of its
// member, the display label of the instance's type, the result of
// callback (if not nil), the name of its member, and finally the
// instance itself. Member labels are only used when the member holds
// the instance itself rather than a collection of them. Records
// without a String method are described by their type name.
func InstanceLabeler(md *graph.Metadata, callback func(instance interface{}, member *graph.Member) string) func(from, to interface{}, fromMember, toMember *graph.Member) string {
	return func(from, to interface{}, fromMember, toMember *graph.Member) string {
		obj := graph.Unwrap(to)
		if obj == nil {
			obj = graph.Unwrap(from)
		}
		member := toMember
		if member == nil {
			member = fromMember
		}

		if obj == nil {
			if member == nil {
				return ""
			}
			if label, ok := md.MemberDisplay(member); ok {
				return label
			}
			return member.Name
		}

		single := member != nil && !holds(member.Type, reflect.TypeOf(obj))
		if single {
			if label, ok := md.MemberDisplay(member); ok {
				return label
			}
		}
		if label, ok := md.TypeDisplay(reflect.TypeOf(obj)); ok {
			return label
		}
		if callback != nil {
			return callback(obj, member)
		}
		if single {
			return member.Name
		}
		return describe(obj)
	}
}

// describe renders an instance with no label of its own. Records
// which can't render themselves are described by their type.
func describe(obj interface{}) string {
	if s, ok := obj.(fmt.Stringer); ok {
		return s.String()
	}
	t := reflect.TypeOf(obj)
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	switch t.Kind() {
	case reflect.Struct, reflect.Map:
		return t.String()
	}
	return fmt.Sprint(obj)
}

// holds reports whether a member of type collection can hold many
// values of type elem. A collection is never taken to be an element
// of itself.
func holds(collection, elem reflect.Type) bool {
	if collection == nil || elem == nil {
		return false
	}
	switch elem.Kind() {
	case reflect.Slice, reflect.Array:
		return false
	}
	switch collection.Kind() {
	case reflect.Slice, reflect.Array:
		return elem.AssignableTo(collection.Elem())
	}
	return false
}

// ValueLabeler returns the default ValueDisplay hook: the registered
// label of the value (see graph.TypeConfig.Values), else the result
// of callback if there is one.
func ValueLabeler(md *graph.Metadata, callback func(value interface{}, member *graph.Member) string) func(member *graph.Member, value interface{}) string {
	return func(member *graph.Member, value interface{}) string {
		value = graph.Unwrap(value)
		if value == nil {
			return ""
		}
		if label, ok := md.ValueDisplay(value); ok {
			return label
		}
		if callback != nil {
			return callback(value, member)
		}
		return ""
	}
}

// DefaultEqual compares values deeply. Times are equal if they are
// the same instant, whatever their location.
func DefaultEqual(v1, v2 interface{}) bool {
	if t1, ok := v1.(time.Time); ok {
		if t2, ok := v2.(time.Time); ok {
			return t1.Equal(t2)
		}
		return false
	}
	return reflect.DeepEqual(v1, v2)
}

// SemverEqual wraps an equality hook so that two strings which both
// parse as semantic versions are equal if they name the same version
// ("v1.2.0" and "1.2.0", say).
func SemverEqual(next func(v1, v2 interface{}) bool) func(v1, v2 interface{}) bool {
	if next == nil {
		next = DefaultEqual
	}
	return func(v1, v2 interface{}) bool {
		s1, ok1 := v1.(string)
		s2, ok2 := v2.(string)
		if ok1 && ok2 && s1 != s2 {
			ver1, err1 := semver.NewVersion(s1)
			ver2, err2 := semver.NewVersion(s2)
			if err1 == nil && err2 == nil {
				return ver1.Equal(ver2)
			}
		}
		return next(v1, v2)
	}
}

// ItemKeyer returns the default CollectionItemKey hook. Records are
// keyed by the members md declares as identity keys. Records without
// key members are keyed by shape: the same members, with the same
// scalar values. Anything else is keyed by its value. Absent elements
// have no key and match nothing.
func ItemKeyer(md *graph.Metadata, equal func(v1, v2 interface{}) bool) func(item interface{}, index int, collection *graph.Member) Equatable {
	if equal == nil {
		equal = DefaultEqual
	}
	return func(item interface{}, _ int, _ *graph.Member) Equatable {
		switch v := item.(type) {
		case nil:
			return nil
		case *graph.Object:
			if v == nil {
				return nil
			}
			return &objectKey{obj: v, keys: keyMembers(md, v), equal: equal}
		default:
			return &scalarKey{value: v, equal: equal}
		}
	}
}

type scalarKey struct {
	value interface{}
	equal func(v1, v2 interface{}) bool
}

func (k *scalarKey) Equal(other Equatable) bool {
	o, ok := other.(*scalarKey)
	return ok && k.equal(k.value, o.value)
}

type objectKey struct {
	obj   *graph.Object
	keys  []string
	equal func(v1, v2 interface{}) bool
}

func (k *objectKey) Equal(other Equatable) bool {
	o, ok := other.(*objectKey)
	if !ok {
		return false
	}
	if keys := union(k.keys, o.keys); len(keys) > 0 {
		for _, name := range keys {
			if !k.equal(k.obj.Get(name), o.obj.Get(name)) {
				return false
			}
		}
		return true
	}
	return k.sameShape(o.obj)
}

// sameShape reports whether the other record has the same members as
// this one, and the same values for those which are scalars.
func (k *objectKey) sameShape(other *graph.Object) bool {
	if k.obj.MemberCount() != other.MemberCount() {
		return false
	}
	for _, name := range k.obj.MemberNames() {
		v2, ok := other.TryGet(name)
		if !ok {
			return false
		}
		v1 := k.obj.Get(name)
		if graph.AsObject(v1) != nil || graph.IsCollection(v1) {
			continue
		}
		if !k.equal(v1, v2) {
			return false
		}
	}
	return true
}

func keyMembers(md *graph.Metadata, obj *graph.Object) []string {
	var keys []string
	for _, name := range obj.MemberNames() {
		if md.IsKey(obj.Member(name)) {
			keys = append(keys, name)
		}
	}
	sort.Strings(keys)
	return keys
}

func union(a, b []string) []string {
	if len(b) == 0 {
		return a
	}
	if len(a) == 0 {
		return b
	}
	seen := map[string]bool{}
	var out []string
	for _, s := range append(append([]string{}, a...), b...) {
		if !seen[s] {
			seen[s] = true
			out = append(out, s)
		}
	}
	sort.Strings(out)
	return out
}
