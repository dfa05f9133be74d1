package graph

import (
	"fmt"
	"reflect"
)

// Object is the generic view of a single instance: a type
// descriptor, an ordered set of named members and their values, and
// a reference back to the instance it was mapped from.
//
// Member values are one of
//  - nil
//  - *Object, for nested records
//  - []interface{}, for collections (elements are mapped in turn)
//  - anything else, which is treated as an atomic scalar.
type Object struct {
	typ      reflect.Type
	original interface{}
	names    []string
	values   map[string]interface{}
	members  map[string]*Member
}

// NewObject returns an empty Object standing for the given instance.
func NewObject(typ reflect.Type, original interface{}) *Object {
	return &Object{
		typ:      typ,
		original: original,
		values:   map[string]interface{}{},
		members:  map[string]*Member{},
	}
}

// Type is the type of the original instance; for pointers, the type
// pointed to.
func (o *Object) Type() reflect.Type {
	return o.typ
}

// Original returns the instance this object was mapped from.
func (o *Object) Original() interface{} {
	return o.original
}

// Set adds or replaces a member value. Members keep the order in
// which they were first set.
func (o *Object) Set(m *Member, value interface{}) {
	if _, ok := o.members[m.Name]; !ok {
		o.names = append(o.names, m.Name)
	}
	o.members[m.Name] = m
	o.values[m.Name] = value
}

func (o *Object) MemberNames() []string {
	names := make([]string, len(o.names))
	copy(names, o.names)
	return names
}

func (o *Object) MemberCount() int {
	return len(o.names)
}

func (o *Object) Has(name string) bool {
	_, ok := o.members[name]
	return ok
}

// Get returns the value of the named member, or nil if there is no
// such member.
func (o *Object) Get(name string) interface{} {
	return o.values[name]
}

func (o *Object) TryGet(name string) (interface{}, bool) {
	v, ok := o.values[name]
	return v, ok
}

// Member returns the descriptor of the named member, or nil.
func (o *Object) Member(name string) *Member {
	return o.members[name]
}

func (o *Object) String() string {
	if o.original != nil {
		return fmt.Sprint(o.original)
	}
	return fmt.Sprintf("%v%v", o.typ, o.values)
}

// Unwrap returns the original instance if v is an *Object, and v
// otherwise.
func Unwrap(v interface{}) interface{} {
	if obj, ok := v.(*Object); ok {
		if obj == nil {
			return nil
		}
		if obj.original != nil {
			return obj.original
		}
	}
	return v
}

// AsObject returns v as an *Object, or nil if it isn't one.
func AsObject(v interface{}) *Object {
	obj, _ := v.(*Object)
	return obj
}

// IsCollection reports whether v is a mapped collection.
func IsCollection(v interface{}) bool {
	_, ok := v.([]interface{})
	return ok
}

// AsCollection returns v as a collection; anything that isn't one
// (including nil) is an empty collection.
func AsCollection(v interface{}) []interface{} {
	if c, ok := v.([]interface{}); ok {
		return c
	}
	return nil
}
