package graph

import (
	"reflect"
)

// Member describes how a value is reached from its enclosing
// instance: a struct field, or an entry in a map.
type Member struct {
	Name string
	// Type is the declared type of the member. Map entries don't have
	// a declared type of their own, so it is the type of the value
	// found, or the map's element type if that value is nil.
	Type reflect.Type
	// DeclaringType is the struct or map type the member belongs to.
	DeclaringType reflect.Type
	// Index is the struct field index; nil for map entries.
	Index []int
	// Tag is the struct tag of the field, if any.
	Tag reflect.StructTag

	key reflect.Value
}

func fieldMember(declaring reflect.Type, f reflect.StructField) *Member {
	return &Member{
		Name:          f.Name,
		Type:          f.Type,
		DeclaringType: declaring,
		Index:         f.Index,
		Tag:           f.Tag,
	}
}

func entryMember(declaring reflect.Type, name string, key, value reflect.Value) *Member {
	typ := declaring.Elem()
	if value.IsValid() && (value.Kind() != reflect.Interface || !value.IsNil()) {
		if value.Kind() == reflect.Interface {
			value = value.Elem()
		}
		typ = value.Type()
	}
	return &Member{
		Name:          name,
		Type:          typ,
		DeclaringType: declaring,
		key:           key,
	}
}

// IsField reports whether the member is a struct field.
func (m *Member) IsField() bool {
	return m.Index != nil
}

// ValueOf reads the member's current value from an instance of the
// declaring type (or a pointer to one). The second result is false
// if the instance doesn't have the member.
func (m *Member) ValueOf(instance interface{}) (interface{}, bool) {
	rv := indirect(reflect.ValueOf(instance))
	if !rv.IsValid() || rv.Type() != m.DeclaringType {
		return nil, false
	}
	switch rv.Kind() {
	case reflect.Struct:
		if m.Index == nil {
			return nil, false
		}
		f := rv.FieldByIndex(m.Index)
		if !f.CanInterface() {
			return nil, false
		}
		return f.Interface(), true
	case reflect.Map:
		if !m.key.IsValid() {
			return nil, false
		}
		v := rv.MapIndex(m.key)
		if !v.IsValid() {
			return nil, false
		}
		return v.Interface(), true
	}
	return nil, false
}

func (m *Member) String() string {
	if m == nil {
		return ""
	}
	return m.Name
}

func indirect(rv reflect.Value) reflect.Value {
	for rv.IsValid() && (rv.Kind() == reflect.Ptr || rv.Kind() == reflect.Interface) {
		if rv.IsNil() {
			return reflect.Value{}
		}
		rv = rv.Elem()
	}
	return rv
}
