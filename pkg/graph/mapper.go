package graph

import (
	"fmt"
	"reflect"
	"sort"
	"sync"
)

// Mapper turns an arbitrary value into its generic view. Within one
// call to Map, the same referenced instance (pointer or map) must
// always map to the same *Object, so that cycles can be detected by
// identity.
type Mapper interface {
	Map(v interface{}) *Object
}

// MapperFunc adapts a function to the Mapper interface.
type MapperFunc func(v interface{}) *Object

func (f MapperFunc) Map(v interface{}) *Object {
	return f(v)
}

// ReflectMapper maps structs, maps, slices and arrays using
// reflection. Exported struct fields and map entries become members;
// slices and arrays become collections; leaf types (see
// Metadata.IsLeaf), byte slices and everything else become scalars.
// Funcs, channels and unsafe pointers are not mapped.
type ReflectMapper struct {
	metadata *Metadata
	filter   func(*Member) bool
	fields   sync.Map // reflect.Type -> []*Member
}

// NewMapper returns a mapper consulting md (which may be nil) for
// ignored members and leaf types. If filter is not nil, only members
// for which it returns true are mapped.
func NewMapper(md *Metadata, filter func(*Member) bool) *ReflectMapper {
	return &ReflectMapper{
		metadata: md,
		filter:   filter,
	}
}

// Map returns the generic view of v, or nil if v is nil or a nil
// pointer or map. An *Object is returned as it is. Values which
// aren't records map to an Object without members.
func (m *ReflectMapper) Map(v interface{}) *Object {
	if v == nil {
		return nil
	}
	if obj, ok := v.(*Object); ok {
		return obj
	}
	p := &pass{mapper: m, seen: map[identity]*Object{}, lists: map[identity][]interface{}{}}
	rv := reflect.ValueOf(v)
	switch out := p.value(rv).(type) {
	case nil:
		return nil
	case *Object:
		return out
	default:
		return NewObject(rv.Type(), v)
	}
}

func (m *ReflectMapper) comparable(member *Member) bool {
	if m.metadata.IsIgnored(member) {
		return false
	}
	return m.filter == nil || m.filter(member)
}

// members returns the mapped fields of a struct type.
func (m *ReflectMapper) members(t reflect.Type) []*Member {
	if cached, ok := m.fields.Load(t); ok {
		return cached.([]*Member)
	}
	var members []*Member
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if f.PkgPath != "" { // unexported
			continue
		}
		switch f.Type.Kind() {
		case reflect.Func, reflect.Chan, reflect.UnsafePointer:
			continue
		}
		member := fieldMember(t, f)
		if m.comparable(member) {
			members = append(members, member)
		}
	}
	cached, _ := m.fields.LoadOrStore(t, members)
	return cached.([]*Member)
}

type identity struct {
	typ reflect.Type
	ptr uintptr
	len int
}

// pass holds the state of mapping a single root.
type pass struct {
	mapper *ReflectMapper
	seen   map[identity]*Object
	lists  map[identity][]interface{}
}

func (p *pass) value(rv reflect.Value) interface{} {
	if !rv.IsValid() {
		return nil
	}
	md := p.mapper.metadata
	switch rv.Kind() {
	case reflect.Interface:
		if rv.IsNil() {
			return nil
		}
		return p.value(rv.Elem())
	case reflect.Ptr:
		if rv.IsNil() {
			return nil
		}
		if md.IsLeaf(rv.Type()) {
			return interfaceOf(rv)
		}
		if rv.Elem().Kind() == reflect.Struct {
			return p.record(rv, rv.Elem())
		}
		return p.value(rv.Elem())
	case reflect.Struct:
		if md.IsLeaf(rv.Type()) {
			return interfaceOf(rv)
		}
		return p.record(reflect.Value{}, rv)
	case reflect.Map:
		if rv.IsNil() {
			return nil
		}
		if md.IsLeaf(rv.Type()) {
			return interfaceOf(rv)
		}
		return p.entries(rv)
	case reflect.Slice:
		if rv.IsNil() {
			return nil
		}
		return p.collection(rv)
	case reflect.Array:
		return p.collection(rv)
	case reflect.Func, reflect.Chan, reflect.UnsafePointer:
		return nil
	default:
		return interfaceOf(rv)
	}
}

func (p *pass) collection(rv reflect.Value) interface{} {
	if rv.Type().Elem().Kind() == reflect.Uint8 || p.mapper.metadata.IsLeaf(rv.Type()) {
		return interfaceOf(rv)
	}
	out := make([]interface{}, rv.Len())
	// A slice may hold itself, directly or further down.
	if rv.Kind() == reflect.Slice && rv.Len() > 0 {
		id := identity{typ: rv.Type(), ptr: rv.Pointer(), len: rv.Len()}
		if seen, ok := p.lists[id]; ok {
			return seen
		}
		p.lists[id] = out
	}
	for i := range out {
		out[i] = p.value(rv.Index(i))
	}
	return out
}

// record maps a struct. If it was reached through a pointer, the
// pointer identifies it.
func (p *pass) record(ptr, sv reflect.Value) *Object {
	var obj *Object
	if ptr.IsValid() {
		id := identity{typ: ptr.Type(), ptr: ptr.Pointer()}
		if seen, ok := p.seen[id]; ok {
			return seen
		}
		obj = NewObject(sv.Type(), interfaceOf(ptr))
		p.seen[id] = obj
	} else {
		obj = NewObject(sv.Type(), interfaceOf(sv))
	}
	if p.mapper.metadata.IsTypeIgnored(sv.Type()) {
		return obj
	}
	for _, member := range p.mapper.members(sv.Type()) {
		obj.Set(member, p.value(sv.FieldByIndex(member.Index)))
	}
	return obj
}

// entries maps a map, one member per entry, in key order.
func (p *pass) entries(rv reflect.Value) *Object {
	id := identity{typ: rv.Type(), ptr: rv.Pointer()}
	if seen, ok := p.seen[id]; ok {
		return seen
	}
	obj := NewObject(rv.Type(), interfaceOf(rv))
	p.seen[id] = obj
	if p.mapper.metadata.IsTypeIgnored(rv.Type()) {
		return obj
	}

	keys := rv.MapKeys()
	names := make([]string, len(keys))
	for i, k := range keys {
		names[i] = keyName(k)
	}
	sort.Sort(byName{keys, names})

	for i, k := range keys {
		val := rv.MapIndex(k)
		member := entryMember(rv.Type(), names[i], k, val)
		if !p.mapper.comparable(member) {
			continue
		}
		obj.Set(member, p.value(val))
	}
	return obj
}

func keyName(k reflect.Value) string {
	if k.Kind() == reflect.String {
		return k.String()
	}
	return fmt.Sprint(interfaceOf(k))
}

type byName struct {
	keys  []reflect.Value
	names []string
}

func (b byName) Len() int           { return len(b.keys) }
func (b byName) Less(i, j int) bool { return b.names[i] < b.names[j] }
func (b byName) Swap(i, j int) {
	b.keys[i], b.keys[j] = b.keys[j], b.keys[i]
	b.names[i], b.names[j] = b.names[j], b.names[i]
}

func interfaceOf(rv reflect.Value) interface{} {
	if !rv.IsValid() || !rv.CanInterface() {
		return nil
	}
	return rv.Interface()
}
