package graph

import (
	"net"
	"reflect"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type person struct {
	Name     string
	Age      int
	Friends  []*person
	Best     *person
	Tags     map[string]string
	Password string `diff:"-"`
	Joined   time.Time
	Addr     net.IP
	Raw      []byte
	OnChange func()
	private  string
}

func TestMapNil(t *testing.T) {
	m := NewMapper(nil, nil)
	assert.Nil(t, m.Map(nil))
	var p *person
	assert.Nil(t, m.Map(p))
	var tags map[string]string
	assert.Nil(t, m.Map(tags))
}

func TestMapStruct(t *testing.T) {
	joined := time.Date(2019, 1, 2, 3, 4, 5, 0, time.UTC)
	p := &person{
		Name:     "ann",
		Age:      33,
		Tags:     map[string]string{"b": "2", "a": "1"},
		Password: "secret",
		Joined:   joined,
		Addr:     net.ParseIP("10.0.0.1"),
		Raw:      []byte("raw"),
		private:  "hidden",
	}

	obj := NewMapper(nil, nil).Map(p)
	require.NotNil(t, obj)
	assert.Equal(t, reflect.TypeOf(person{}), obj.Type())
	assert.Equal(t, p, obj.Original())
	assert.Equal(t, []string{"Name", "Age", "Friends", "Best", "Tags", "Joined", "Addr", "Raw"}, obj.MemberNames())
	assert.Equal(t, 8, obj.MemberCount())
	assert.False(t, obj.Has("Password"))
	assert.False(t, obj.Has("private"))
	assert.False(t, obj.Has("OnChange"))

	assert.Equal(t, "ann", obj.Get("Name"))
	assert.Equal(t, 33, obj.Get("Age"))
	assert.Nil(t, obj.Get("Friends"))
	assert.Nil(t, obj.Get("Best"))
	assert.Equal(t, joined, obj.Get("Joined"))
	assert.Equal(t, net.ParseIP("10.0.0.1"), obj.Get("Addr"))
	assert.Equal(t, []byte("raw"), obj.Get("Raw"))

	tags := AsObject(obj.Get("Tags"))
	require.NotNil(t, tags)
	assert.Equal(t, []string{"a", "b"}, tags.MemberNames())
	assert.Equal(t, "1", tags.Get("a"))

	member := obj.Member("Name")
	require.NotNil(t, member)
	assert.True(t, member.IsField())
	assert.Equal(t, reflect.TypeOf(""), member.Type)
	assert.Equal(t, reflect.TypeOf(person{}), member.DeclaringType)
	live, ok := member.ValueOf(p)
	assert.True(t, ok)
	assert.Equal(t, "ann", live)

	entry := tags.Member("a")
	assert.False(t, entry.IsField())
	live, ok = entry.ValueOf(p.Tags)
	assert.True(t, ok)
	assert.Equal(t, "1", live)
	_, ok = entry.ValueOf(p)
	assert.False(t, ok)
}

func TestMapCycles(t *testing.T) {
	ann := &person{Name: "ann"}
	bob := &person{Name: "bob", Best: ann}
	ann.Best = bob
	ann.Friends = []*person{bob, ann}

	obj := NewMapper(nil, nil).Map(ann)
	best := AsObject(obj.Get("Best"))
	require.NotNil(t, best)
	assert.Equal(t, "bob", best.Get("Name"))
	assert.True(t, best.Get("Best") == obj, "same instance maps to the same object")

	friends := AsCollection(obj.Get("Friends"))
	require.Len(t, friends, 2)
	assert.True(t, friends[0] == best)
	assert.True(t, friends[1] == obj)

	// Each call maps afresh.
	assert.False(t, NewMapper(nil, nil).Map(ann) == obj)

	list := []interface{}{"a", nil}
	list[1] = list
	mapped := AsCollection(NewMapper(nil, nil).Map(map[string]interface{}{"list": list}).Get("list"))
	require.Len(t, mapped, 2)
	assert.Equal(t, "a", mapped[0])
	inner := AsCollection(mapped[1])
	require.Len(t, inner, 2)
	assert.True(t, &inner[0] == &mapped[0], "same slice maps to the same collection")
}

func TestMapCollections(t *testing.T) {
	m := NewMapper(nil, nil)

	obj := m.Map(map[string]interface{}{
		"list":  []interface{}{"a", 1, map[string]interface{}{"x": 1}, nil},
		"array": [2]int{1, 2},
	})
	list := AsCollection(obj.Get("list"))
	require.Len(t, list, 4)
	assert.Equal(t, "a", list[0])
	assert.Equal(t, 1, list[1])
	assert.NotNil(t, AsObject(list[2]))
	assert.Nil(t, list[3])
	assert.True(t, IsCollection(obj.Get("array")))
	assert.Equal(t, []interface{}{1, 2}, obj.Get("array"))

	assert.Nil(t, AsCollection("not a collection"))
}

func TestMapNonRecordRoot(t *testing.T) {
	obj := NewMapper(nil, nil).Map(42)
	require.NotNil(t, obj)
	assert.Equal(t, 0, obj.MemberCount())
	assert.Equal(t, 42, obj.Original())

	obj = NewMapper(nil, nil).Map([]string{"a"})
	require.NotNil(t, obj)
	assert.Equal(t, 0, obj.MemberCount())
}

func TestMapNonStringKeys(t *testing.T) {
	obj := NewMapper(nil, nil).Map(map[int]string{10: "ten", 2: "two"})
	assert.Equal(t, []string{"10", "2"}, obj.MemberNames())
	live, ok := obj.Member("2").ValueOf(map[int]string{2: "deux"})
	assert.True(t, ok)
	assert.Equal(t, "deux", live)
}

func TestMapWithMetadata(t *testing.T) {
	type money struct {
		Units int
		Cents int
	}
	type account struct {
		Owner   string
		Balance money
		Audit   *person
	}

	md := NewMetadata()
	md.Register(reflect.TypeOf(money{}), TypeConfig{Leaf: true})
	md.Register(reflect.TypeOf(&person{}), TypeConfig{Ignore: true})
	md.Register(reflect.TypeOf(account{}), TypeConfig{
		Members: map[string]MemberConfig{"Owner": {Ignore: true}},
	})

	obj := NewMapper(md, nil).Map(account{Owner: "ann", Balance: money{1, 50}, Audit: &person{Name: "x"}})
	assert.Equal(t, []string{"Balance", "Audit"}, obj.MemberNames())
	assert.Equal(t, money{1, 50}, obj.Get("Balance"))
	audit := AsObject(obj.Get("Audit"))
	require.NotNil(t, audit)
	assert.Equal(t, 0, audit.MemberCount())

	filtered := NewMapper(nil, func(m *Member) bool { return m.Name != "Audit" }).Map(account{})
	assert.Equal(t, []string{"Owner", "Balance"}, filtered.MemberNames())
}

func TestMapObjectPassesThrough(t *testing.T) {
	obj := NewObject(reflect.TypeOf(0), 1)
	assert.True(t, NewMapper(nil, nil).Map(obj) == obj)
	assert.True(t, MapperFunc(func(v interface{}) *Object { return obj }).Map(nil) == obj)
}

func TestUnwrap(t *testing.T) {
	p := &person{Name: "ann"}
	obj := NewMapper(nil, nil).Map(p)
	assert.Equal(t, p, Unwrap(obj))
	assert.Equal(t, "x", Unwrap("x"))
	assert.Nil(t, Unwrap(nil))
	var none *Object
	assert.Nil(t, Unwrap(none))
	assert.Nil(t, AsObject("x"))
}
