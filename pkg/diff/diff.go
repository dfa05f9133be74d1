package diff

import (
	"reflect"

	"github.com/go-kit/kit/log/level"
	"github.com/pkg/errors"

	"github.com/fluxcd/graphdiff/pkg/graph"
)

// Comparer compares two object graphs.
type Comparer interface {
	Compare(from, to interface{}) (*Result, error)
}

// Engine is the default Comparer. It holds no state between
// comparisons, so may be shared as long as its hooks may.
type Engine struct {
	config Config
}

func New(config Config) *Engine {
	return &Engine{config: config.withDefaults()}
}

// Compare maps both roots and compares them. Either may be nil, but
// not both.
func (e *Engine) Compare(from, to interface{}) (*Result, error) {
	if from == nil && to == nil {
		return nil, errors.Wrap(ErrInvalidComparison, "comparing roots")
	}
	item1 := e.config.Mapper.Map(from)
	item2 := e.config.Mapper.Map(to)
	if item1 == nil && item2 == nil {
		return nil, errors.Wrap(ErrInvalidComparison, "comparing mapped roots")
	}

	c := &comparison{
		Config:  e.config,
		visited: map[*graph.Object]struct{}{},
	}
	root := rootBreadcrumb(item1, item2, func() string {
		return c.InstanceDisplay(objectValue(item1), objectValue(item2), nil, nil)
	})
	if err := c.compareInstances(root, item1, item2); err != nil {
		return nil, err
	}
	return &Result{From: item1, To: item2, Deltas: c.deltas}, nil
}

// comparison is the state of a single call to Compare.
type comparison struct {
	Config
	deltas  []*Delta
	visited map[*graph.Object]struct{}
}

func (c *comparison) compareInstances(bc *Breadcrumb, item1, item2 *graph.Object) error {
	if item1 == nil && item2 == nil {
		return errors.Wrapf(ErrInvalidComparison, "comparing instances at %q", bc.String())
	}

	seen := item1
	if seen == nil {
		seen = item2
	}
	if _, ok := c.visited[seen]; ok {
		level.Debug(c.Logger).Log("msg", "instance already compared", "path", bc)
		return nil
	}
	c.visited[seen] = struct{}{}

	if c.MaxDepth > 0 && bc.Depth() >= c.MaxDepth {
		level.Debug(c.Logger).Log("msg", "maximum depth reached", "path", bc, "depth", c.MaxDepth)
		return nil
	}

	changeType := changeTypeOf(item1 != nil, item2 != nil)

	for _, name := range c.membersMissingIn(item2, item1) {
		if err := c.compareMembers(bc, item1, item2, Insert, nil, item2.Member(name), nil, item2.Get(name)); err != nil {
			return err
		}
	}
	for _, name := range c.membersMissingIn(item1, item2) {
		if err := c.compareMembers(bc, item1, item2, Delete, item1.Member(name), nil, item1.Get(name), nil); err != nil {
			return err
		}
	}
	if item1 == nil || item2 == nil {
		return nil
	}
	for _, name := range item1.MemberNames() {
		if !item2.Has(name) {
			continue
		}
		m1, m2 := item1.Member(name), item2.Member(name)
		if !c.comparable(m1) || !c.comparable(m2) {
			continue
		}
		if err := c.compareMembers(bc, item1, item2, changeType, m1, m2, item1.Get(name), item2.Get(name)); err != nil {
			return err
		}
	}
	return nil
}

// membersMissingIn returns the names of the comparable members of
// obj which other doesn't have.
func (c *comparison) membersMissingIn(obj, other *graph.Object) []string {
	if obj == nil {
		return nil
	}
	var names []string
	for _, name := range obj.MemberNames() {
		if other != nil && other.Has(name) {
			continue
		}
		if c.comparable(obj.Member(name)) {
			names = append(names, name)
		}
	}
	return names
}

func (c *comparison) comparable(m *graph.Member) bool {
	if m == nil || c.Metadata.IsIgnored(m) {
		return false
	}
	return c.MemberFilter == nil || c.MemberFilter(m)
}

// compareMembers compares the values of one member pair of item1 and
// item2. Either member may be nil, if the other object doesn't have
// it.
func (c *comparison) compareMembers(bc *Breadcrumb, item1, item2 *graph.Object, changeType ChangeType, m1, m2 *graph.Member, v1, v2 interface{}) error {
	next := bc.addLevel(item1, item2, func() string {
		return c.InstanceDisplay(displayValue(item1, m1, v1), displayValue(item2, m2, v2), m1, m2)
	}, m1, m2)

	switch {
	case graph.IsCollection(v1) || graph.IsCollection(v2):
		return c.compareCollections(next, graph.AsCollection(v1), graph.AsCollection(v2))

	case v1 != nil && v2 != nil && reflect.TypeOf(v1) != reflect.TypeOf(v2):
		// A value can't be updated to one of another type; the old one
		// goes and the new one arrives.
		if err := c.compareMembers(bc, item1, item2, Insert, nil, m2, nil, v2); err != nil {
			return err
		}
		return c.compareMembers(bc, item1, item2, Delete, m1, nil, v1, nil)

	case graph.AsObject(v1) != nil || graph.AsObject(v2) != nil:
		return c.compareInstances(next, graph.AsObject(v1), graph.AsObject(v2))

	default:
		c.compareValues(next, changeType, v1, v2)
		return nil
	}
}

// compareValues records a delta if the two scalars differ.
func (c *comparison) compareValues(bc *Breadcrumb, changeType ChangeType, v1, v2 interface{}) {
	if c.Equal(v1, v2) {
		return
	}
	c.deltas = append(c.deltas, c.createDelta(bc, changeType, v1, v2))
}

func (c *comparison) createDelta(bc *Breadcrumb, changeType ChangeType, v1, v2 interface{}) *Delta {
	d := &Delta{ChangeType: changeType, Breadcrumb: bc}
	if changeType != Insert {
		d.Old = &Value{Raw: v1, Display: c.ValueDisplay(bc.MemberFrom(), v1)}
	}
	if changeType != Delete {
		d.New = &Value{Raw: v2, Display: c.ValueDisplay(bc.MemberTo(), v2)}
	}
	return d
}

// displayValue is the value shown to the display hook: collections
// are shown as they are in the original instance, rather than their
// generic view.
func displayValue(obj *graph.Object, m *graph.Member, v interface{}) interface{} {
	if graph.IsCollection(v) && obj != nil && m != nil {
		if live, ok := m.ValueOf(obj.Original()); ok {
			return live
		}
	}
	return v
}

// objectValue keeps a nil *graph.Object from becoming a non-nil
// interface value.
func objectValue(obj *graph.Object) interface{} {
	if obj == nil {
		return nil
	}
	return obj
}
