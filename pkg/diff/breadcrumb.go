package diff

import (
	"reflect"
	"sync"

	"github.com/fluxcd/graphdiff/pkg/graph"
)

// Separator goes between the labels of a rendered path.
const Separator = " > "

// Item is one side of a breadcrumb: the generic object reached, if
// any, and the instance behind it.
type Item struct {
	Object   *graph.Object
	Instance interface{}
}

func (i *Item) InstanceType() reflect.Type {
	if i == nil || i.Instance == nil {
		return nil
	}
	return reflect.TypeOf(i.Instance)
}

// Breadcrumb records how the comparison got to a point in both
// graphs. It is immutable, and shared by every delta found at or
// below that point.
type Breadcrumb struct {
	parent     *Breadcrumb
	memberFrom *graph.Member
	memberTo   *graph.Member
	itemFrom   *Item
	itemTo     *Item
	label      lazyLabel
}

// lazyLabel computes a label at most once, on first use.
type lazyLabel struct {
	once  sync.Once
	fn    func() string
	value string
}

func (l *lazyLabel) get() string {
	l.once.Do(func() {
		if l.fn != nil {
			l.value = l.fn()
			l.fn = nil
		}
	})
	return l.value
}

func newBreadcrumb(parent *Breadcrumb, memberFrom, memberTo *graph.Member, from, to *Item, label func() string) *Breadcrumb {
	return &Breadcrumb{
		parent:     parent,
		memberFrom: memberFrom,
		memberTo:   memberTo,
		itemFrom:   from,
		itemTo:     to,
		label:      lazyLabel{fn: label},
	}
}

func objectItem(obj *graph.Object) *Item {
	if obj == nil {
		return nil
	}
	return &Item{Object: obj, Instance: obj.Original()}
}

func instanceItem(instance interface{}) *Item {
	if instance == nil {
		return nil
	}
	return &Item{Instance: instance}
}

func rootBreadcrumb(from, to *graph.Object, label func() string) *Breadcrumb {
	return newBreadcrumb(nil, nil, nil, objectItem(from), objectItem(to), label)
}

// addLevel extends the path by one step, taken from the given
// objects through the given members.
func (b *Breadcrumb) addLevel(from, to *graph.Object, label func() string, memberFrom, memberTo *graph.Member) *Breadcrumb {
	return newBreadcrumb(b, memberFrom, memberTo, objectItem(from), objectItem(to), label)
}

// addInstanceLevel extends the path by one step for plain instances,
// which have no generic view.
func (b *Breadcrumb) addInstanceLevel(from, to interface{}, label func() string, memberFrom, memberTo *graph.Member) *Breadcrumb {
	return newBreadcrumb(b, memberFrom, memberTo, instanceItem(from), instanceItem(to), label)
}

// Parent is nil at the root.
func (b *Breadcrumb) Parent() *Breadcrumb {
	return b.parent
}

// MemberFrom is the member followed on the "from" side; nil if the
// step doesn't exist on that side.
func (b *Breadcrumb) MemberFrom() *graph.Member {
	return b.memberFrom
}

func (b *Breadcrumb) MemberTo() *graph.Member {
	return b.memberTo
}

func (b *Breadcrumb) ItemFrom() *Item {
	return b.itemFrom
}

func (b *Breadcrumb) ItemTo() *Item {
	return b.itemTo
}

// Label is the display label of this step alone.
func (b *Breadcrumb) Label() string {
	return b.label.get()
}

// Path is the rendered path leading to this step.
func (b *Breadcrumb) Path() string {
	if b.parent == nil {
		return ""
	}
	return b.parent.String()
}

// Depth is the number of steps from the root.
func (b *Breadcrumb) Depth() int {
	depth := 0
	for p := b.parent; p != nil; p = p.parent {
		depth++
	}
	return depth
}

func (b *Breadcrumb) String() string {
	label := b.Label()
	if b.parent == nil {
		return label
	}
	path := b.Path()
	if path == "" || label == "" {
		return path + label
	}
	return path + Separator + label
}

// liveValue reads the member's current value from the item's
// instance, or returns nil if either is missing.
func liveValue(item *Item, member *graph.Member) interface{} {
	if item == nil || item.Instance == nil || member == nil {
		return nil
	}
	v, _ := member.ValueOf(item.Instance)
	return v
}
