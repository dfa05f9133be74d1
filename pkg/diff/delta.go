package diff

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"

	"github.com/fluxcd/graphdiff/pkg/graph"
)

// ChangeType classifies a delta by which side(s) hold a value.
type ChangeType int

const (
	Insert ChangeType = iota + 1
	Update
	Delete
)

func (c ChangeType) String() string {
	switch c {
	case Insert:
		return "insert"
	case Update:
		return "update"
	case Delete:
		return "delete"
	default:
		return fmt.Sprintf("ChangeType(%d)", int(c))
	}
}

func (c ChangeType) MarshalText() ([]byte, error) {
	switch c {
	case Insert, Update, Delete:
		return []byte(c.String()), nil
	}
	return nil, errors.Errorf("unknown change type %d", int(c))
}

// MarshalYAML writes the change type by name rather than number.
func (c ChangeType) MarshalYAML() (interface{}, error) {
	return c.String(), nil
}

func (c *ChangeType) UnmarshalText(text []byte) error {
	switch string(text) {
	case "insert":
		*c = Insert
	case "update":
		*c = Update
	case "delete":
		*c = Delete
	default:
		return errors.Errorf("unknown change type %q", string(text))
	}
	return nil
}

func changeTypeOf(from, to bool) ChangeType {
	switch {
	case !from:
		return Insert
	case !to:
		return Delete
	default:
		return Update
	}
}

// Value is one side of a delta: the raw value, and its display label
// if there is one.
type Value struct {
	Raw     interface{}
	Display string
}

func (v *Value) String() string {
	switch {
	case v == nil:
		return "[NULL]"
	case v.Display != "":
		return v.Display
	case v.Raw != nil:
		return fmt.Sprint(v.Raw)
	default:
		return "[NULL]"
	}
}

// Delta is a single difference. Old is nil for inserts, and New is
// nil for deletes.
type Delta struct {
	ChangeType ChangeType
	Breadcrumb *Breadcrumb
	Old        *Value
	New        *Value
}

func (d *Delta) MemberFrom() *graph.Member {
	return d.Breadcrumb.MemberFrom()
}

func (d *Delta) MemberTo() *graph.Member {
	return d.Breadcrumb.MemberTo()
}

// OldValue is the raw old value, or nil for an insert.
func (d *Delta) OldValue() interface{} {
	if d.Old == nil {
		return nil
	}
	return d.Old.Raw
}

// NewValue is the raw new value, or nil for a delete.
func (d *Delta) NewValue() interface{} {
	if d.New == nil {
		return nil
	}
	return d.New.Raw
}

func (d *Delta) String() string {
	return fmt.Sprintf("[%s] %s: %s -> %s",
		strings.ToUpper(d.ChangeType.String()), d.Breadcrumb, d.Old, d.New)
}
