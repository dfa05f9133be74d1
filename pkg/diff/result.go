package diff

import (
	"reflect"

	"github.com/fluxcd/graphdiff/pkg/graph"
)

// Result is the outcome of one comparison: the two mapped roots, at
// least one of which is present, and the deltas in the order they
// were found.
type Result struct {
	From   *graph.Object
	To     *graph.Object
	Deltas []*Delta
}

// IsMatch reports whether no differences were found.
func (r *Result) IsMatch() bool {
	return len(r.Deltas) == 0
}

func (r *Result) FromType() reflect.Type {
	return typeOf(r.From)
}

func (r *Result) ToType() reflect.Type {
	return typeOf(r.To)
}

// Count returns the number of deltas of each change type.
func (r *Result) Count() map[ChangeType]int {
	counts := map[ChangeType]int{}
	for _, d := range r.Deltas {
		counts[d.ChangeType]++
	}
	return counts
}

func typeOf(obj *graph.Object) reflect.Type {
	if obj == nil {
		return nil
	}
	return obj.Type()
}
