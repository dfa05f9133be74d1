package diff

import (
	"github.com/fluxcd/graphdiff/pkg/graph"
)

// pair is one row of the join of two collections. Either side may be
// nil.
type pair struct {
	from, to interface{}
}

// join matches the elements of two collections on their keys. Each
// element of list1 is paired with every element of list2 with an
// equal key, in list2 order, or with nil if there are none; elements
// of list2 left unpaired follow, each paired with nil. Elements are
// told apart by position, so duplicates each get their own row.
func (c *comparison) join(bc *Breadcrumb, list1, list2 []interface{}) []pair {
	keys1 := make([]Equatable, len(list1))
	for i, item := range list1 {
		keys1[i] = c.CollectionItemKey(item, i, bc.MemberFrom())
	}
	keys2 := make([]Equatable, len(list2))
	for i, item := range list2 {
		keys2[i] = c.CollectionItemKey(item, i, bc.MemberTo())
	}

	var pairs []pair
	matched := make([]bool, len(list2))
	for i, item1 := range list1 {
		found := false
		for j, item2 := range list2 {
			if keysEqual(keys1[i], keys2[j]) {
				pairs = append(pairs, pair{from: item1, to: item2})
				matched[j] = true
				found = true
			}
		}
		if !found {
			pairs = append(pairs, pair{from: item1})
		}
	}
	for j, item2 := range list2 {
		if !matched[j] {
			pairs = append(pairs, pair{to: item2})
		}
	}
	return pairs
}

func keysEqual(k1, k2 Equatable) bool {
	return k1 != nil && k2 != nil && k1.Equal(k2)
}

// compareCollections matches up the elements of the two collections
// and compares each resulting pair. Records are compared member by
// member; anything else is compared as a value.
func (c *comparison) compareCollections(bc *Breadcrumb, list1, list2 []interface{}) error {
	for _, p := range c.join(bc, list1, list2) {
		obj1, obj2 := graph.AsObject(p.from), graph.AsObject(p.to)
		if obj1 == nil && obj2 == nil {
			if p.from == nil && p.to == nil {
				continue
			}
			next := bc
			if bc.MemberFrom() != nil || bc.MemberTo() != nil {
				next = bc.addInstanceLevel(
					liveValue(bc.ItemFrom(), bc.MemberFrom()),
					liveValue(bc.ItemTo(), bc.MemberTo()),
					nil, nil, nil)
			}
			c.compareValues(next, changeTypeOf(p.from != nil, p.to != nil), p.from, p.to)
			continue
		}

		from, to := p.from, p.to
		next := bc.addLevel(obj1, obj2, func() string {
			return c.InstanceDisplay(from, to, bc.MemberFrom(), bc.MemberTo())
		}, nil, nil)
		if err := c.compareInstances(next, obj1, obj2); err != nil {
			return err
		}
	}
	return nil
}
