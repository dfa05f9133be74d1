package diff

import (
	"reflect"

	"github.com/fluxcd/graphdiff/pkg/graph"
)

// SimpleResult is a flattened view of a Result, suited to encoding.
// Each delta carries only the member nearest to where it was found,
// rather than the whole breadcrumb chain.
type SimpleResult struct {
	Type     reflect.Type   `json:"-" yaml:"-"`
	TypeName string         `json:"type,omitempty" yaml:"type,omitempty"`
	IsMatch  bool           `json:"isMatch" yaml:"isMatch"`
	Deltas   []*SimpleDelta `json:"deltas" yaml:"deltas"`
}

type SimpleDelta struct {
	ChangeType ChangeType        `json:"changeType" yaml:"changeType"`
	Breadcrumb *SimpleBreadcrumb `json:"breadcrumb" yaml:"breadcrumb"`
	OldValue   interface{}       `json:"oldValue,omitempty" yaml:"oldValue,omitempty"`
	NewValue   interface{}       `json:"newValue,omitempty" yaml:"newValue,omitempty"`
	OldDisplay string            `json:"oldDisplay,omitempty" yaml:"oldDisplay,omitempty"`
	NewDisplay string            `json:"newDisplay,omitempty" yaml:"newDisplay,omitempty"`

	delta *Delta
}

// Member is the member nearest to where the delta was found.
func (d *SimpleDelta) Member() *graph.Member {
	return d.Breadcrumb.Member
}

func (d *SimpleDelta) String() string {
	return d.delta.String()
}

type SimpleBreadcrumb struct {
	// Path is the full rendered path, own label included.
	Path       string        `json:"path" yaml:"path"`
	Label      string        `json:"label,omitempty" yaml:"label,omitempty"`
	MemberName string        `json:"member,omitempty" yaml:"member,omitempty"`
	Member     *graph.Member `json:"-" yaml:"-"`

	breadcrumb *Breadcrumb
}

func (b *SimpleBreadcrumb) Parent() *SimpleBreadcrumb {
	if b.breadcrumb.Parent() == nil {
		return nil
	}
	return newSimpleBreadcrumb(b.breadcrumb.Parent())
}

func (b *SimpleBreadcrumb) ItemFrom() *Item {
	return b.breadcrumb.ItemFrom()
}

func (b *SimpleBreadcrumb) ItemTo() *Item {
	return b.breadcrumb.ItemTo()
}

func (b *SimpleBreadcrumb) String() string {
	return b.breadcrumb.String()
}

func newSimpleBreadcrumb(bc *Breadcrumb) *SimpleBreadcrumb {
	sb := &SimpleBreadcrumb{
		Path:       bc.String(),
		Label:      bc.Label(),
		Member:     nearestMember(bc),
		breadcrumb: bc,
	}
	if sb.Member != nil {
		sb.MemberName = sb.Member.Name
	}
	return sb
}

// nearestMember walks up from bc to the first step that followed a
// member, preferring the "to" side.
func nearestMember(bc *Breadcrumb) *graph.Member {
	for ; bc != nil; bc = bc.Parent() {
		if bc.MemberTo() != nil {
			return bc.MemberTo()
		}
		if bc.MemberFrom() != nil {
			return bc.MemberFrom()
		}
	}
	return nil
}

// Simple projects the result onto its flattened view.
func (r *Result) Simple() *SimpleResult {
	sr := &SimpleResult{
		Type:    r.ToType(),
		IsMatch: r.IsMatch(),
		Deltas:  make([]*SimpleDelta, 0, len(r.Deltas)),
	}
	if sr.Type == nil {
		sr.Type = r.FromType()
	}
	if sr.Type != nil {
		sr.TypeName = sr.Type.String()
	}
	for _, d := range r.Deltas {
		sd := &SimpleDelta{
			ChangeType: d.ChangeType,
			Breadcrumb: newSimpleBreadcrumb(d.Breadcrumb),
			OldValue:   d.OldValue(),
			NewValue:   d.NewValue(),
			delta:      d,
		}
		if d.Old != nil {
			sd.OldDisplay = d.Old.Display
		}
		if d.New != nil {
			sd.NewDisplay = d.New.Display
		}
		sr.Deltas = append(sr.Deltas, sd)
	}
	return sr
}
