package format

import (
	"github.com/fluxcd/graphdiff/pkg/diff"
	"github.com/fluxcd/graphdiff/pkg/graph"
)

// BreadcrumbFormatter renders a breadcrumb for people: each step that
// followed a member is shown by the member's display label, or else
// by its name run through Transformers. Steps that followed no member
// (the root, and elements of collections) are shown by their own
// label.
type BreadcrumbFormatter struct {
	Metadata     *graph.Metadata
	Transformers []Transformer
}

func NewBreadcrumbFormatter(md *graph.Metadata) *BreadcrumbFormatter {
	return &BreadcrumbFormatter{
		Metadata:     md,
		Transformers: DefaultTransformers(),
	}
}

func (f *BreadcrumbFormatter) Format(bc *diff.Breadcrumb) string {
	if bc == nil {
		return ""
	}
	if member(bc) == nil {
		// Elements of scalar collections have no label; they are shown
		// by the collection.
		if label := bc.Label(); label != "" || bc.Parent() == nil {
			return label
		}
		return f.Format(bc.Parent())
	}
	path := f.Format(bc.Parent())
	label := f.MemberLabel(member(bc))
	switch {
	case label == "":
		return path
	case path == "":
		return label
	}
	return path + diff.Separator + label
}

// MemberLabel is the display label of m, else its transformed name.
func (f *BreadcrumbFormatter) MemberLabel(m *graph.Member) string {
	if label, ok := f.Metadata.MemberDisplay(m); ok {
		return label
	}
	return Apply(m.Name, f.Transformers...)
}

func member(bc *diff.Breadcrumb) *graph.Member {
	if m := bc.MemberTo(); m != nil {
		return m
	}
	return bc.MemberFrom()
}
