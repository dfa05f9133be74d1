package diff

import (
	"fmt"
	"io"
	"strings"
)

// Summarise writes every delta of the result to out, one block per
// delta.
func (r *Result) Summarise(out io.Writer) {
	for _, d := range r.Deltas {
		d.Summarise(out)
	}
}

// Summarise writes the delta's location, then the old value prefixed
// with "-" and the new value prefixed with "+". Changes to multi-line
// text are shown line by line.
func (d *Delta) Summarise(out io.Writer) {
	d.SummariseAt(out, d.Breadcrumb.String())
}

// SummariseAt is Summarise with the location rendered by the caller.
func (d *Delta) SummariseAt(out io.Writer, path string) {
	fmt.Fprintf(out, "%s:\n", path)
	if d.ChangeType == Update {
		if oldText, newText, ok := multiline(d.OldValue(), d.NewValue()); ok {
			for _, c := range DiffLines(oldText, newText) {
				fmt.Fprintf(out, "@@ line %d\n", c.Line+1)
				for _, line := range c.Deleted {
					fmt.Fprintf(out, "- %s\n", line)
				}
				for _, line := range c.Added {
					fmt.Fprintf(out, "+ %s\n", line)
				}
			}
			return
		}
	}
	if d.Old != nil {
		fmt.Fprintf(out, "- %s\n", d.Old)
	}
	if d.New != nil {
		fmt.Fprintf(out, "+ %s\n", d.New)
	}
}

func multiline(v1, v2 interface{}) ([]string, []string, bool) {
	s1, ok1 := v1.(string)
	s2, ok2 := v2.(string)
	if !ok1 || !ok2 || !(strings.Contains(s1, "\n") || strings.Contains(s2, "\n")) {
		return nil, nil, false
	}
	return strings.Split(s1, "\n"), strings.Split(s2, "\n"), true
}
