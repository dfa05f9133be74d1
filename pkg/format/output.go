package format

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/pkg/errors"
	yaml "gopkg.in/yaml.v2"

	"github.com/fluxcd/graphdiff/pkg/diff"
)

// Output formats understood by Write.
const (
	Text  = "text"
	Table = "table"
	JSON  = "json"
	YAML  = "yaml"
)

var Formats = []string{Text, Table, JSON, YAML}

var ErrUnknownFormat = errors.New("unknown output format")

type Options struct {
	// Breadcrumbs renders the paths of deltas in text and table
	// output. If nil, breadcrumbs render themselves.
	Breadcrumbs *BreadcrumbFormatter
	Color       bool
}

func (o Options) path(bc *diff.Breadcrumb) string {
	if o.Breadcrumbs == nil {
		return bc.String()
	}
	return o.Breadcrumbs.Format(bc)
}

// Write writes the result to out in the given format. JSON and YAML
// are encodings of the result's simple view.
func Write(out io.Writer, format string, res *diff.Result, opts Options) error {
	switch format {
	case Text, "":
		return writeText(out, res, opts)
	case Table:
		return writeTable(out, res, opts)
	case JSON:
		return writeJSON(out, res.Simple())
	case YAML:
		return writeYAML(out, res.Simple())
	}
	return errors.Wrapf(ErrUnknownFormat, "%q", format)
}

// WriteSimple writes a result of which only the simple view is at
// hand, e.g., one returned by the API. Paths are as the simple view
// has them, and changes to multi-line text are shown whole.
func WriteSimple(out io.Writer, format string, res *diff.SimpleResult, opts Options) error {
	switch format {
	case Text, "":
		return writeSimpleText(out, res, opts)
	case Table:
		return writeSimpleTable(out, res, opts)
	case JSON:
		return writeJSON(out, res)
	case YAML:
		return writeYAML(out, res)
	}
	return errors.Wrapf(ErrUnknownFormat, "%q", format)
}

type palette struct {
	path, added, removed, chunk func(a ...interface{}) string
}

func newPalette(enabled bool) palette {
	sprint := func(attrs ...color.Attribute) func(a ...interface{}) string {
		c := color.New(attrs...)
		if enabled {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
		return c.SprintFunc()
	}
	return palette{
		path:    sprint(color.Bold),
		added:   sprint(color.FgGreen),
		removed: sprint(color.FgRed),
		chunk:   sprint(color.FgCyan),
	}
}

func writeText(out io.Writer, res *diff.Result, opts Options) error {
	p := newPalette(opts.Color)
	for _, d := range res.Deltas {
		var buf bytes.Buffer
		d.SummariseAt(&buf, opts.path(d.Breadcrumb))
		lines := strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n")
		for i, line := range lines {
			switch {
			case i == 0:
				line = p.path(line)
			case strings.HasPrefix(line, "+ "):
				line = p.added(line)
			case strings.HasPrefix(line, "- "):
				line = p.removed(line)
			case strings.HasPrefix(line, "@@ "):
				line = p.chunk(line)
			}
			if _, err := fmt.Fprintln(out, line); err != nil {
				return err
			}
		}
	}
	return nil
}

func writeTable(out io.Writer, res *diff.Result, opts Options) error {
	p := newPalette(opts.Color)
	table := tablewriter.NewWriter(out)
	table.SetHeader([]string{"Change", "Path", "Old", "New"})
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetAutoWrapText(false)
	for _, d := range res.Deltas {
		change := strings.ToUpper(d.ChangeType.String())
		switch d.ChangeType {
		case diff.Insert:
			change = p.added(change)
		case diff.Delete:
			change = p.removed(change)
		}
		table.Append([]string{change, opts.path(d.Breadcrumb), cell(d.Old), cell(d.New)})
	}
	table.Render()
	return nil
}

func writeSimpleText(out io.Writer, res *diff.SimpleResult, opts Options) error {
	p := newPalette(opts.Color)
	for _, d := range res.Deltas {
		lines := []string{p.path(d.Breadcrumb.Path + ":")}
		if d.ChangeType != diff.Insert {
			lines = append(lines, p.removed("- "+simpleValue(d.OldValue, d.OldDisplay)))
		}
		if d.ChangeType != diff.Delete {
			lines = append(lines, p.added("+ "+simpleValue(d.NewValue, d.NewDisplay)))
		}
		if _, err := fmt.Fprintln(out, strings.Join(lines, "\n")); err != nil {
			return err
		}
	}
	return nil
}

func writeSimpleTable(out io.Writer, res *diff.SimpleResult, opts Options) error {
	p := newPalette(opts.Color)
	table := tablewriter.NewWriter(out)
	table.SetHeader([]string{"Change", "Path", "Old", "New"})
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetAutoWrapText(false)
	for _, d := range res.Deltas {
		change := strings.ToUpper(d.ChangeType.String())
		var oldValue, newValue string
		switch d.ChangeType {
		case diff.Insert:
			change = p.added(change)
			newValue = simpleValue(d.NewValue, d.NewDisplay)
		case diff.Delete:
			change = p.removed(change)
			oldValue = simpleValue(d.OldValue, d.OldDisplay)
		default:
			oldValue, newValue = simpleValue(d.OldValue, d.OldDisplay), simpleValue(d.NewValue, d.NewDisplay)
		}
		table.Append([]string{change, d.Breadcrumb.Path, oldValue, newValue})
	}
	table.Render()
	return nil
}

func simpleValue(raw interface{}, display string) string {
	return (&diff.Value{Raw: raw, Display: display}).String()
}

func cell(v *diff.Value) string {
	if v == nil {
		return ""
	}
	return v.String()
}

func writeJSON(out io.Writer, res *diff.SimpleResult) error {
	bytes, err := json.MarshalIndent(res, "", "  ")
	if err != nil {
		return errors.Wrap(err, "encoding result as JSON")
	}
	_, err = fmt.Fprintln(out, string(bytes))
	return err
}

func writeYAML(out io.Writer, res *diff.SimpleResult) error {
	bytes, err := yaml.Marshal(res)
	if err != nil {
		return errors.Wrap(err, "encoding result as YAML")
	}
	_, err = out.Write(bytes)
	return err
}
