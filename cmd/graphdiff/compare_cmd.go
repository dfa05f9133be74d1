package main

import (
	"context"
	"net/http"

	"github.com/fatih/color"
	"github.com/go-kit/kit/log"
	"github.com/go-kit/kit/log/level"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/fluxcd/graphdiff/pkg/config"
	"github.com/fluxcd/graphdiff/pkg/diff"
	"github.com/fluxcd/graphdiff/pkg/document"
	"github.com/fluxcd/graphdiff/pkg/format"
	transport "github.com/fluxcd/graphdiff/pkg/http"
	"github.com/fluxcd/graphdiff/pkg/http/client"
)

type compareOpts struct {
	*rootOpts
	output     string
	color      string
	exitCode   bool
	keys       []string
	ignore     []string
	semver     bool
	maxDepth   int
	selectPath string
	url        string
}

func newCompare(root *rootOpts) *compareOpts {
	return &compareOpts{rootOpts: root}
}

func (opts *compareOpts) Command() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "compare FROM TO",
		Short: "Show the differences between two YAML or JSON documents",
		Example: makeExample(
			"graphdiff compare old.yaml new.yaml",
			"graphdiff compare old.json new.json --keys id,name -o json",
			"graphdiff compare - new.yaml --select spec.template --ignore 'glob:*Timestamp'",
		),
		RunE: opts.RunE,
	}
	opts.addFlags(cmd.Flags())
	return cmd
}

func (opts *compareOpts) addFlags(fs *pflag.FlagSet) {
	fs.StringVarP(&opts.output, "output", "o", "", "(text|table|json|yaml) how to output the differences; default is from the config file, else text")
	fs.StringVar(&opts.color, "color", "auto", "(auto|always|never) whether to colour text and table output")
	fs.BoolVar(&opts.exitCode, "exit-code", false, "exit with status 1 if there are differences")
	fs.StringSliceVar(&opts.keys, "keys", nil, "names of members identifying the elements of lists")
	fs.StringSliceVar(&opts.ignore, "ignore", nil, "patterns (glob: or regexp:) of member names to leave out")
	fs.BoolVar(&opts.semver, "semver", false, "treat strings naming the same semantic version as equal")
	fs.IntVar(&opts.maxDepth, "max-depth", 0, "do not descend below this depth; 0 means no limit")
	fs.StringVar(&opts.selectPath, "select", "", "compare only the part of each document at this dot-separated path")
	fs.StringVarP(&opts.url, "url", "u", "", "base URL of a graphdiff server to compare with, rather than comparing locally")
}

func (opts *compareOpts) RunE(cmd *cobra.Command, args []string) error {
	if len(args) != 2 {
		return errorWantedTwoArgs
	}
	if args[0] == document.Stdin && args[1] == document.Stdin {
		return errorStdinTwice
	}

	c, err := opts.Config.Override(config.Config{
		Output:   opts.output,
		Keys:     opts.keys,
		Ignore:   opts.ignore,
		Semver:   opts.semver,
		MaxDepth: opts.maxDepth,
		Select:   opts.selectPath,
	})
	if err != nil {
		return err
	}
	if !validFormat(c.Output) {
		return errorInvalidOutputFormat
	}

	var outOpts format.Options
	switch opts.color {
	case "always":
		outOpts.Color = true
	case "never":
	case "auto":
		outOpts.Color = c.Color || !color.NoColor
	default:
		return newUsageError("--color must be 'auto', 'always' or 'never'")
	}

	from, err := document.Load(args[0], cmd.InOrStdin())
	if err != nil {
		return err
	}
	to, err := document.Load(args[1], cmd.InOrStdin())
	if err != nil {
		return err
	}

	if opts.url != "" {
		return opts.compareRemote(cmd, c, from, to, outOpts)
	}

	if from, err = document.Select(from, c.Select); err != nil {
		return err
	}
	if to, err = document.Select(to, c.Select); err != nil {
		return err
	}

	dc, err := c.DiffConfig(log.With(opts.Logger, "component", "engine"))
	if err != nil {
		return err
	}
	var comparer diff.Comparer = diff.New(dc)
	comparer = diff.LoggingMiddleware(level.Debug(opts.Logger))(comparer)

	res, err := comparer.Compare(from, to)
	if err != nil {
		return err
	}

	outOpts.Breadcrumbs = format.NewBreadcrumbFormatter(dc.Metadata)
	if err := format.Write(cmd.OutOrStdout(), c.Output, res, outOpts); err != nil {
		return err
	}
	if opts.exitCode && !res.IsMatch() {
		return errDifferences
	}
	return nil
}

// compareRemote has a graphdiff server do the comparison, passing
// on the config in effect.
func (opts *compareOpts) compareRemote(cmd *cobra.Command, c config.Config, from, to interface{}, outOpts format.Options) error {
	options := map[string]interface{}{
		"semver":   c.Semver,
		"maxDepth": c.MaxDepth,
		"select":   c.Select,
	}
	if len(c.Keys) > 0 {
		options["keys"] = c.Keys
	}
	if len(c.Ignore) > 0 {
		options["ignore"] = c.Ignore
	}
	if len(c.Display) > 0 {
		options["display"] = c.Display
	}

	api := client.New(http.DefaultClient, transport.NewAPIRouter(), opts.url)
	res, err := api.Compare(context.Background(), from, to, options)
	if err != nil {
		return err
	}
	if err := format.WriteSimple(cmd.OutOrStdout(), c.Output, res, outOpts); err != nil {
		return err
	}
	if opts.exitCode && !res.IsMatch {
		return errDifferences
	}
	return nil
}

func validFormat(f string) bool {
	for _, known := range format.Formats {
		if f == known {
			return true
		}
	}
	return false
}
