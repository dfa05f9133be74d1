package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/go-kit/kit/log"
	"github.com/go-kit/kit/log/level"
	"github.com/spf13/cobra"

	"github.com/fluxcd/graphdiff/pkg/config"
)

const (
	EnvVariableConfig = "GRAPHDIFF_CONFIG"
)

type rootOpts struct {
	configPath string
	logLevel   string
	logFormat  string

	Config config.Config
	Logger log.Logger
}

func newRoot() *rootOpts {
	return &rootOpts{}
}

var rootLongHelp = strings.TrimSpace(`
graphdiff compares two object graphs, given as YAML or JSON documents,
and reports what was inserted, updated and deleted, and where.

Workflow:
  graphdiff compare old.yaml new.yaml                        # What changed?
  graphdiff compare old.yaml new.yaml --keys name -o table   # Match list elements by name.
  kubectl get deploy/hello -o yaml | graphdiff compare - hello.yaml --ignore 'glob:*Timestamp'
  graphdiff serve --listen :3031                             # Compare over HTTP.
`)

func (opts *rootOpts) Command() *cobra.Command {
	cmd := &cobra.Command{
		Use:               "graphdiff",
		Long:              rootLongHelp,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: opts.PersistentPreRunE,
	}
	cmd.PersistentFlags().StringVarP(&opts.configPath, "config", "c", "",
		fmt.Sprintf("path to a graphdiff config file; you can also set the environment variable %s", EnvVariableConfig))
	cmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "info", "(debug|info|warn|error) least severe level of messages to log")
	cmd.PersistentFlags().StringVar(&opts.logFormat, "log-format", "fmt", "(fmt|json) format of log messages")

	cmd.AddCommand(
		newCompare(opts).Command(),
		newServe(opts).Command(),
		newVersionCommand(),
	)

	return cmd
}

func (opts *rootOpts) PersistentPreRunE(cmd *cobra.Command, _ []string) error {
	logger, err := newLogger(cmd, opts.logFormat, opts.logLevel)
	if err != nil {
		return err
	}
	opts.Logger = logger

	path := os.Getenv(EnvVariableConfig)
	if cmd.Flags().Changed("config") || path == "" {
		path = opts.configPath
	}
	if path == "" {
		opts.Config = config.Defaults()
		return nil
	}
	opts.Config, err = config.Load(path)
	if err != nil {
		return err
	}
	level.Debug(opts.Logger).Log("config", path)
	return nil
}

func newLogger(cmd *cobra.Command, format, lvl string) (log.Logger, error) {
	var logger log.Logger
	switch format {
	case "fmt":
		logger = log.NewLogfmtLogger(log.NewSyncWriter(cmd.ErrOrStderr()))
	case "json":
		logger = log.NewJSONLogger(log.NewSyncWriter(cmd.ErrOrStderr()))
	default:
		return nil, newUsageError("--log-format must be 'fmt' or 'json'")
	}
	logger = log.With(logger, "ts", log.DefaultTimestampUTC, "caller", log.DefaultCaller)

	var allow level.Option
	switch lvl {
	case "debug":
		allow = level.AllowDebug()
	case "info":
		allow = level.AllowInfo()
	case "warn":
		allow = level.AllowWarn()
	case "error":
		allow = level.AllowError()
	default:
		return nil, newUsageError(fmt.Sprintf("--log-level must be one of debug, info, warn or error, not %q", lvl))
	}
	return level.NewFilter(logger, allow), nil
}

func makeExample(examples ...string) string {
	return "  " + strings.Join(examples, "\n  ")
}
