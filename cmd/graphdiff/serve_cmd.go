package main

import (
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-kit/kit/log"
	"github.com/spf13/cobra"

	"github.com/fluxcd/graphdiff/pkg/http/server"
)

type serveOpts struct {
	*rootOpts
	listen string
}

func newServe(root *rootOpts) *serveOpts {
	return &serveOpts{rootOpts: root}
}

func (opts *serveOpts) Command() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve comparisons, and metrics, over HTTP",
		Example: makeExample(
			"graphdiff serve --listen :3031",
			`curl -d '{"from": {"replicas": 1}, "to": {"replicas": 2}}' localhost:3031/v1/compare`,
		),
		RunE: opts.RunE,
	}
	cmd.Flags().StringVarP(&opts.listen, "listen", "l", ":3031", "address to listen on for API and metrics requests")
	return cmd
}

func (opts *serveOpts) RunE(cmd *cobra.Command, args []string) error {
	if len(args) != 0 {
		return errorWantedNoArgs
	}

	errc := make(chan error)
	go func() {
		c := make(chan os.Signal, 1)
		signal.Notify(c, syscall.SIGINT, syscall.SIGTERM)
		errc <- fmt.Errorf("%s", <-c)
	}()

	s := server.New(opts.Config, getVersion(), log.With(opts.Logger, "component", "api"))
	handler := server.NewHandler(s, server.NewRouter())
	go func() {
		logger := log.With(opts.Logger, "transport", "HTTP")
		logger.Log("addr", opts.listen)
		errc <- http.ListenAndServe(opts.listen, handler)
	}()

	opts.Logger.Log("exiting", <-errc)
	return nil
}
