package server

import (
	"io/ioutil"
	"net/http"

	"github.com/Jeffail/gabs"
	"github.com/go-kit/kit/log"
	"github.com/gorilla/mux"
	"github.com/pkg/errors"
	stdprometheus "github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/weaveworks/common/middleware"

	"github.com/fluxcd/graphdiff/pkg/config"
	"github.com/fluxcd/graphdiff/pkg/diff"
	"github.com/fluxcd/graphdiff/pkg/document"
	"github.com/fluxcd/graphdiff/pkg/format"
	transport "github.com/fluxcd/graphdiff/pkg/http"
	gdmetrics "github.com/fluxcd/graphdiff/pkg/metrics"
)

var (
	requestDuration = stdprometheus.NewHistogramVec(stdprometheus.HistogramOpts{
		Namespace: "graphdiff",
		Name:      "request_duration_seconds",
		Help:      "Time (in seconds) spent serving HTTP requests.",
		Buckets:   stdprometheus.DefBuckets,
	}, []string{gdmetrics.LabelMethod, gdmetrics.LabelRoute, gdmetrics.LabelStatusCode, "ws"})
)

func init() {
	stdprometheus.MustRegister(requestDuration)
}

// NewRouter returns the router for the API, plus metrics. Any
// request not matching a route gets a 404 explaining what is served.
func NewRouter() *mux.Router {
	r := transport.NewAPIRouter()
	r.NewRoute().Name(transport.Metrics).Methods("GET").Path("/metrics")
	r.NewRoute().Name("NotFound").HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		transport.WriteError(w, r, http.StatusNotFound, transport.MakeAPINotFound(r.URL.Path))
	})
	return r
}

func NewHandler(s *Server, r *mux.Router) http.Handler {
	r.Get(transport.Ping).HandlerFunc(s.Ping)
	r.Get(transport.Version).HandlerFunc(s.Version)
	r.Get(transport.Compare).HandlerFunc(s.Compare)
	r.Get(transport.Metrics).Handler(promhttp.Handler())
	return middleware.Instrument{
		RouteMatcher: r,
		Duration:     requestDuration,
	}.Wrap(r)
}

// Server answers API requests, comparing documents with its config
// as amended by the options of each request.
type Server struct {
	config  config.Config
	version string
	logger  log.Logger
	metrics diff.Metrics
}

func New(c config.Config, version string, logger log.Logger) *Server {
	return &Server{
		config:  c,
		version: version,
		logger:  logger,
		metrics: diff.DefaultMetrics(),
	}
}

func (s *Server) Ping(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) Version(w http.ResponseWriter, r *http.Request) {
	transport.JSONResponse(w, r, s.version)
}

func (s *Server) Compare(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()

	body, err := ioutil.ReadAll(r.Body)
	if err != nil {
		transport.WriteError(w, r, http.StatusBadRequest, errors.Wrap(err, "reading request body"))
		return
	}
	req, err := gabs.ParseJSON(body)
	if err != nil {
		transport.WriteError(w, r, http.StatusBadRequest, transport.MakeBadRequest(errors.Wrap(err, "parsing request body")))
		return
	}

	c, err := s.requestConfig(req)
	if err != nil {
		transport.WriteError(w, r, http.StatusBadRequest, transport.MakeBadRequest(err))
		return
	}
	dc, err := c.DiffConfig(log.With(s.logger, "component", "engine"))
	if err != nil {
		transport.WriteError(w, r, http.StatusBadRequest, transport.MakeBadRequest(err))
		return
	}

	from, err := document.Select(req.Path("from").Data(), c.Select)
	if err != nil {
		transport.WriteError(w, r, http.StatusBadRequest, transport.MakeBadRequest(err))
		return
	}
	to, err := document.Select(req.Path("to").Data(), c.Select)
	if err != nil {
		transport.WriteError(w, r, http.StatusBadRequest, transport.MakeBadRequest(err))
		return
	}

	var comparer diff.Comparer = diff.New(dc)
	comparer = diff.InstrumentedComparer(comparer, s.metrics)
	comparer = diff.LoggingMiddleware(s.logger)(comparer)
	res, err := comparer.Compare(from, to)
	if err != nil {
		transport.ErrorResponse(w, r, err)
		return
	}

	s.writeResult(w, r, res, dc)
}

// requestConfig is the server's config, overridden by the options
// given in the request.
func (s *Server) requestConfig(req *gabs.Container) (config.Config, error) {
	opts := req.Path("options").Data()
	if opts == nil {
		return s.config, nil
	}
	raw, ok := opts.(map[string]interface{})
	if !ok {
		return config.Config{}, errors.New(`"options" must be an object`)
	}
	if _, ok := raw["graphdiffConfigVersion"]; !ok {
		raw["graphdiffConfigVersion"] = config.GraphdiffConfigVersion
	}
	c, err := config.Decode(raw)
	if err != nil {
		return config.Config{}, errors.Wrap(err, "reading options")
	}
	return s.config.Override(c)
}

func (s *Server) writeResult(w http.ResponseWriter, r *http.Request, res *diff.Result, dc diff.Config) {
	var output, contentType string
	switch transport.NegotiateContentType(r, []string{transport.ContentTypeJSON, transport.ContentTypeYAML, transport.ContentTypeText}) {
	case transport.ContentTypeJSON, "":
		transport.JSONResponse(w, r, res.Simple())
		return
	case transport.ContentTypeYAML:
		output, contentType = format.YAML, "application/x-yaml; charset=utf-8"
	case transport.ContentTypeText:
		output, contentType = format.Text, "text/plain; charset=utf-8"
	}

	w.Header().Set("Content-Type", contentType)
	w.WriteHeader(http.StatusOK)
	opts := format.Options{Breadcrumbs: format.NewBreadcrumbFormatter(dc.Metadata)}
	if err := format.Write(w, output, res, opts); err != nil {
		s.logger.Log("method", "Compare", "err", errors.Wrap(err, "writing response"))
	}
}
