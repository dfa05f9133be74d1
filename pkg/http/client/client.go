package client

import (
	"bytes"
	"context"
	"encoding/json"
	"io/ioutil"
	"net/http"
	"strings"

	"github.com/Jeffail/gabs"
	"github.com/gorilla/mux"
	"github.com/pkg/errors"

	"github.com/fluxcd/graphdiff/pkg/diff"
	fluxerr "github.com/fluxcd/graphdiff/pkg/errors"
	transport "github.com/fluxcd/graphdiff/pkg/http"
	"github.com/fluxcd/graphdiff/pkg/http/httperror"
)

// Client calls a graphdiff API server.
type Client struct {
	client   *http.Client
	router   *mux.Router
	endpoint string
}

func New(c *http.Client, router *mux.Router, endpoint string) *Client {
	return &Client{
		client:   c,
		router:   router,
		endpoint: endpoint,
	}
}

func (c *Client) Ping(ctx context.Context) error {
	return c.Get(ctx, nil, transport.Ping)
}

func (c *Client) Version(ctx context.Context) (string, error) {
	var v string
	err := c.Get(ctx, &v, transport.Version)
	return v, err
}

// Compare has the server compare the two documents. Options take the
// same fields as a config file, and override the server's config.
func (c *Client) Compare(ctx context.Context, from, to interface{}, options map[string]interface{}) (*diff.SimpleResult, error) {
	body := gabs.New()
	if from != nil {
		if _, err := body.Set(from, "from"); err != nil {
			return nil, errors.Wrap(err, "encoding request body")
		}
	}
	if to != nil {
		if _, err := body.Set(to, "to"); err != nil {
			return nil, errors.Wrap(err, "encoding request body")
		}
	}
	if len(options) > 0 {
		if _, err := body.Set(options, "options"); err != nil {
			return nil, errors.Wrap(err, "encoding request body")
		}
	}

	var res diff.SimpleResult
	if err := c.methodWithResp(ctx, "POST", &res, transport.Compare, body.Data()); err != nil {
		return nil, err
	}
	return &res, nil
}

// methodWithResp handles body and query-param encoding, as well as
// decoding the response into the provided destination. Note, the
// response will only be decoded into the dest if the len is > 0.
func (c *Client) methodWithResp(ctx context.Context, method string, dest interface{}, route string, body interface{}, queryParams ...string) error {
	u, err := transport.MakeURL(c.endpoint, c.router, route, queryParams...)
	if err != nil {
		return errors.Wrap(err, "constructing URL")
	}

	var bodyBytes []byte
	if body != nil {
		bodyBytes, err = json.Marshal(body)
		if err != nil {
			return errors.Wrap(err, "encoding request body")
		}
	}

	req, err := http.NewRequest(method, u.String(), bytes.NewReader(bodyBytes))
	if err != nil {
		return errors.Wrapf(err, "constructing request %s", u)
	}
	req = req.WithContext(ctx)
	req.Header.Set("Accept", transport.ContentTypeJSON)
	req.Header.Set("Content-Type", transport.ContentTypeJSON)

	resp, err := c.executeRequest(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	respBytes, err := ioutil.ReadAll(resp.Body)
	if err != nil {
		return errors.Wrap(err, "reading response from server")
	}
	if len(respBytes) <= 0 || dest == nil {
		return nil
	}
	if err := json.Unmarshal(respBytes, dest); err != nil {
		return errors.Wrap(err, "decoding response from server")
	}
	return nil
}

// Get executes a get request against the server. It unmarshals the
// response into dest, if not nil.
func (c *Client) Get(ctx context.Context, dest interface{}, route string, queryParams ...string) error {
	return c.methodWithResp(ctx, "GET", dest, route, nil, queryParams...)
}

func (c *Client) executeRequest(req *http.Request) (*http.Response, error) {
	resp, err := c.client.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, "executing HTTP request")
	}
	switch resp.StatusCode {
	case http.StatusOK, http.StatusCreated, http.StatusNoContent, http.StatusAccepted:
		return resp, nil
	}

	defer resp.Body.Close()
	body, err := ioutil.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.Wrap(err, "reading response body of error")
	}
	// Use the content type to discriminate between our own errors,
	// and any old error
	if strings.HasPrefix(resp.Header.Get(http.CanonicalHeaderKey("Content-Type")), transport.ContentTypeJSON) {
		var niceError fluxerr.Error
		if err := json.Unmarshal(body, &niceError); err != nil {
			return nil, errors.Wrap(err, "decoding response body of error")
		}
		// just in case it's JSON but not one of our own errors
		if niceError.Err != nil {
			return nil, &niceError
		}
	}
	return nil, &httperror.APIError{
		StatusCode: resp.StatusCode,
		Status:     resp.Status,
		Body:       string(body),
	}
}
