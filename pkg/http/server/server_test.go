package server

import (
	"context"
	"io/ioutil"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-kit/kit/log"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fluxcd/graphdiff/pkg/config"
	"github.com/fluxcd/graphdiff/pkg/diff"
	fluxerr "github.com/fluxcd/graphdiff/pkg/errors"
	transport "github.com/fluxcd/graphdiff/pkg/http"
	"github.com/fluxcd/graphdiff/pkg/http/client"
	"github.com/fluxcd/graphdiff/pkg/http/httperror"
)

func setup(t *testing.T) (*client.Client, *httptest.Server) {
	s := New(config.Defaults(), "1.2.3", log.NewNopLogger())
	ts := httptest.NewServer(NewHandler(s, NewRouter()))
	return client.New(http.DefaultClient, transport.NewAPIRouter(), ts.URL), ts
}

func TestPingAndVersion(t *testing.T) {
	c, ts := setup(t)
	defer ts.Close()

	ctx := context.Background()
	assert.NoError(t, c.Ping(ctx))
	v, err := c.Version(ctx)
	require.NoError(t, err)
	assert.Equal(t, "1.2.3", v)
}

func TestCompare(t *testing.T) {
	c, ts := setup(t)
	defer ts.Close()

	from := map[string]interface{}{
		"metadata": map[string]interface{}{"name": "hello", "resourceVersion": "1"},
		"spec": map[string]interface{}{
			"containers": []interface{}{
				map[string]interface{}{"name": "app", "image": "app:1"},
				map[string]interface{}{"name": "proxy", "image": "proxy:1"},
			},
		},
	}
	to := map[string]interface{}{
		"metadata": map[string]interface{}{"name": "hello", "resourceVersion": "2"},
		"spec": map[string]interface{}{
			"containers": []interface{}{
				map[string]interface{}{"name": "proxy", "image": "proxy:1"},
				map[string]interface{}{"name": "app", "image": "app:2"},
			},
		},
	}

	res, err := c.Compare(context.Background(), from, to, map[string]interface{}{
		"keys":   []string{"name"},
		"ignore": []string{"resourceVersion"},
		"select": "spec",
	})
	require.NoError(t, err)
	assert.False(t, res.IsMatch)
	require.Len(t, res.Deltas, 1)
	d := res.Deltas[0]
	assert.Equal(t, diff.Update, d.ChangeType)
	assert.Equal(t, "app:1", d.OldValue)
	assert.Equal(t, "app:2", d.NewValue)
	assert.Equal(t, "image", d.Breadcrumb.MemberName)

	res, err = c.Compare(context.Background(), from, from, nil)
	require.NoError(t, err)
	assert.True(t, res.IsMatch)
	assert.Empty(t, res.Deltas)
}

func TestCompareErrors(t *testing.T) {
	c, ts := setup(t)
	defer ts.Close()
	ctx := context.Background()

	_, err := c.Compare(ctx, nil, nil, nil)
	require.Error(t, err)
	assert.True(t, fluxerr.IsUser(errors.Cause(err)))

	_, err = c.Compare(ctx, "a", "b", map[string]interface{}{"output": "xml"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "reading options")

	_, err = c.Compare(ctx, "a", "b", map[string]interface{}{"ignore": []string{"regexp:("}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid pattern")
}

func TestCompareContentNegotiation(t *testing.T) {
	_, ts := setup(t)
	defer ts.Close()

	post := func(accept, body string) (*http.Response, string) {
		req, err := http.NewRequest("POST", ts.URL+"/v1/compare", strings.NewReader(body))
		require.NoError(t, err)
		if accept != "" {
			req.Header.Set("Accept", accept)
		}
		resp, err := http.DefaultClient.Do(req)
		require.NoError(t, err)
		defer resp.Body.Close()
		bytes, err := ioutil.ReadAll(resp.Body)
		require.NoError(t, err)
		return resp, string(bytes)
	}

	body := `{"from": {"replicas": 1}, "to": {"replicas": 2}}`

	resp, out := post("", body)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Type"), "application/json")
	assert.Contains(t, out, `"changeType":"update"`)

	resp, out = post("text/plain", body)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "map[string]interface {} > Replicas:\n- 1\n+ 2\n", out)

	resp, out = post("application/x-yaml", body)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, out, "changeType: update")

	resp, out = post("text/plain", `{"from": `)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Contains(t, out, `{"from": ..., "to": ..., "options": {...}}`)

	resp, _ = post("application/json", `{}`)
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
}

func TestNotFoundAndMetrics(t *testing.T) {
	c, ts := setup(t)
	defer ts.Close()
	require.NoError(t, c.Ping(context.Background()))

	resp, err := http.Get(ts.URL + "/v0/nothing")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	_, err = c.Compare(context.Background(), "a", nil, nil)
	require.NoError(t, err)

	resp, err = http.Get(ts.URL + "/metrics")
	require.NoError(t, err)
	defer resp.Body.Close()
	bytes, err := ioutil.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(bytes), `graphdiff_request_duration_seconds_count{method="GET",route="Ping",status_code="204",ws="false"}`)
	assert.Contains(t, string(bytes), `graphdiff_request_duration_seconds_count{method="GET",route="NotFound",status_code="404",ws="false"}`)
	assert.Contains(t, string(bytes), "graphdiff_compare_duration_seconds")
}

func TestClientAPIError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "down for maintenance", http.StatusServiceUnavailable)
	}))
	defer ts.Close()

	err := client.New(http.DefaultClient, transport.NewAPIRouter(), ts.URL).Ping(context.Background())
	require.Error(t, err)
	apiErr, ok := errors.Cause(err).(*httperror.APIError)
	require.True(t, ok)
	assert.True(t, apiErr.IsUnavailable())
}
