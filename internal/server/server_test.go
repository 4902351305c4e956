package server

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/koustreak/aam/internal/errs"
	"github.com/koustreak/aam/internal/logger"
	"github.com/koustreak/aam/internal/manifest"
	"github.com/koustreak/aam/internal/schema"
	"github.com/koustreak/aam/internal/schemainfo"
)

const blog = `
models:
  - name: User
    columns:
      - {name: id, type: integer}
      - {name: name, type: string, limit: 32}
    associations:
      - has_many: articles

  - name: Article
    columns:
      - {name: id, type: integer}
      - {name: user_id, type: integer}
    associations:
      - belongs_to: user
`

// flakyProvider fails to build the tables named in broken.
type flakyProvider struct {
	schema.Provider
	broken map[string]bool
}

func (p flakyProvider) Table(ctx context.Context, model string) (*schema.Table, error) {
	if p.broken[model] {
		return nil, errs.Newf(errs.ErrKindProviderFailure, "inspect table of %s", model)
	}
	return p.Provider.Table(ctx, model)
}

func newTestServer(t *testing.T, broken ...string) (*httptest.Server, *bytes.Buffer) {
	t.Helper()
	m, err := manifest.Parse(strings.NewReader(blog))
	require.NoError(t, err)
	p, err := manifest.NewProvider(m)
	require.NoError(t, err)

	fp := flakyProvider{Provider: p, broken: map[string]bool{}}
	for _, b := range broken {
		fp.broken[b] = true
	}

	var logs bytes.Buffer
	log := logger.New(&logger.Config{Level: "info", Format: "json", Output: &logs})
	ts := httptest.NewServer(New(fp, nil, schemainfo.GeneratorStyle(), log).Handler())
	t.Cleanup(ts.Close)
	return ts, &logs
}

func get(t *testing.T, url string) (*http.Response, string) {
	t.Helper()
	resp, err := http.Get(url)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, string(body)
}

func TestHealth(t *testing.T) {
	ts, _ := newTestServer(t)
	resp, body := get(t, ts.URL+"/healthz")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `{"status":"ok"}`, body)
}

func TestListModels(t *testing.T) {
	ts, logs := newTestServer(t)
	resp, body := get(t, ts.URL+"/models")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/json", resp.Header.Get("Content-Type"))
	assert.JSONEq(t, `{"models":[{"model":"Article","table":"articles"},{"model":"User","table":"users"}]}`, body)

	assert.Contains(t, logs.String(), `"path":"/models"`)
	assert.Contains(t, logs.String(), `"status":200`)
}

func TestListModels_BrokenTable(t *testing.T) {
	ts, _ := newTestServer(t, "User")
	resp, body := get(t, ts.URL+"/models")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var out struct {
		Models []modelEntry `json:"models"`
	}
	require.NoError(t, json.Unmarshal([]byte(body), &out))
	require.Len(t, out.Models, 2)
	assert.Equal(t, "articles", out.Models[0].Table)
	assert.Contains(t, out.Models[1].Error, "inspect table of User")
}

func TestShowModel(t *testing.T) {
	ts, _ := newTestServer(t)
	resp, body := get(t, ts.URL+"/models/Article")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "text/plain; charset=utf-8", resp.Header.Get("Content-Type"))

	assert.True(t, strings.HasPrefix(body, "# == Schema Information ==\n#\n# Article (articles as Article)\n"))
	assert.Contains(t, body, "=> User#id")
	assert.Contains(t, body, "[Warning: Need to add index] Add add_index :articles, :user_id to the create_articles migration")
	assert.Contains(t, body, "User.has_many :articles")
}

func TestShowModel_UnresolvedTarget(t *testing.T) {
	ts, _ := newTestServer(t, "User")
	resp, body := get(t, ts.URL+"/models/Article")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "=> User#id")
	assert.NotContains(t, body, "has_many :articles")
}

func TestShowDiagnostics(t *testing.T) {
	ts, _ := newTestServer(t)
	resp, body := get(t, ts.URL+"/models/Article/diagnostics")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var rep schemainfo.Report
	require.NoError(t, json.Unmarshal([]byte(body), &rep))
	assert.Equal(t, "Article", rep.Model)
	assert.Equal(t, "articles", rep.Table)
	require.Len(t, rep.Rows, 2)
	assert.Equal(t, "user_id", rep.Rows[1].Name)
	assert.Empty(t, rep.Text)

	var raw map[string]any
	require.NoError(t, json.Unmarshal([]byte(body), &raw))
	diags := raw["diagnostics"].([]any)
	require.Len(t, diags, 2)
	assert.Equal(t, "info", diags[0].(map[string]any)["severity"])
	assert.Equal(t, "warning", diags[1].(map[string]any)["severity"])
}

func TestErrors(t *testing.T) {
	ts, logs := newTestServer(t, "User")

	resp, body := get(t, ts.URL+"/models/Comment")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Contains(t, body, "model Comment is not in the manifest")

	resp, _ = get(t, ts.URL+"/models/User")
	assert.Equal(t, http.StatusBadGateway, resp.StatusCode)
	assert.Contains(t, logs.String(), "request failed")
}

func TestStatusOf(t *testing.T) {
	assert.Equal(t, http.StatusGatewayTimeout, statusOf(errs.New(errs.ErrKindTimeout, "x")))
	assert.Equal(t, http.StatusForbidden, statusOf(errs.New(errs.ErrKindPermissionDenied, "x")))
	assert.Equal(t, http.StatusBadRequest, statusOf(errs.New(errs.ErrKindInvalidInput, "x")))
	assert.Equal(t, http.StatusInternalServerError, statusOf(io.EOF))
}

func TestListenAndServe_Shutdown(t *testing.T) {
	m, err := manifest.Parse(strings.NewReader(blog))
	require.NoError(t, err)
	p, err := manifest.NewProvider(m)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- New(p, nil, schemainfo.GeneratorStyle(), nil).ListenAndServe(ctx, "127.0.0.1:0") }()
	cancel()
	assert.NoError(t, <-done)
}
