package tools

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bnema/agent-cli/internal/adapters/outbound"
	"github.com/bnema/agent-cli/internal/domain"
)

const searchPage = `<html><body>
<div class="result results_links">
  <h2 class="result__title">
    <a rel="nofollow" class="result__a" href="//duckduckgo.com/l/?uddg=https%3A%2F%2Fgo.dev%2Fdoc%2F&amp;rut=abc">The <b>Go</b> Programming Language</a>
  </h2>
  <a class="result__snippet" href="//duckduckgo.com/l/?uddg=https%3A%2F%2Fgo.dev%2Fdoc%2F">Documentation for   <b>Go</b>.</a>
</div>
<div class="result results_links">
  <h2 class="result__title"><a class="result__a" href="https://example.com/direct">Direct link</a></h2>
</div>
</body></html>`

func TestWebSearchParsesResults(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "golang", r.PostForm.Get("q"))
		_, _ = io.WriteString(w, searchPage)
	}))
	t.Cleanup(server.Close)

	search := &WebSearch{Client: outbound.NewClient(outbound.Options{}), Endpoint: server.URL}
	got := search.Run(context.Background(), domain.Execution{}, mustArgs(t, map[string]any{"query": "golang"}))

	var results []searchResult
	require.NoError(t, json.Unmarshal([]byte(got), &results), got)
	assert.Equal(t, []searchResult{
		{Title: "The Go Programming Language", URL: "https://go.dev/doc/", Snippet: "Documentation for Go."},
		{Title: "Direct link", URL: "https://example.com/direct"},
	}, results)
}

func TestParseSearchResultsHonorsLimit(t *testing.T) {
	t.Parallel()

	var page strings.Builder
	for i := 0; i < 8; i++ {
		page.WriteString(`<a class="result__a" href="https://example.com/">r</a>`)
	}

	results, err := parseSearchResults([]byte(page.String()), 5)
	require.NoError(t, err)
	assert.Len(t, results, 5)
}

func TestWebSearchRequiresQuery(t *testing.T) {
	t.Parallel()

	search := &WebSearch{Client: outbound.NewClient(outbound.Options{})}
	got := search.Run(context.Background(), domain.Execution{}, mustArgs(t, map[string]any{"query": " "}))
	assert.Equal(t, "Error: query is required.", got)
}

func TestWebSearchReportsUpstreamErrors(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	t.Cleanup(server.Close)

	search := &WebSearch{Client: outbound.NewClient(outbound.Options{}), Endpoint: server.URL}
	got := search.Run(context.Background(), domain.Execution{}, mustArgs(t, map[string]any{"query": "golang"}))
	assert.Contains(t, got, "Search error: status 403")
}
