package tools

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"

	"golang.org/x/net/html"

	"github.com/bnema/agent-cli/internal/adapters/outbound"
	"github.com/bnema/agent-cli/internal/domain"
)

const (
	DefaultSearchEndpoint   = "https://html.duckduckgo.com/html/"
	defaultMaxSearchResults = 5
)

// WebSearch queries the DuckDuckGo HTML endpoint and extracts result
// titles, target URLs and snippets.
type WebSearch struct {
	Client     *outbound.Client
	Endpoint   string
	MaxResults int
}

type webSearchArgs struct {
	Query string `json:"query"`
}

type searchResult struct {
	Title   string `json:"title"`
	URL     string `json:"url"`
	Snippet string `json:"snippet"`
}

func (s *WebSearch) Tool() Tool {
	return Tool{
		Name:        "web_search",
		Description: "Search the web with DuckDuckGo. Returns a list of results with title, url and snippet.",
		Parameters: objectSchema([]string{"query"}, map[string]any{
			"query": stringProperty("Search query"),
		}),
		Handler: s.Run,
	}
}

func (s *WebSearch) Run(ctx context.Context, _ domain.Execution, raw json.RawMessage) string {
	var args webSearchArgs
	if msg, ok := decodeArgs(raw, &args); !ok {
		return msg
	}
	query := strings.TrimSpace(args.Query)
	if query == "" {
		return "Error: query is required."
	}

	body, err := s.Client.PostForm(ctx, orDefault(s.Endpoint, DefaultSearchEndpoint), url.Values{"q": {query}})
	if err != nil {
		return fmt.Sprintf("Search error: %v", err)
	}

	results, err := parseSearchResults(body, s.maxResults())
	if err != nil {
		return fmt.Sprintf("Search error: %v", err)
	}

	return encodeJSON(results)
}

func (s *WebSearch) maxResults() int {
	if s.MaxResults <= 0 {
		return defaultMaxSearchResults
	}
	return s.MaxResults
}

// parseSearchResults walks the result page in document order. A snippet
// belongs to the closest preceding result link.
func parseSearchResults(page []byte, limit int) ([]searchResult, error) {
	doc, err := html.Parse(bytes.NewReader(page))
	if err != nil {
		return nil, fmt.Errorf("parse results: %w", err)
	}

	results := make([]searchResult, 0, limit)
	var walk func(*html.Node) bool
	walk = func(n *html.Node) bool {
		if n.Type == html.ElementNode {
			switch {
			case n.Data == "a" && hasClass(n, "result__a"):
				if len(results) == limit {
					return false
				}
				results = append(results, searchResult{
					Title: textContent(n),
					URL:   resultURL(attr(n, "href")),
				})
				return true
			case hasClass(n, "result__snippet"):
				if last := len(results) - 1; last >= 0 && results[last].Snippet == "" {
					results[last].Snippet = textContent(n)
				}
				return true
			}
		}

		for child := n.FirstChild; child != nil; child = child.NextSibling {
			if !walk(child) {
				return false
			}
		}
		return true
	}
	walk(doc)

	filtered := results[:0]
	for _, result := range results {
		if result.Title != "" && result.URL != "" {
			filtered = append(filtered, result)
		}
	}
	return filtered, nil
}

// resultURL unwraps DuckDuckGo redirect links (//duckduckgo.com/l/?uddg=...).
func resultURL(href string) string {
	if strings.HasPrefix(href, "//") {
		href = "https:" + href
	}

	parsed, err := url.Parse(href)
	if err != nil {
		return href
	}
	if target := parsed.Query().Get("uddg"); target != "" {
		return target
	}
	return href
}

func hasClass(n *html.Node, class string) bool {
	for _, candidate := range strings.Fields(attr(n, "class")) {
		if candidate == class {
			return true
		}
	}
	return false
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

func textContent(n *html.Node) string {
	var b strings.Builder
	var collect func(*html.Node)
	collect = func(n *html.Node) {
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
		}
		for child := n.FirstChild; child != nil; child = child.NextSibling {
			collect(child)
		}
	}
	collect(n)
	return strings.Join(strings.Fields(b.String()), " ")
}
