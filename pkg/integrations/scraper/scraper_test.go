package scraper

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/matzehuels/bottlenose/pkg/errors"
	"github.com/matzehuels/bottlenose/pkg/integrations"
	"github.com/matzehuels/bottlenose/pkg/query"
)

func TestValidate(t *testing.T) {
	p := New()
	tests := []struct {
		name    string
		params  query.Params
		wantErr bool
	}{
		{"https", query.Params{"url": "https://example.com/page"}, false},
		{"http", query.Params{"url": "http://example.com"}, false},
		{"missing", query.Params{}, true},
		{"nil", query.Params{"url": nil}, true},
		{"ftp", query.Params{"url": "ftp://example.com"}, true},
		{"relative", query.Params{"url": "/page"}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := p.Validate(Operation, tt.params)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !errors.IsValidation(err) {
				t.Errorf("Validate() error = %v, want validation error", err)
			}
		})
	}
}

func TestURLIsCacheKey(t *testing.T) {
	p := New()
	params := query.Params{"url": "https://example.com/a?b=c"}
	u, _ := p.QueryURL(Operation, params)
	k, _ := p.CacheKey(Operation, params)
	if u != "https://example.com/a?b=c" || k != u {
		t.Errorf("QueryURL() = %s, CacheKey() = %s", u, k)
	}
}

func TestMarkdownThroughClient(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte("<html><body><h1>Title</h1><p>Some <strong>bold</strong> text.</p></body></html>"))
	}))
	defer srv.Close()

	client, err := integrations.NewClient(New(), Markdown, integrations.WithHTTPClient(srv.Client()))
	if err != nil {
		t.Fatal(err)
	}

	md, err := client.ForOperation(Operation).Invoke(context.Background(), query.Params{"url": srv.URL})
	if err != nil {
		t.Fatalf("Invoke() error = %v", err)
	}
	if !strings.Contains(md, "# Title") {
		t.Errorf("markdown missing heading: %q", md)
	}
	if !strings.Contains(md, "**bold**") {
		t.Errorf("markdown missing bold text: %q", md)
	}
}
