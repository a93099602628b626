package server

import (
	"encoding/json"
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"

	"github.com/matzehuels/bottlenose/pkg/buildinfo"
	"github.com/matzehuels/bottlenose/pkg/integrations"
	"github.com/matzehuels/bottlenose/pkg/integrations/scraper"
	"github.com/matzehuels/bottlenose/pkg/query"
)

func handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func handleVersion(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, buildinfo.Get())
}

// handleCall invokes the operation named by the path. Goodreads operations
// may contain slashes, so the wildcard is accepted as well.
func (s *Server) handleCall(client *integrations.Client[[]byte], contentType string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		op := chi.URLParam(r, "operation")
		if op == "" {
			op = chi.URLParam(r, "*")
		}

		body, err := client.ForOperation(op).Invoke(r.Context(), paramsFrom(r.URL.Query()))
		if err != nil {
			s.fail(w, r, err)
			return
		}
		w.Header().Set("Content-Type", contentType)
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(body)
	}
}

func (s *Server) handleScrape(w http.ResponseWriter, r *http.Request) {
	values := r.URL.Query()
	markdown := values.Get("format") == "markdown"
	values.Del("format")

	body, err := s.opts.Scraper.ForOperation(scraper.Operation).Invoke(r.Context(), paramsFrom(values))
	if err != nil {
		s.fail(w, r, err)
		return
	}

	if markdown {
		md, err := scraper.Markdown(body)
		if err != nil {
			s.fail(w, r, err)
			return
		}
		w.Header().Set("Content-Type", "text/markdown; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(md))
		return
	}

	w.Header().Set("Content-Type", http.DetectContentType(body))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(body)
}

// paramsFrom keeps the first value of each query key.
func paramsFrom(values url.Values) query.Params {
	params := make(query.Params, len(values))
	for k, v := range values {
		if len(v) > 0 {
			params[k] = v[0]
		}
	}
	return params
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
