package server

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	errs "github.com/matzehuels/tubetrend/pkg/errors"
	pkgio "github.com/matzehuels/tubetrend/pkg/io"
	"github.com/matzehuels/tubetrend/pkg/pipeline"
	"github.com/matzehuels/tubetrend/pkg/videos"
)

type errorResponse struct {
	Error  string `json:"error"`
	Detail string `json:"detail"`
}

type tableResponse struct {
	Table      *videos.Table `json:"table"`
	Cached     bool          `json:"cached"`
	DurationMS int64         `json:"duration_ms"`
	Notice     string        `json:"notice,omitempty"`
}

type categoriesResponse struct {
	Region     string            `json:"region"`
	Categories map[string]string `json:"categories"`
	Cached     bool              `json:"cached"`
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleRegions(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, videos.Regions)
}

func (s *Server) handleCategories(w http.ResponseWriter, r *http.Request) {
	opts := s.options(r)
	if err := opts.ValidateForCategories(); err != nil {
		s.writeError(w, err)
		return
	}
	categories, hit, err := s.runner.CategoriesWithCacheInfo(r.Context(), opts)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, categoriesResponse{Region: opts.Region, Categories: categories, Cached: hit})
}

func (s *Server) handleTrending(w http.ResponseWriter, r *http.Request) {
	opts, err := s.tableOptions(r)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.serveTable(w, r, opts, s.runner.Trending)
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	opts, err := s.tableOptions(r)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.serveTable(w, r, opts, s.runner.Search)
}

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	opts, err := s.tableOptions(r)
	if err != nil {
		s.writeError(w, err)
		return
	}
	fetch := s.runner.Trending
	switch strings.ToLower(r.URL.Query().Get("source")) {
	case "", "trending":
	case "search":
		fetch = s.runner.Search
	default:
		s.writeError(w, errs.New(errs.ErrCodeInvalidInput, "source must be trending or search"))
		return
	}

	res, err := fetch(r.Context(), opts)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, pkgio.NewSummaryReport(res.Table, s.cfg.Now()))
}

func (s *Server) handleCacheClear(w http.ResponseWriter, r *http.Request) {
	if err := s.runner.ClearCache(r.Context()); err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "cleared"})
}

type fetchFunc func(context.Context, pipeline.Options) (*pipeline.Result, error)

func (s *Server) serveTable(w http.ResponseWriter, r *http.Request, opts pipeline.Options, fetch fetchFunc) {
	res, err := fetch(r.Context(), opts)
	if err != nil {
		s.writeError(w, err)
		return
	}
	resp := tableResponse{
		Table:      res.Table,
		Cached:     res.CacheInfo.Hit,
		DurationMS: res.Stats.Duration.Milliseconds(),
	}
	if res.Table.Empty() {
		resp.Notice = errs.UserMessage(errs.EmptyResult(string(res.Table.Kind), res.Table.Region))
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) options(r *http.Request) pipeline.Options {
	q := r.URL.Query()
	return pipeline.Options{
		APIKey:   s.cfg.APIKey,
		Region:   q.Get("region"),
		Category: q.Get("category"),
		Query:    q.Get("q"),
		Refresh:  q.Get("refresh") == "true" || q.Get("refresh") == "1",
	}
}

func (s *Server) tableOptions(r *http.Request) (pipeline.Options, error) {
	opts := s.options(r)
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			return opts, errs.New(errs.ErrCodeInvalidInput, "limit must be a number: %q", raw)
		}
		opts.Limit = n
	}
	return opts, nil
}

func (s *Server) writeError(w http.ResponseWriter, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", "err", err)
	} else {
		s.logger.Debug("request rejected", "err", err)
	}
	code := errs.GetCode(err)
	if code == "" {
		code = errs.ErrCodeInternal
	}
	writeJSON(w, status, errorResponse{Error: string(code), Detail: errs.UserMessage(err)})
}

// statusFor maps an error code to the facade's HTTP status.
func statusFor(err error) int {
	switch errs.GetCode(err) {
	case errs.ErrCodeInvalidInput, errs.ErrCodeInvalidRegion, errs.ErrCodeInvalidQuery, errs.ErrCodeInvalidFormat:
		return http.StatusBadRequest
	case errs.ErrCodeUnauthorized:
		return http.StatusUnauthorized
	case errs.ErrCodeForbidden:
		return http.StatusForbidden
	case errs.ErrCodeNotFound:
		return http.StatusNotFound
	case errs.ErrCodeRateLimited:
		return http.StatusTooManyRequests
	case errs.ErrCodeNetwork, errs.ErrCodeHTTP, errs.ErrCodeDecode:
		return http.StatusBadGateway
	case errs.ErrCodeTimeout:
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
