// Package chi exposes the index and search gateways over HTTP.
package chi

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/oapi-codegen/runtime"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/kailas-cloud/recdex/internal/domain"
	dombatch "github.com/kailas-cloud/recdex/internal/domain/batch"
	domdoc "github.com/kailas-cloud/recdex/internal/domain/document"
	domidx "github.com/kailas-cloud/recdex/internal/domain/index"
	"github.com/kailas-cloud/recdex/internal/domain/record"
	"github.com/kailas-cloud/recdex/internal/domain/search/request"
	"github.com/kailas-cloud/recdex/internal/domain/search/result"
	healthuc "github.com/kailas-cloud/recdex/internal/usecase/health"
)

// errorHandler tries to handle a domain error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error, msg string) bool

// Server implements the recdex HTTP API.
type Server struct {
	index         Indexer
	bulk          BulkIndexer
	search        Searcher
	health        HealthChecker
	logger        *zap.Logger
	errorHandlers []errorHandler
}

// NewServer creates an HTTP API server.
func NewServer(
	index Indexer,
	bulk BulkIndexer,
	search Searcher,
	health HealthChecker,
	logger *zap.Logger,
) *Server {
	s := &Server{
		index:  index,
		bulk:   bulk,
		search: search,
		health: health,
		logger: logger,
	}
	s.errorHandlers = []errorHandler{
		sentinelHandler(domain.ErrSearchTermNotFound, http.StatusBadRequest, ErrorCodeSearchTermNotFound),
		sentinelHandler(domain.ErrIndexing, http.StatusBadGateway, ErrorCodeIndexingFailed),
		sentinelHandler(domain.ErrDeletion, http.StatusBadGateway, ErrorCodeDeletionFailed),
		sentinelHandler(domain.ErrSearch, http.StatusBadGateway, ErrorCodeSearchFailed),
		sentinelHandler(domain.ErrInvalidRequest, http.StatusBadRequest, ErrorCodeValidationFailed),
		sentinelHandler(domain.ErrNotFound, http.StatusNotFound, ErrorCodeNotFound),
	}
	return s
}

// Routes registers every endpoint on r.
func (s *Server) Routes(r chi.Router) {
	r.Get("/health", s.HealthCheck)
	r.Get("/metrics", s.Metrics)
	r.Route("/api/v1", func(r chi.Router) {
		r.Put("/records/{type}/{id}", s.IndexRecord)
		r.Delete("/records/{type}/{id}", s.DeleteRecord)
		r.Post("/records/_bulk", s.BulkIndex)
		r.Post("/records/_collected", s.IndexCollected)
		r.Post("/commit", s.Commit)
		r.Post("/search", s.Search)
		r.Post("/search/_data", s.SearchData)
	})
}

// IndexRecord handles PUT /api/v1/records/{type}/{id}.
func (s *Server) IndexRecord(w http.ResponseWriter, r *http.Request) {
	identity, ok := identityFromPath(w, r)
	if !ok {
		return
	}

	var req IndexRecordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, ErrorCodeBadRequest, "Invalid request body: "+err.Error())
		return
	}

	src, err := sourceFromRequest(identity, req.IDs, req.Terms, req.Record)
	if err != nil {
		writeError(w, http.StatusBadRequest, ErrorCodeValidationFailed, err.Error())
		return
	}

	s.indexSource(w, r, src, req.Commit)
}

// IndexCollected handles POST /api/v1/records/_collected: identity and
// terms are read from a collected terms group.
func (s *Server) IndexCollected(w http.ResponseWriter, r *http.Request) {
	var req CollectedIndexRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, ErrorCodeBadRequest, "Invalid request body: "+err.Error())
		return
	}
	if len(req.Collected) == 0 {
		writeError(w, http.StatusBadRequest, ErrorCodeValidationFailed, "collected is required")
		return
	}

	collected, err := record.Unmarshal(req.Collected)
	if err != nil {
		writeError(w, http.StatusBadRequest, ErrorCodeValidationFailed, "collected: "+err.Error())
		return
	}
	identity, terms, err := domidx.FromCollectedData(collected)
	if err != nil {
		writeError(w, http.StatusBadRequest, ErrorCodeValidationFailed, err.Error())
		return
	}

	src, err := sourceFromRequest(identity, req.IDs, nil, req.Record)
	if err != nil {
		writeError(w, http.StatusBadRequest, ErrorCodeValidationFailed, err.Error())
		return
	}
	src.Terms = terms
	s.indexSource(w, r, src, req.Commit)
}

// indexSource indexes src; commit defaults to true.
func (s *Server) indexSource(w http.ResponseWriter, r *http.Request, src domdoc.Source, commit *bool) {
	indexFn := s.index.IndexWithCommit
	if commit != nil && !*commit {
		indexFn = s.index.IndexWithoutCommit
	}

	outcome, err := indexFn(r.Context(), src)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, IndexRecordResponse{
		Type:   src.Identity.Type(),
		ID:     src.Identity.ID(),
		Status: string(outcome),
	})
}

// DeleteRecord handles DELETE /api/v1/records/{type}/{id}.
func (s *Server) DeleteRecord(w http.ResponseWriter, r *http.Request) {
	identity, ok := identityFromPath(w, r)
	if !ok {
		return
	}
	if err := s.index.Delete(r.Context(), identity); err != nil {
		s.handleDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// BulkIndex handles POST /api/v1/records/_bulk.
func (s *Server) BulkIndex(w http.ResponseWriter, r *http.Request) {
	var req BulkIndexRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, ErrorCodeBadRequest, "Invalid request body: "+err.Error())
		return
	}
	if len(req.Items) == 0 {
		writeError(w, http.StatusBadRequest, ErrorCodeValidationFailed, "items must not be empty")
		return
	}

	items := make([]domdoc.Source, len(req.Items))
	for i, it := range req.Items {
		if it.Type == "" || it.ID == "" {
			writeError(w, http.StatusBadRequest, ErrorCodeValidationFailed,
				fmt.Sprintf("items[%d]: type and id are required", i))
			return
		}
		src, err := sourceFromRequest(domidx.NewIdentity(it.Type, it.ID), it.IDs, it.Terms, it.Record)
		if err != nil {
			writeError(w, http.StatusBadRequest, ErrorCodeValidationFailed, fmt.Sprintf("items[%d]: %v", i, err))
			return
		}
		items[i] = src
	}

	results := s.bulk.Index(r.Context(), items)
	resp := BulkIndexResponse{Items: make([]BulkResultItem, len(results))}
	for i, res := range results {
		resp.Items[i] = bulkResultToAPI(res)
	}
	writeJSON(w, http.StatusOK, resp)
}

// Commit handles POST /api/v1/commit.
func (s *Server) Commit(w http.ResponseWriter, r *http.Request) {
	if err := s.index.Commit(r.Context()); err != nil {
		s.handleDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Search handles POST /api/v1/search.
func (s *Server) Search(w http.ResponseWriter, r *http.Request) {
	var req SearchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, ErrorCodeBadRequest, "Invalid request body: "+err.Error())
		return
	}

	terms := make([]request.Term, 0, len(req.Terms))
	for _, t := range req.Terms {
		if t.Name == "" {
			writeError(w, http.StatusBadRequest, ErrorCodeValidationFailed, "term name is required")
			return
		}
		terms = append(terms, request.NewTerm(t.Name, t.Value))
	}

	s.runSearch(w, r, request.New(req.RecordTypes, string(req.Rows), string(req.Start), terms))
}

// SearchData handles POST /api/v1/search/_data: paging and terms are read
// from a search data group.
func (s *Server) SearchData(w http.ResponseWriter, r *http.Request) {
	var req SearchDataRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, ErrorCodeBadRequest, "Invalid request body: "+err.Error())
		return
	}
	if len(req.SearchData) == 0 {
		writeError(w, http.StatusBadRequest, ErrorCodeValidationFailed, "search_data is required")
		return
	}

	g, err := record.Unmarshal(req.SearchData)
	if err != nil {
		writeError(w, http.StatusBadRequest, ErrorCodeValidationFailed, "search_data: "+err.Error())
		return
	}
	sr, err := request.FromSearchData(req.RecordTypes, g)
	if err != nil {
		writeError(w, http.StatusBadRequest, ErrorCodeValidationFailed, err.Error())
		return
	}
	s.runSearch(w, r, sr)
}

func (s *Server) runSearch(w http.ResponseWriter, r *http.Request, req request.Request) {
	page, err := s.search.Search(r.Context(), req)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	resp, err := pageToAPI(page)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// HealthCheck handles GET /health.
func (s *Server) HealthCheck(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	checks := make(map[string]string, len(report.Checks))
	for k, v := range report.Checks {
		checks[k] = string(v)
	}

	httpStatus := http.StatusOK
	if report.Status == healthuc.Unhealthy {
		httpStatus = http.StatusServiceUnavailable
	}

	writeJSON(w, httpStatus, HealthResponse{
		Status: string(report.Status),
		Checks: checks,
	})
}

// Metrics handles GET /metrics.
func (s *Server) Metrics(w http.ResponseWriter, r *http.Request) {
	promhttp.Handler().ServeHTTP(w, r)
}

func identityFromPath(w http.ResponseWriter, r *http.Request) (domidx.Identity, bool) {
	var recordType, id string
	opts := runtime.BindStyledParameterOptions{
		ParamLocation: runtime.ParamLocationPath,
		Explode:       false,
		Required:      true,
	}
	err := runtime.BindStyledParameterWithOptions("simple", "type", chi.URLParam(r, "type"), &recordType, opts)
	if err != nil {
		writeError(w, http.StatusBadRequest, ErrorCodeBadRequest, "Invalid path parameter type: "+err.Error())
		return domidx.Identity{}, false
	}
	err = runtime.BindStyledParameterWithOptions("simple", "id", chi.URLParam(r, "id"), &id, opts)
	if err != nil {
		writeError(w, http.StatusBadRequest, ErrorCodeBadRequest, "Invalid path parameter id: "+err.Error())
		return domidx.Identity{}, false
	}
	return domidx.NewIdentity(recordType, id), true
}

func sourceFromRequest(
	identity domidx.Identity, ids []string, terms []IndexTerm, raw json.RawMessage,
) (domdoc.Source, error) {
	if len(raw) == 0 {
		return domdoc.Source{}, errors.New("record is required")
	}
	g, err := record.Unmarshal(raw)
	if err != nil {
		return domdoc.Source{}, fmt.Errorf("record: %w", err)
	}
	payload, err := record.Marshal(g)
	if err != nil {
		return domdoc.Source{}, fmt.Errorf("record: %w", err)
	}

	out := make([]domidx.Term, 0, len(terms))
	for i, t := range terms {
		if t.Field == "" {
			return domdoc.Source{}, fmt.Errorf("terms[%d]: field is required", i)
		}
		out = append(out, domidx.NewTerm(t.Field, t.Value, domidx.ParseType(t.Type)))
	}

	return domdoc.Source{
		Identity: identity,
		IDs:      ids,
		Terms:    out,
		Payload:  string(payload),
	}, nil
}

func pageToAPI(p result.Page) (SearchResponse, error) {
	resp := SearchResponse{
		Start:   p.Start(),
		Total:   p.Total(),
		Records: make([]json.RawMessage, 0, len(p.Records())),
	}
	for _, g := range p.Records() {
		data, err := record.Marshal(g)
		if err != nil {
			return SearchResponse{}, err
		}
		resp.Records = append(resp.Records, data)
	}
	return resp, nil
}

func bulkResultToAPI(r dombatch.Result) BulkResultItem {
	item := BulkResultItem{
		Type:   r.Identity().Type(),
		ID:     r.Identity().ID(),
		Status: string(r.Status()),
	}
	if r.Err() != nil {
		item.Error = &ErrorResponse{
			Code:    bulkErrorCode(r.Err()),
			Message: safeDomainMessage(r.Err()),
		}
	}
	return item
}

func bulkErrorCode(err error) ErrorCode {
	switch {
	case errors.Is(err, domain.ErrInvalidRequest):
		return ErrorCodeValidationFailed
	case errors.Is(err, domain.ErrIndexing):
		return ErrorCodeIndexingFailed
	default:
		return ErrorCodeInternalError
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code ErrorCode, message string) {
	writeJSON(w, status, ErrorResponse{
		Code:    code,
		Message: message,
	})
}

// safeDomainMessage returns a sentinel error message for the client without exposing internals.
func safeDomainMessage(err error) string {
	var re *domain.RecordError
	if errors.As(err, &re) {
		return fmt.Sprintf("%s with type: %s and id: %s", re.Kind.Error(), re.Type, re.ID)
	}
	sentinels := []error{
		domain.ErrSearchTermNotFound,
		domain.ErrSearch,
		domain.ErrInvalidRequest,
		domain.ErrNotFound,
	}
	for _, s := range sentinels {
		if errors.Is(err, s) {
			return s.Error()
		}
	}
	return "internal error"
}

// sentinelHandler returns an errorHandler that matches a single sentinel error.
func sentinelHandler(sentinel error, status int, code ErrorCode) errorHandler {
	return func(w http.ResponseWriter, err error, msg string) bool {
		if !errors.Is(err, sentinel) {
			return false
		}
		writeError(w, status, code, msg)
		return true
	}
}

func (s *Server) handleDomainError(w http.ResponseWriter, err error) {
	s.logger.Warn("domain error", zap.Error(err))
	msg := safeDomainMessage(err)
	for _, h := range s.errorHandlers {
		if h(w, err, msg) {
			return
		}
	}
	s.logger.Error("internal error", zap.Error(err))
	writeError(w, http.StatusInternalServerError, ErrorCodeInternalError, "internal error")
}
