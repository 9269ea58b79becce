package chi

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	gochi "github.com/go-chi/chi/v5"
	"github.com/oapi-codegen/runtime"
	"go.uber.org/zap"

	"github.com/kailas-cloud/searchkit/internal/domain"
	domanalytics "github.com/kailas-cloud/searchkit/internal/domain/analytics"
	dombatch "github.com/kailas-cloud/searchkit/internal/domain/batch"
	domdoc "github.com/kailas-cloud/searchkit/internal/domain/document"
	domindex "github.com/kailas-cloud/searchkit/internal/domain/index"
	"github.com/kailas-cloud/searchkit/internal/domain/search/filter"
	"github.com/kailas-cloud/searchkit/internal/domain/search/request"
	"github.com/kailas-cloud/searchkit/internal/domain/search/result"
	"github.com/kailas-cloud/searchkit/internal/domain/search/sortby"
	domstats "github.com/kailas-cloud/searchkit/internal/domain/stats"
	domsuggest "github.com/kailas-cloud/searchkit/internal/domain/suggest"
	logpkg "github.com/kailas-cloud/searchkit/internal/logger"
	analyticsuc "github.com/kailas-cloud/searchkit/internal/usecase/analytics"
	batchuc "github.com/kailas-cloud/searchkit/internal/usecase/batch"
	documentuc "github.com/kailas-cloud/searchkit/internal/usecase/document"
	healthuc "github.com/kailas-cloud/searchkit/internal/usecase/health"
	indexuc "github.com/kailas-cloud/searchkit/internal/usecase/index"
	searchuc "github.com/kailas-cloud/searchkit/internal/usecase/search"
	statsuc "github.com/kailas-cloud/searchkit/internal/usecase/stats"
	suggestuc "github.com/kailas-cloud/searchkit/internal/usecase/suggest"
	"github.com/kailas-cloud/searchkit/internal/version"
)

// errorHandler tries to handle a domain error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error, msg string) bool

// Services bundles the use cases served over HTTP.
type Services struct {
	Indexes   *indexuc.Service
	Documents *documentuc.Service
	Batch     *batchuc.Service
	Search    *searchuc.Service
	Suggest   *suggestuc.Service
	Stats     *statsuc.Service
	Analytics *analyticsuc.Service
	Health    *healthuc.Service
}

// Server is the HTTP API of the search engine.
type Server struct {
	svc           Services
	logger        *zap.Logger
	errorHandlers []errorHandler
}

// NewServer creates an HTTP API server.
func NewServer(svc Services, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Server{
		svc:    svc,
		logger: logger,
		errorHandlers: []errorHandler{
			sentinelHandler(domain.ErrDocumentNotFound, http.StatusNotFound, ErrorCodeDocumentNotFound),
			sentinelHandler(domain.ErrNotFound, http.StatusNotFound, ErrorCodeIndexNotFound),
			sentinelHandler(domain.ErrAlreadyExists, http.StatusConflict, ErrorCodeIndexAlreadyExists),
			sentinelHandler(domain.ErrQuotaExceeded, http.StatusTooManyRequests, ErrorCodeQuotaExceeded),
			sentinelHandler(domain.ErrInvalidSchema, http.StatusBadRequest, ErrorCodeValidationFailed),
		},
	}
}

// Register mounts every API route on r.
func (s *Server) Register(r gochi.Router) {
	r.Get("/health", s.HealthCheck)

	r.Route("/tenants/{tenant}/indexes", func(r gochi.Router) {
		r.Post("/", s.CreateIndex)
		r.Get("/", s.ListIndexes)

		r.Route("/{index}", func(r gochi.Router) {
			r.Use(indexLogging)

			r.Get("/", s.GetIndex)
			r.Delete("/", s.DeleteIndex)

			r.Post("/documents/batch", s.BatchUpsert)
			r.Post("/documents/batch-delete", s.BatchDelete)
			r.Put("/documents/{id}", s.UpsertDocument)
			r.Get("/documents/{id}", s.GetDocument)
			r.Delete("/documents/{id}", s.DeleteDocument)

			r.Post("/search", s.SearchDocuments)
			r.Get("/suggest", s.Suggest)
			r.Get("/stats", s.GetStats)
			r.Get("/analytics", s.GetAnalytics)
		})
	})
}

// CreateIndex handles POST /tenants/{tenant}/indexes.
func (s *Server) CreateIndex(w http.ResponseWriter, r *http.Request) {
	var req CreateIndexRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.Name == "" {
		writeError(w, http.StatusBadRequest, ErrorCodeValidationFailed, "Index name is required")
		return
	}

	idx, err := s.svc.Indexes.Create(r.Context(), tenantParam(r), req.Name, req.CreatedBy)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	w.Header().Set("Location", fmt.Sprintf("/tenants/%s/indexes/%s", idx.TenantID(), idx.Name()))
	writeJSON(w, http.StatusCreated, indexToDTO(idx, nil))
}

// ListIndexes handles GET /tenants/{tenant}/indexes.
func (s *Server) ListIndexes(w http.ResponseWriter, r *http.Request) {
	list, err := s.svc.Indexes.List(r.Context(), tenantParam(r))
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	items := make([]IndexResponse, len(list))
	for i, idx := range list {
		items[i] = indexToDTO(idx, nil)
	}
	writeJSON(w, http.StatusOK, IndexListResponse{Items: items, Total: len(items)})
}

// GetIndex handles GET /tenants/{tenant}/indexes/{index}.
func (s *Server) GetIndex(w http.ResponseWriter, r *http.Request) {
	tenant, name := tenantParam(r), indexParam(r)
	idx, err := s.svc.Indexes.Get(r.Context(), tenant, name)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	var count *int
	if n, err := s.svc.Documents.Count(r.Context(), tenant, name); err == nil {
		count = &n
	}
	writeJSON(w, http.StatusOK, indexToDTO(idx, count))
}

// DeleteIndex handles DELETE /tenants/{tenant}/indexes/{index}.
func (s *Server) DeleteIndex(w http.ResponseWriter, r *http.Request) {
	if err := s.svc.Indexes.Delete(r.Context(), tenantParam(r), indexParam(r)); err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// UpsertDocument handles PUT .../documents/{id}.
func (s *Server) UpsertDocument(w http.ResponseWriter, r *http.Request) {
	var req UpsertDocumentRequest
	if !decodeBody(w, r, &req) {
		return
	}

	doc, created, err := s.svc.Documents.Index(
		r.Context(), tenantParam(r), indexParam(r), gochi.URLParam(r, "id"), req.Data, derefFloat(req.Boost),
	)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	writeJSON(w, status, documentToDTO(&doc))
}

// GetDocument handles GET .../documents/{id}.
func (s *Server) GetDocument(w http.ResponseWriter, r *http.Request) {
	doc, err := s.svc.Documents.Get(r.Context(), tenantParam(r), indexParam(r), gochi.URLParam(r, "id"))
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, documentToDTO(&doc))
}

// DeleteDocument handles DELETE .../documents/{id}.
func (s *Server) DeleteDocument(w http.ResponseWriter, r *http.Request) {
	id := gochi.URLParam(r, "id")
	deleted, err := s.svc.Documents.Delete(r.Context(), tenantParam(r), indexParam(r), id)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	if !deleted {
		s.handleDomainError(w, r, fmt.Errorf("document %q: %w", id, domain.ErrDocumentNotFound))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// BatchUpsert handles POST .../documents/batch.
func (s *Server) BatchUpsert(w http.ResponseWriter, r *http.Request) {
	var req BatchUpsertRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if len(req.Documents) == 0 {
		writeError(w, http.StatusBadRequest, ErrorCodeValidationFailed, "documents must not be empty")
		return
	}

	items := make([]dombatch.Item, len(req.Documents))
	for i, d := range req.Documents {
		items[i] = dombatch.Item{ID: d.ID, Data: d.Data, Boost: derefFloat(d.Boost)}
	}

	results := s.svc.Batch.Index(r.Context(), tenantParam(r), indexParam(r), items)
	writeJSON(w, http.StatusOK, batchToDTO(results, true))
}

// BatchDelete handles POST .../documents/batch-delete.
func (s *Server) BatchDelete(w http.ResponseWriter, r *http.Request) {
	var req BatchDeleteRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if len(req.IDs) == 0 {
		writeError(w, http.StatusBadRequest, ErrorCodeValidationFailed, "ids must not be empty")
		return
	}

	results := s.svc.Batch.Delete(r.Context(), tenantParam(r), indexParam(r), req.IDs)
	writeJSON(w, http.StatusOK, batchToDTO(results, false))
}

// SearchDocuments handles POST .../search.
func (s *Server) SearchDocuments(w http.ResponseWriter, r *http.Request) {
	var req SearchRequest
	if !decodeBody(w, r, &req) {
		return
	}

	q, err := searchQueryFromDTO(tenantParam(r), indexParam(r), req)
	if err != nil {
		writeError(w, http.StatusBadRequest, ErrorCodeValidationFailed, err.Error())
		return
	}

	resp, err := s.svc.Search.Search(r.Context(), &q)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, searchResponseToDTO(resp))
}

// Suggest handles GET .../suggest?field=&prefix=&size=.
func (s *Server) Suggest(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	var (
		field  string
		prefix string
		size   int
	)
	if err := runtime.BindQueryParameter("form", true, true, "field", query, &field); err != nil {
		writeError(w, http.StatusBadRequest, ErrorCodeBadRequest, "Invalid format for parameter field: "+err.Error())
		return
	}
	if err := runtime.BindQueryParameter("form", true, false, "prefix", query, &prefix); err != nil {
		writeError(w, http.StatusBadRequest, ErrorCodeBadRequest, "Invalid format for parameter prefix: "+err.Error())
		return
	}
	if err := runtime.BindQueryParameter("form", true, false, "size", query, &size); err != nil {
		writeError(w, http.StatusBadRequest, ErrorCodeBadRequest, "Invalid format for parameter size: "+err.Error())
		return
	}

	req, err := domsuggest.NewRequest(tenantParam(r), indexParam(r), field, prefix, size)
	if err != nil {
		writeError(w, http.StatusBadRequest, ErrorCodeValidationFailed, err.Error())
		return
	}

	resp, err := s.svc.Suggest.Suggest(r.Context(), req)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, SuggestResponse{Suggestions: resp.Suggestions, TookMs: resp.TookMs})
}

// GetStats handles GET .../stats.
func (s *Server) GetStats(w http.ResponseWriter, r *http.Request) {
	st, err := s.svc.Stats.Get(r.Context(), tenantParam(r), indexParam(r))
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, statsToDTO(st))
}

// GetAnalytics handles GET .../analytics.
func (s *Server) GetAnalytics(w http.ResponseWriter, r *http.Request) {
	rep, err := s.svc.Analytics.Report(r.Context(), tenantParam(r), indexParam(r))
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, analyticsToDTO(rep))
}

// HealthCheck handles GET /health.
func (s *Server) HealthCheck(w http.ResponseWriter, r *http.Request) {
	report := s.svc.Health.Check(r.Context())

	checks := make(map[string]string, len(report.Checks))
	for k, v := range report.Checks {
		checks[k] = string(v)
	}

	httpStatus := http.StatusOK
	if report.Status != healthuc.Healthy {
		httpStatus = http.StatusServiceUnavailable
	}

	writeJSON(w, httpStatus, HealthResponse{
		Status:         string(report.Status),
		Checks:         checks,
		ClusterHealth:  string(report.ClusterHealth),
		TotalIndexes:   report.TotalIndexes,
		TotalDocuments: report.TotalDocuments,
		AvgQueryTimeMs: report.AvgQueryTimeMs,
		UptimeSeconds:  report.Uptime.Seconds(),
		Version:        version.String(),
	})
}

func tenantParam(r *http.Request) string { return gochi.URLParam(r, "tenant") }

func indexParam(r *http.Request) string { return gochi.URLParam(r, "index") }

func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, ErrorCodeBadRequest, "Invalid request body: "+err.Error())
		return false
	}
	return true
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
	sentinels := []error{
		domain.ErrDocumentNotFound,
		domain.ErrNotFound,
		domain.ErrAlreadyExists,
		domain.ErrQuotaExceeded,
		domain.ErrInvalidSchema,
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

func (s *Server) handleDomainError(w http.ResponseWriter, r *http.Request, err error) {
	logger := s.requestLogger(r)
	logger.Warn("domain error", zap.Error(err))
	msg := safeDomainMessage(err)
	for _, h := range s.errorHandlers {
		if h(w, err, msg) {
			return
		}
	}
	logger.Error("internal error", zap.Error(err))
	writeError(w, http.StatusInternalServerError, ErrorCodeInternalError, "internal error")
}

// requestLogger prefers the request-scoped logger placed by the logging
// middleware.
func (s *Server) requestLogger(r *http.Request) *zap.Logger {
	return logpkg.FromContextOr(r.Context(), s.logger)
}

// indexLogging tags the request logger with the addressed tenant and index.
func indexLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := logpkg.WithIndex(r.Context(), tenantParam(r), indexParam(r))
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func indexToDTO(idx domindex.Index, count *int) IndexResponse {
	return IndexResponse{
		ID:            idx.ID(),
		TenantID:      idx.TenantID(),
		Name:          idx.Name(),
		CreatedBy:     idx.CreatedBy(),
		CreatedAt:     idx.CreatedAt(),
		UpdatedAt:     idx.UpdatedAt(),
		DocumentCount: count,
	}
}

func documentToDTO(doc *domdoc.Document) DocumentResponse {
	return DocumentResponse{
		ID:        doc.ID(),
		Data:      doc.Data(),
		Boost:     doc.Boost(),
		CreatedAt: doc.CreatedAt(),
		UpdatedAt: doc.UpdatedAt(),
	}
}

func batchToDTO(results []dombatch.Result, withCreated bool) BatchResponse {
	resp := BatchResponse{Items: make([]BatchResultItem, len(results))}
	for i, res := range results {
		item := BatchResultItem{ID: res.ID(), Status: BatchResultStatus(res.Status())}
		if res.Err() != nil {
			item.Error = &ErrorResponse{Code: batchErrorCode(res.Err()), Message: safeDomainMessage(res.Err())}
			resp.Failed++
		} else {
			resp.Succeeded++
			if withCreated {
				created := res.Created()
				item.Created = &created
			}
		}
		resp.Items[i] = item
	}
	return resp
}

func batchErrorCode(err error) ErrorCode {
	switch {
	case errors.Is(err, domain.ErrDocumentNotFound):
		return ErrorCodeDocumentNotFound
	case errors.Is(err, domain.ErrNotFound):
		return ErrorCodeIndexNotFound
	case errors.Is(err, domain.ErrQuotaExceeded):
		return ErrorCodeQuotaExceeded
	case errors.Is(err, domain.ErrInvalidSchema):
		return ErrorCodeValidationFailed
	default:
		return ErrorCodeInternalError
	}
}

func searchQueryFromDTO(tenantID, indexName string, req SearchRequest) (request.Query, error) {
	filters, err := filter.New(req.Filters)
	if err != nil {
		return request.Query{}, fmt.Errorf("parse filters: %w", err)
	}

	sort := make([]sortby.Field, 0, len(req.Sort))
	for _, raw := range req.Sort {
		f, err := sortby.Parse(raw)
		if err != nil {
			return request.Query{}, fmt.Errorf("parse sort: %w", err)
		}
		sort = append(sort, f)
	}

	q, err := request.New(tenantID, indexName, req.Query, filters, req.Facets, req.FacetSize, sort, req.From, req.Size)
	if err != nil {
		return request.Query{}, fmt.Errorf("build search request: %w", err)
	}
	return q, nil
}

func searchResponseToDTO(resp result.Response) SearchResponse {
	hits := make([]SearchHit, len(resp.Hits))
	for i, h := range resp.Hits {
		hits[i] = SearchHit{ID: h.ID, Score: h.Score, Source: h.Source, Highlight: h.Highlight}
	}

	facets := make([]Facet, len(resp.Facets))
	for i, f := range resp.Facets {
		values := make([]FacetValue, len(f.Values))
		for j, v := range f.Values {
			values[j] = FacetValue{Value: v.Value, Count: v.Count}
		}
		facets[i] = Facet{Field: f.Field, Values: values, Missing: f.Missing}
	}

	suggestions := resp.Suggestions
	if suggestions == nil {
		suggestions = map[string][]string{}
	}

	return SearchResponse{
		Hits:        hits,
		TotalHits:   resp.TotalHits,
		MaxScore:    resp.MaxScore,
		Facets:      facets,
		TookMs:      resp.TookMs,
		TimedOut:    resp.TimedOut,
		From:        resp.From,
		Size:        resp.Size,
		Suggestions: suggestions,
	}
}

func statsToDTO(st domstats.IndexStats) StatsResponse {
	return StatsResponse{
		DocumentCount:        st.DocumentCount,
		DeletedDocumentCount: st.DeletedDocumentCount,
		StoreSizeBytes:       st.StoreSizeBytes,
		QueryTotal:           st.QueryTotal,
		QueryTimeMs:          st.QueryTimeMs,
		IndexingTotal:        st.IndexingTotal,
		IndexingTimeMs:       st.IndexingTimeMs,
		AvgQueryTimeMs:       st.AvgQueryTimeMs,
		QueriesPerSecond:     st.QueriesPerSecond,
		FieldStats:           st.FieldStats,
		LastUpdated:          st.LastUpdated,
	}
}

func analyticsToDTO(rep domanalytics.Report) AnalyticsResponse {
	terms := make([]TermCount, len(rep.TopTerms))
	for i, t := range rep.TopTerms {
		terms[i] = TermCount{Term: t.Term, Count: t.Count}
	}
	recent := rep.RecentZeroResults
	if recent == nil {
		recent = []string{}
	}
	return AnalyticsResponse{
		TotalQueries:      rep.TotalQueries,
		ZeroResultQueries: rep.ZeroResultQueries,
		AvgLatencyMs:      rep.AvgLatencyMs,
		TopTerms:          terms,
		RecentZeroResults: recent,
	}
}

func derefFloat(p *float64) float64 {
	if p == nil {
		return 0
	}
	return *p
}
