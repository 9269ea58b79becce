package searchkit

import (
	"context"

	domanalytics "github.com/kailas-cloud/searchkit/internal/domain/analytics"
	dombatch "github.com/kailas-cloud/searchkit/internal/domain/batch"
	domdoc "github.com/kailas-cloud/searchkit/internal/domain/document"
	domindex "github.com/kailas-cloud/searchkit/internal/domain/index"
	"github.com/kailas-cloud/searchkit/internal/domain/search/request"
	"github.com/kailas-cloud/searchkit/internal/domain/search/result"
	domstats "github.com/kailas-cloud/searchkit/internal/domain/stats"
	domsuggest "github.com/kailas-cloud/searchkit/internal/domain/suggest"
)

// --- indexUseCase mock ---

type mockIndexUC struct {
	createFn func(ctx context.Context, tenantID, name, createdBy string) (domindex.Index, error)
	getFn    func(ctx context.Context, tenantID, name string) (domindex.Index, error)
	listFn   func(ctx context.Context, tenantID string) ([]domindex.Index, error)
	deleteFn func(ctx context.Context, tenantID, name string) error
}

func (m *mockIndexUC) Create(ctx context.Context, tenantID, name, createdBy string) (domindex.Index, error) {
	return m.createFn(ctx, tenantID, name, createdBy)
}

func (m *mockIndexUC) Get(ctx context.Context, tenantID, name string) (domindex.Index, error) {
	return m.getFn(ctx, tenantID, name)
}

func (m *mockIndexUC) List(ctx context.Context, tenantID string) ([]domindex.Index, error) {
	return m.listFn(ctx, tenantID)
}

func (m *mockIndexUC) Delete(ctx context.Context, tenantID, name string) error {
	return m.deleteFn(ctx, tenantID, name)
}

// --- documentUseCase mock ---

type mockDocumentUC struct {
	indexFn  func(ctx context.Context, tenantID, indexName, id string, data map[string]any, boost float64) (domdoc.Document, bool, error)
	getFn    func(ctx context.Context, tenantID, indexName, id string) (domdoc.Document, error)
	deleteFn func(ctx context.Context, tenantID, indexName, id string) (bool, error)
	countFn  func(ctx context.Context, tenantID, indexName string) (int, error)
}

func (m *mockDocumentUC) Index(
	ctx context.Context, tenantID, indexName, id string, data map[string]any, boost float64,
) (domdoc.Document, bool, error) {
	return m.indexFn(ctx, tenantID, indexName, id, data, boost)
}

func (m *mockDocumentUC) Get(ctx context.Context, tenantID, indexName, id string) (domdoc.Document, error) {
	return m.getFn(ctx, tenantID, indexName, id)
}

func (m *mockDocumentUC) Delete(ctx context.Context, tenantID, indexName, id string) (bool, error) {
	return m.deleteFn(ctx, tenantID, indexName, id)
}

func (m *mockDocumentUC) Count(ctx context.Context, tenantID, indexName string) (int, error) {
	return m.countFn(ctx, tenantID, indexName)
}

// --- batchUseCase mock ---

type mockBatchUC struct {
	indexFn  func(ctx context.Context, tenantID, indexName string, items []dombatch.Item) []dombatch.Result
	deleteFn func(ctx context.Context, tenantID, indexName string, ids []string) []dombatch.Result
}

func (m *mockBatchUC) Index(ctx context.Context, tenantID, indexName string, items []dombatch.Item) []dombatch.Result {
	return m.indexFn(ctx, tenantID, indexName, items)
}

func (m *mockBatchUC) Delete(ctx context.Context, tenantID, indexName string, ids []string) []dombatch.Result {
	return m.deleteFn(ctx, tenantID, indexName, ids)
}

// --- searchUseCase mock ---

type mockSearchUC struct {
	searchFn func(ctx context.Context, q *request.Query) (result.Response, error)
}

func (m *mockSearchUC) Search(ctx context.Context, q *request.Query) (result.Response, error) {
	return m.searchFn(ctx, q)
}

// --- suggestUseCase mock ---

type mockSuggestUC struct {
	suggestFn func(ctx context.Context, req domsuggest.Request) (domsuggest.Response, error)
}

func (m *mockSuggestUC) Suggest(ctx context.Context, req domsuggest.Request) (domsuggest.Response, error) {
	return m.suggestFn(ctx, req)
}

// --- statsUseCase / analyticsUseCase mocks ---

type mockStatsUC struct {
	getFn func(ctx context.Context, tenantID, indexName string) (domstats.IndexStats, error)
}

func (m *mockStatsUC) Get(ctx context.Context, tenantID, indexName string) (domstats.IndexStats, error) {
	return m.getFn(ctx, tenantID, indexName)
}

type mockAnalyticsUC struct {
	reportFn func(ctx context.Context, tenantID, indexName string) (domanalytics.Report, error)
}

func (m *mockAnalyticsUC) Report(ctx context.Context, tenantID, indexName string) (domanalytics.Report, error) {
	return m.reportFn(ctx, tenantID, indexName)
}
