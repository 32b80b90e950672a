package kvapi_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/ascaixa/treasury-backend/internal/adapters/kvapi"
	"github.com/ascaixa/treasury-backend/internal/apperrors"
	"github.com/ascaixa/treasury-backend/internal/core/domain"
	portsrepo "github.com/ascaixa/treasury-backend/internal/core/ports/repositories"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *kvapi.Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return kvapi.NewClient(server.URL, "test-key", 5*time.Second)
}

func TestClient_ListRecords_Unpaged(t *testing.T) {
	var gotPath, gotKey string
	var gotQuery map[string][]string

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotKey = r.Header.Get("X-API-Key")
		gotQuery = r.URL.Query()
		_ = json.NewEncoder(w).Encode(map[string]any{
			"data": []map[string]any{
				{"_id": "e1", "data": map[string]any{
					"type": "entry", "title": "Mensalidade Ana", "amount": "100",
					"category": "mensalidades", "completed": true,
					"createdAt": "2026-03-10T12:00:00Z",
				}},
			},
		})
	})

	completed := true
	filter := domain.TransactionFilter{Completed: &completed, Title: "mensalidade"}
	records, meta, err := client.ListRecords(context.Background(), domain.CollectionEntries, filter, portsrepo.ListOptions{})

	require.NoError(t, err)
	assert.Equal(t, "/kv/transaction-entries/get-all", gotPath)
	assert.Equal(t, "test-key", gotKey)
	assert.Equal(t, []string{"false"}, gotQuery["pagination"])
	assert.Equal(t, []string{"true"}, gotQuery["completed"])
	assert.Equal(t, []string{"mensalidade"}, gotQuery["title"])
	assert.Nil(t, meta)

	require.Len(t, records, 1)
	assert.Equal(t, "e1", records[0].ID)
	assert.Equal(t, domain.KindEntry, records[0].Kind, "the wire \"type\" field maps to Kind")
	assert.True(t, records[0].Amount.Equal(decimal.NewFromInt(100)))
}

func TestClient_ListRecords_Paged(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "1", r.URL.Query().Get("page"))
		assert.Equal(t, "3", r.URL.Query().Get("limit"))
		_ = json.NewEncoder(w).Encode(map[string]any{
			"data": []map[string]any{},
			"pagination": map[string]any{
				"currentPage": 1, "totalPages": 2, "totalCount": 5,
				"limit": 3, "hasNext": true, "hasPrev": false,
			},
		})
	})

	_, meta, err := client.ListRecords(context.Background(), domain.CollectionExits, domain.TransactionFilter{}, portsrepo.ListOptions{Paged: true, Page: 1, Limit: 3})

	require.NoError(t, err)
	require.NotNil(t, meta)
	assert.Equal(t, domain.PageMeta{CurrentPage: 1, TotalPages: 2, TotalCount: 5, Limit: 3, HasNext: true, HasPrev: false}, *meta)
}

func TestClient_GetRecord_NotFound(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"record not found"}`, http.StatusNotFound)
	})

	txn, err := client.GetRecord(context.Background(), domain.CollectionEntries, "ghost")

	require.Error(t, err)
	assert.Nil(t, txn)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
	assert.NotErrorIs(t, err, apperrors.ErrTransport)
}

func TestClient_ServerErrorMapsToTransport(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"database exploded"}`, http.StatusInternalServerError)
	})

	_, err := client.GetRecord(context.Background(), domain.CollectionEntries, "e1")

	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrTransport)
	assert.Contains(t, err.Error(), "database exploded")
}

func TestClient_NetworkFailureMapsToTransport(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close() // connection refused from here on

	client := kvapi.NewClient(server.URL, "", time.Second)
	_, err := client.GetRecord(context.Background(), domain.CollectionEntries, "e1")

	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrTransport)
}

func TestClient_CountRecords(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/kv/transaction-exits/count", r.URL.Path)
		assert.Equal(t, "exit", r.URL.Query().Get("type"))
		_ = json.NewEncoder(w).Encode(map[string]any{"count": 2})
	})

	kind := domain.KindExit
	count, err := client.CountRecords(context.Background(), domain.CollectionExits, domain.TransactionFilter{Kind: &kind})

	require.NoError(t, err)
	assert.Equal(t, 2, count)
}

func TestClient_EvalRecords(t *testing.T) {
	var gotBody map[string]any
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/kv/transaction-entries/eval", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		_ = json.NewEncoder(w).Encode(map[string]any{
			"operation": "sum", "field": "amount", "result": "125",
		})
	})

	completed := true
	sum, err := client.EvalRecords(context.Background(), domain.CollectionEntries, portsrepo.EvalSum, "amount", domain.TransactionFilter{Completed: &completed})

	require.NoError(t, err)
	assert.True(t, sum.Equal(decimal.NewFromInt(125)))
	assert.Equal(t, "sum", gotBody["operation"])
	assert.Equal(t, "amount", gotBody["field"])
	filters, ok := gotBody["filters"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "true", filters["completed"])
}

func TestClient_CreateRecord_SerializesKindAsType(t *testing.T) {
	var gotBody struct {
		Data map[string]any `json:"data"`
	}
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/kv/transaction-exits/create", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		_ = json.NewEncoder(w).Encode(map[string]any{
			"_id": "x9",
			"data": map[string]any{
				"type": "exit", "title": "Aluguel de som", "amount": "30",
				"category": "equipamentos", "completed": false,
				"createdAt": "2026-03-10T12:00:00Z",
			},
		})
	})

	created, err := client.CreateRecord(context.Background(), domain.CollectionExits, domain.Transaction{
		Kind:      domain.KindExit,
		Title:     "Aluguel de som",
		Amount:    decimal.NewFromInt(30),
		Category:  "equipamentos",
		CreatedAt: time.Date(2026, time.March, 10, 12, 0, 0, 0, time.UTC),
	})

	require.NoError(t, err)
	assert.Equal(t, "x9", created.ID)
	assert.Equal(t, "exit", gotBody.Data["type"])
	_, hasKind := gotBody.Data["kind"]
	assert.False(t, hasKind, "the wire format only knows \"type\"")
}

func TestClient_UpdateRecord(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPatch, r.Method)
		assert.Equal(t, "/kv/transaction-entries/update/e1", r.URL.Path)
		_ = json.NewEncoder(w).Encode(map[string]any{
			"_id": "e1",
			"data": map[string]any{
				"type": "entry", "title": "Atualizada", "amount": "120",
				"category": "mensalidades", "completed": true,
				"createdAt": "2026-03-10T12:00:00Z",
			},
		})
	})

	updated, err := client.UpdateRecord(context.Background(), domain.CollectionEntries, "e1", domain.Transaction{
		Kind: domain.KindEntry, Title: "Atualizada", Amount: decimal.NewFromInt(120), Category: "mensalidades", Completed: true,
	})

	require.NoError(t, err)
	assert.Equal(t, "Atualizada", updated.Title)
	assert.True(t, updated.Amount.Equal(decimal.NewFromInt(120)))
}

func TestClient_DeleteRecord(t *testing.T) {
	var gotMethod, gotPath string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotPath = r.URL.Path
		w.WriteHeader(http.StatusNoContent)
	})

	err := client.DeleteRecord(context.Background(), domain.CollectionExits, "x1")

	require.NoError(t, err)
	assert.Equal(t, http.MethodDelete, gotMethod)
	assert.Equal(t, "/kv/transaction-exits/delete/x1", gotPath)
}
