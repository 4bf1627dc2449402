package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/mock/gomock"

	"market-octopus/internal/answer"
	"market-octopus/internal/evidence"
	"market-octopus/internal/intent"
	"market-octopus/internal/storage"
	storagemocks "market-octopus/internal/storage/mocks"
)

func historyRouter(h *HistoryHandler) http.Handler {
	r := chi.NewRouter()
	r.Get("/api/history", h.List)
	r.Get("/api/history/{id}", h.Get)
	return r
}

func TestHistoryList_Paging(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := storagemocks.NewMockHistoryStore(ctrl)
	store.EXPECT().List(gomock.Any(), 2, 4).Return([]storage.HistoryEntry{
		{ID: "a", Question: "질문 A", Scope: "both", CreatedAt: time.Now()},
		{ID: "b", Question: "질문 B", Scope: "domestic", CreatedAt: time.Now()},
	}, nil)

	router := historyRouter(NewHistoryHandler(store))
	req := httptest.NewRequest(http.MethodGet, "/api/history?limit=2&offset=4", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	var resp HistoryListResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(resp.Entries) != 2 || resp.Limit != 2 || resp.Offset != 4 {
		t.Errorf("response = %+v, paging not honored", resp)
	}
}

func TestHistoryList_EmptyIsArray(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := storagemocks.NewMockHistoryStore(ctrl)
	store.EXPECT().List(gomock.Any(), 20, 0).Return(nil, nil)

	router := historyRouter(NewHistoryHandler(store))
	req := httptest.NewRequest(http.MethodGet, "/api/history", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	var resp HistoryListResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Entries == nil {
		t.Error("Entries should encode as an empty array, not null")
	}
}

func TestHistoryGet_Found(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := storagemocks.NewMockHistoryStore(ctrl)
	record := answer.NewRecord("질문", evidence.ScopeBoth, intent.Default(), time.Now())
	store.EXPECT().Get(gomock.Any(), "abc").Return(record, nil)

	router := historyRouter(NewHistoryHandler(store))
	req := httptest.NewRequest(http.MethodGet, "/api/history/abc", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	var loaded answer.Record
	if err := json.Unmarshal(w.Body.Bytes(), &loaded); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if loaded.Question != "질문" {
		t.Errorf("Question = %q, want the stored record", loaded.Question)
	}
}

func TestHistoryGet_NotFound(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := storagemocks.NewMockHistoryStore(ctrl)
	store.EXPECT().Get(gomock.Any(), "missing").
		DoAndReturn(func(ctx context.Context, id string) (*answer.Record, error) {
			return nil, storage.ErrNotFound
		})

	router := historyRouter(NewHistoryHandler(store))
	req := httptest.NewRequest(http.MethodGet, "/api/history/missing", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", w.Code)
	}
}
