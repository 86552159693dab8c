package controller

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"ristorante/internal/domain"
	"ristorante/internal/dto"
	apperrors "ristorante/internal/errors"
)

type mockTableService struct {
	ListTablesFunc func(ctx context.Context) ([]dto.TableSummary, error)
	GetTableFunc   func(ctx context.Context, tableID string) (*dto.TableDetail, error)
	OpenTableFunc  func(ctx context.Context, tableID string, covers int) (string, error)
	CloseTableFunc func(ctx context.Context, tableID string) error
}

func (m *mockTableService) ListTables(ctx context.Context) ([]dto.TableSummary, error) {
	return m.ListTablesFunc(ctx)
}

func (m *mockTableService) GetTable(ctx context.Context, tableID string) (*dto.TableDetail, error) {
	return m.GetTableFunc(ctx, tableID)
}

func (m *mockTableService) OpenTable(ctx context.Context, tableID string, covers int) (string, error) {
	return m.OpenTableFunc(ctx, tableID, covers)
}

func (m *mockTableService) CloseTable(ctx context.Context, tableID string) error {
	return m.CloseTableFunc(ctx, tableID)
}

func newRouter(svc TableService) http.Handler {
	c := NewTableController(svc, zap.NewNop())
	r := chi.NewRouter()
	r.Get("/tables", c.ListTables)
	r.Get("/tables/{tableId}", c.GetTable)
	r.Post("/tables/open", c.OpenTable)
	r.Post("/tables/{tableId}/close", c.CloseTable)
	return r
}

func serve(h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(method, path, strings.NewReader(body)))
	return rec
}

func TestOpenTable_Success(t *testing.T) {
	svc := &mockTableService{
		OpenTableFunc: func(ctx context.Context, tableID string, covers int) (string, error) {
			assert.Equal(t, "t1", tableID)
			assert.Equal(t, 3, covers)
			return "order-1", nil
		},
	}

	rec := serve(newRouter(svc), http.MethodPost, "/tables/open", `{"table_id":"t1","covers":3}`)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"message":"Table opened successfully","order_id":"order-1"}`, rec.Body.String())
}

func TestOpenTable_ValidationErrors(t *testing.T) {
	tests := []struct {
		name   string
		body   string
		fields []string
	}{
		{"invalid json", `{`, []string{"body"}},
		{"empty body", ``, []string{"body"}},
		{"missing fields", `{}`, []string{"table_id", "covers"}},
		{"negative covers", `{"table_id":"t1","covers":-1}`, []string{"covers"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &mockTableService{
				OpenTableFunc: func(ctx context.Context, tableID string, covers int) (string, error) {
					t.Fatal("service must not be called")
					return "", nil
				},
			}

			rec := serve(newRouter(svc), http.MethodPost, "/tables/open", tt.body)
			assert.Equal(t, http.StatusBadRequest, rec.Code)

			var body dto.ErrorResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, "VALIDATION_ERROR", body.Code)

			var fields []string
			for _, d := range body.Details {
				fields = append(fields, d.Field)
			}
			assert.Equal(t, tt.fields, fields)
		})
	}
}

func TestOpenTable_ServiceErrors(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
	}{
		{"not found", apperrors.NewNotFoundError("Table not found"), http.StatusNotFound},
		{"conflict", apperrors.NewConflictError("Table already has an active order"), http.StatusConflict},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &mockTableService{
				OpenTableFunc: func(ctx context.Context, tableID string, covers int) (string, error) {
					return "", tt.err
				},
			}

			rec := serve(newRouter(svc), http.MethodPost, "/tables/open", `{"table_id":"t1","covers":2}`)
			assert.Equal(t, tt.status, rec.Code)
		})
	}
}

func TestGetTable_UsesPathParam(t *testing.T) {
	svc := &mockTableService{
		GetTableFunc: func(ctx context.Context, tableID string) (*dto.TableDetail, error) {
			return &dto.TableDetail{Table: domain.Table{ID: tableID, Number: 7, Status: domain.TableStatusFree}}, nil
		},
	}

	rec := serve(newRouter(svc), http.MethodGet, "/tables/abc", "")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"id":"abc","number":7,"status":"free","covers":0,"use_count":0,"is_closed":false}`, rec.Body.String())
}

func TestListTables_Empty(t *testing.T) {
	svc := &mockTableService{
		ListTablesFunc: func(ctx context.Context) ([]dto.TableSummary, error) {
			return []dto.TableSummary{}, nil
		},
	}

	rec := serve(newRouter(svc), http.MethodGet, "/tables", "")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, rec.Body.String())
}

func TestCloseTable_NotFound(t *testing.T) {
	svc := &mockTableService{
		CloseTableFunc: func(ctx context.Context, tableID string) error {
			return apperrors.NewNotFoundError("Table not found")
		},
	}

	rec := serve(newRouter(svc), http.MethodPost, "/tables/x/close", "")

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "Table not found")
}
