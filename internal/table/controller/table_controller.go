package controller

import (
	"context"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"ristorante/internal/dto"
	apperrors "ristorante/internal/errors"
	"ristorante/internal/httpx"
)

type TableService interface {
	ListTables(ctx context.Context) ([]dto.TableSummary, error)
	GetTable(ctx context.Context, tableID string) (*dto.TableDetail, error)
	OpenTable(ctx context.Context, tableID string, covers int) (string, error)
	CloseTable(ctx context.Context, tableID string) error
}

type TableController struct {
	service TableService
	logger  *zap.Logger
}

func NewTableController(service TableService, logger *zap.Logger) *TableController {
	return &TableController{
		service: service,
		logger:  logger,
	}
}

func (c *TableController) ListTables(w http.ResponseWriter, r *http.Request) {
	tables, err := c.service.ListTables(r.Context())
	if err != nil {
		httpx.WriteError(w, r, err, c.logger)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, tables, c.logger)
}

func (c *TableController) GetTable(w http.ResponseWriter, r *http.Request) {
	table, err := c.service.GetTable(r.Context(), chi.URLParam(r, "tableId"))
	if err != nil {
		httpx.WriteError(w, r, err, c.logger)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, table, c.logger)
}

func (c *TableController) OpenTable(w http.ResponseWriter, r *http.Request) {
	var req dto.OpenTableRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.WriteError(w, r, err, c.logger)
		return
	}

	if err := validateOpenTableRequest(req); err != nil {
		httpx.WriteError(w, r, err, c.logger)
		return
	}

	orderID, err := c.service.OpenTable(r.Context(), req.TableID, *req.Covers)
	if err != nil {
		httpx.WriteError(w, r, err, c.logger)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, dto.OpenTableResponse{
		Message: "Table opened successfully",
		OrderID: orderID,
	}, c.logger)
}

func (c *TableController) CloseTable(w http.ResponseWriter, r *http.Request) {
	if err := c.service.CloseTable(r.Context(), chi.URLParam(r, "tableId")); err != nil {
		httpx.WriteError(w, r, err, c.logger)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, dto.MessageResponse{Message: "Table closed successfully"}, c.logger)
}

func validateOpenTableRequest(req dto.OpenTableRequest) error {
	var details []apperrors.ValidationDetail

	if strings.TrimSpace(req.TableID) == "" {
		details = append(details, apperrors.ValidationDetail{
			Field:   "table_id",
			Message: "table_id is required",
		})
	}

	if req.Covers == nil {
		details = append(details, apperrors.ValidationDetail{
			Field:   "covers",
			Message: "covers is required",
		})
	} else if *req.Covers < 0 {
		details = append(details, apperrors.ValidationDetail{
			Field:   "covers",
			Message: "covers must be zero or greater",
		})
	}

	if len(details) > 0 {
		return apperrors.NewValidationError("validation failed", details...)
	}

	return nil
}
