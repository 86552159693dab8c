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

type OrderService interface {
	AddItem(ctx context.Context, req dto.AddItemRequest) (*dto.Item, error)
	RemoveItem(ctx context.Context, itemID string) error
	GetActiveOrder(ctx context.Context, tableID string) (*dto.ActiveOrder, error)
	SendOrder(ctx context.Context, orderID string) error
	GetReceipt(ctx context.Context, orderID string) (*dto.Receipt, error)
	CashRegister(ctx context.Context) (*dto.CashRegister, error)
}

type OrderController struct {
	service OrderService
	logger  *zap.Logger
}

func NewOrderController(service OrderService, logger *zap.Logger) *OrderController {
	return &OrderController{
		service: service,
		logger:  logger,
	}
}

func (c *OrderController) AddItem(w http.ResponseWriter, r *http.Request) {
	var req dto.AddItemRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.WriteError(w, r, err, c.logger)
		return
	}

	if err := validateAddItemRequest(req); err != nil {
		httpx.WriteError(w, r, err, c.logger)
		return
	}

	item, err := c.service.AddItem(r.Context(), req)
	if err != nil {
		httpx.WriteError(w, r, err, c.logger)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, dto.AddItemResponse{
		Message: "Item added successfully",
		Item:    *item,
	}, c.logger)
}

func (c *OrderController) RemoveItem(w http.ResponseWriter, r *http.Request) {
	if err := c.service.RemoveItem(r.Context(), chi.URLParam(r, "itemId")); err != nil {
		httpx.WriteError(w, r, err, c.logger)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, dto.MessageResponse{Message: "Item removed successfully"}, c.logger)
}

func (c *OrderController) GetActiveOrder(w http.ResponseWriter, r *http.Request) {
	order, err := c.service.GetActiveOrder(r.Context(), chi.URLParam(r, "tableId"))
	if err != nil {
		httpx.WriteError(w, r, err, c.logger)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, order, c.logger)
}

func (c *OrderController) SendOrder(w http.ResponseWriter, r *http.Request) {
	if err := c.service.SendOrder(r.Context(), chi.URLParam(r, "orderId")); err != nil {
		httpx.WriteError(w, r, err, c.logger)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, dto.MessageResponse{Message: "Order sent successfully"}, c.logger)
}

func (c *OrderController) GetReceipt(w http.ResponseWriter, r *http.Request) {
	receipt, err := c.service.GetReceipt(r.Context(), chi.URLParam(r, "orderId"))
	if err != nil {
		httpx.WriteError(w, r, err, c.logger)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, receipt, c.logger)
}

func (c *OrderController) CashRegister(w http.ResponseWriter, r *http.Request) {
	register, err := c.service.CashRegister(r.Context())
	if err != nil {
		httpx.WriteError(w, r, err, c.logger)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, register, c.logger)
}

func validateAddItemRequest(req dto.AddItemRequest) error {
	var details []apperrors.ValidationDetail

	if strings.TrimSpace(req.TableID) == "" {
		details = append(details, apperrors.ValidationDetail{
			Field:   "table_id",
			Message: "table_id is required",
		})
	}

	if strings.TrimSpace(req.ProductID) == "" {
		details = append(details, apperrors.ValidationDetail{
			Field:   "product_id",
			Message: "product_id is required",
		})
	}

	for _, id := range req.ExtraIDs {
		if strings.TrimSpace(id) == "" {
			details = append(details, apperrors.ValidationDetail{
				Field:   "extra_ids",
				Message: "extra ids must not be empty",
			})
			break
		}
	}

	if len(details) > 0 {
		return apperrors.NewValidationError("validation failed", details...)
	}

	return nil
}
