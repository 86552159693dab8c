package controller

import (
	"context"
	"net/http"

	"go.uber.org/zap"

	"ristorante/internal/domain"
	"ristorante/internal/httpx"
)

type CatalogService interface {
	ListProducts(ctx context.Context, category string) ([]domain.Product, error)
	ListCategories(ctx context.Context) ([]domain.Category, error)
	ListDoughTypes(ctx context.Context) ([]domain.DoughType, error)
	ListExtras(ctx context.Context) ([]domain.Extra, error)
}

type Controller struct {
	service CatalogService
	logger  *zap.Logger
}

func NewController(service CatalogService, logger *zap.Logger) *Controller {
	return &Controller{
		service: service,
		logger:  logger,
	}
}

func (c *Controller) ListProducts(w http.ResponseWriter, r *http.Request) {
	products, err := c.service.ListProducts(r.Context(), r.URL.Query().Get("category"))
	if err != nil {
		httpx.WriteError(w, r, err, c.logger)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, products, c.logger)
}

func (c *Controller) ListCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := c.service.ListCategories(r.Context())
	if err != nil {
		httpx.WriteError(w, r, err, c.logger)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, categories, c.logger)
}

func (c *Controller) ListDoughTypes(w http.ResponseWriter, r *http.Request) {
	doughTypes, err := c.service.ListDoughTypes(r.Context())
	if err != nil {
		httpx.WriteError(w, r, err, c.logger)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, doughTypes, c.logger)
}

func (c *Controller) ListExtras(w http.ResponseWriter, r *http.Request) {
	extras, err := c.service.ListExtras(r.Context())
	if err != nil {
		httpx.WriteError(w, r, err, c.logger)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, extras, c.logger)
}
