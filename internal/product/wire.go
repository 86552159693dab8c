package product

import (
	"go.uber.org/zap"

	"ristorante/internal/product/controller"
	"ristorante/internal/product/service"
	"ristorante/internal/storage"
)

func NewModule(repos *storage.Repositories, logger *zap.Logger) *controller.Controller {
	svc := service.NewService(repos.Catalog)
	return controller.NewController(svc, logger)
}
