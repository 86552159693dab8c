package order

import (
	"go.uber.org/zap"

	"ristorante/internal/order/controller"
	"ristorante/internal/order/service"
	"ristorante/internal/storage"
)

func NewModule(repos *storage.Repositories, publisher service.Publisher, locker service.Locker, logger *zap.Logger) *controller.OrderController {
	svc := service.NewOrderService(
		repos.Orders,
		repos.Catalog,
		repos.Tables,
		publisher,
		locker,
		logger,
	)
	return controller.NewOrderController(svc, logger)
}
