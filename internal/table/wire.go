package table

import (
	"go.uber.org/zap"

	"ristorante/internal/storage"
	"ristorante/internal/table/controller"
	"ristorante/internal/table/service"
)

func NewModule(repos *storage.Repositories, locker service.Locker, logger *zap.Logger) *controller.TableController {
	svc := service.NewTableService(repos.Tables, repos.Orders, locker, logger)
	return controller.NewTableController(svc, logger)
}
