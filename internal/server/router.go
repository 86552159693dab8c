package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	ordercontroller "ristorante/internal/order/controller"
	productcontroller "ristorante/internal/product/controller"
	tablecontroller "ristorante/internal/table/controller"
)

type Handlers struct {
	Tables   *tablecontroller.TableController
	Products *productcontroller.Controller
	Orders   *ordercontroller.OrderController
	Store    StorePinger
	Broker   BrokerPinger
}

func NewRouter(h Handlers, allowedOrigins []string, logger *zap.Logger) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger(logger))
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-Id"},
		ExposedHeaders: []string{"X-Request-Id"},
		MaxAge:         300,
	}))

	r.Method(http.MethodGet, "/health", &healthHandler{store: h.Store, broker: h.Broker, logger: logger})

	r.Route("/api", func(r chi.Router) {
		r.Route("/tables", func(r chi.Router) {
			r.Get("/", h.Tables.ListTables)
			r.Post("/open", h.Tables.OpenTable)
			r.Get("/{tableId}", h.Tables.GetTable)
			r.Post("/{tableId}/close", h.Tables.CloseTable)
		})

		r.Get("/products", h.Products.ListProducts)
		r.Get("/products/categories", h.Products.ListCategories)
		r.Get("/dough-types", h.Products.ListDoughTypes)
		r.Get("/extras", h.Products.ListExtras)

		r.Route("/orders", func(r chi.Router) {
			r.Post("/add-item", h.Orders.AddItem)
			r.Delete("/items/{itemId}", h.Orders.RemoveItem)
			r.Get("/table/{tableId}", h.Orders.GetActiveOrder)
			r.Post("/{orderId}/send", h.Orders.SendOrder)
			r.Get("/{orderId}/receipt", h.Orders.GetReceipt)
		})

		r.Get("/cash-register", h.Orders.CashRegister)
	})

	return r
}
