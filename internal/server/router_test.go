package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"ristorante/internal/domain"
	"ristorante/internal/dto"
	"ristorante/internal/infrastructure/lock"
	"ristorante/internal/order"
	"ristorante/internal/product"
	"ristorante/internal/seed"
	"ristorante/internal/storage"
	"ristorante/internal/table"
)

type recordingBroker struct {
	mu       sync.Mutex
	messages map[string][][]byte
	pingErr  error
}

func (b *recordingBroker) Publish(_ context.Context, queue string, body []byte) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.messages == nil {
		b.messages = map[string][][]byte{}
	}
	b.messages[queue] = append(b.messages[queue], body)
	return nil
}

func (b *recordingBroker) Ping() error { return b.pingErr }

func (b *recordingBroker) count(queue string) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.messages[queue])
}

type failingStore struct{}

func (failingStore) Ping(context.Context) error { return errors.New("connection refused") }

type testEnv struct {
	handler http.Handler
	broker  *recordingBroker
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	return newTestEnvWith(t, storage.NewMemory())
}

// newTestEnvWith seeds repos and serves the full router over them.
func newTestEnvWith(t *testing.T, repos *storage.Repositories) *testEnv {
	t.Helper()

	logger := zap.NewNop()
	require.NoError(t, seed.NewInitializer(repos.Tables, repos.Catalog, logger).Run(context.Background()))

	broker := &recordingBroker{}
	locker := lock.NewKeyed()

	handler := NewRouter(Handlers{
		Tables:   table.NewModule(repos, locker, logger),
		Products: product.NewModule(repos, logger),
		Orders:   order.NewModule(repos, broker, locker, logger),
		Store:    repos,
		Broker:   broker,
	}, []string{"*"}, logger)

	return &testEnv{handler: handler, broker: broker}
}

func (e *testEnv) do(t *testing.T, method, path, body string, out any) int {
	t.Helper()

	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	e.handler.ServeHTTP(rec, req)

	if out != nil {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), out), rec.Body.String())
	}
	return rec.Code
}

func (e *testEnv) tableByNumber(t *testing.T, number int) dto.TableSummary {
	t.Helper()

	var tables []dto.TableSummary
	require.Equal(t, http.StatusOK, e.do(t, http.MethodGet, "/api/tables", "", &tables))
	for _, tbl := range tables {
		if tbl.Number == number {
			return tbl
		}
	}
	t.Fatalf("table %d not found", number)
	return dto.TableSummary{}
}

func (e *testEnv) productByName(t *testing.T, name string) domain.Product {
	t.Helper()

	var products []domain.Product
	require.Equal(t, http.StatusOK, e.do(t, http.MethodGet, "/api/products", "", &products))
	for _, p := range products {
		if p.Name == name {
			return p
		}
	}
	t.Fatalf("product %q not found", name)
	return domain.Product{}
}

func (e *testEnv) extraByName(t *testing.T, name string) domain.Extra {
	t.Helper()

	var extras []domain.Extra
	require.Equal(t, http.StatusOK, e.do(t, http.MethodGet, "/api/extras", "", &extras))
	for _, x := range extras {
		if x.Name == name {
			return x
		}
	}
	t.Fatalf("extra %q not found", name)
	return domain.Extra{}
}

func TestRouter_FullTableLifecycle(t *testing.T) {
	env := newTestEnv(t)

	tbl := env.tableByNumber(t, 1)
	carbonara := env.productByName(t, "Spaghetti alla Carbonara")
	margherita := env.productByName(t, "Margherita")
	bufala := env.extraByName(t, "Bufala")

	var opened dto.OpenTableResponse
	code := env.do(t, http.MethodPost, "/api/tables/open", `{"table_id":"`+tbl.ID+`","covers":3}`, &opened)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "Table opened successfully", opened.Message)
	require.NotEmpty(t, opened.OrderID)

	var added dto.AddItemResponse
	code = env.do(t, http.MethodPost, "/api/orders/add-item",
		`{"table_id":"`+tbl.ID+`","product_id":"`+carbonara.ID+`"}`, &added)
	require.Equal(t, http.StatusOK, code)
	carbonaraItemID := added.Item.ID
	assert.Equal(t, 14.0, added.Item.TotalPrice)

	code = env.do(t, http.MethodPost, "/api/orders/add-item",
		`{"table_id":"`+tbl.ID+`","product_id":"`+margherita.ID+`","dough_type":"Cereali","extra_ids":["`+bufala.ID+`"]}`, &added)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, 13.0, added.Item.TotalPrice)
	assert.Equal(t, []string{"Cereali", "Bufala"}, added.Item.Customizations)

	var active dto.ActiveOrder
	require.Equal(t, http.StatusOK, env.do(t, http.MethodGet, "/api/orders/table/"+tbl.ID, "", &active))
	assert.Equal(t, opened.OrderID, active.Order.ID)
	assert.Len(t, active.Items, 2)
	assert.Equal(t, 27.0, active.Total)

	summary := env.tableByNumber(t, 1)
	assert.Equal(t, domain.TableStatusOccupied, summary.Status)
	assert.Equal(t, 3, summary.Covers)
	assert.Equal(t, 1, summary.UseCount)
	assert.Equal(t, 2, summary.ItemsCount)
	assert.Equal(t, 27.0, summary.Total)

	require.Equal(t, http.StatusOK, env.do(t, http.MethodDelete, "/api/orders/items/"+carbonaraItemID, "", nil))
	require.Equal(t, http.StatusOK, env.do(t, http.MethodGet, "/api/orders/table/"+tbl.ID, "", &active))
	assert.Len(t, active.Items, 1)
	assert.Equal(t, 13.0, active.Total)

	var msg dto.MessageResponse
	require.Equal(t, http.StatusOK, env.do(t, http.MethodPost, "/api/orders/"+opened.OrderID+"/send", "", &msg))
	assert.Equal(t, "Order sent successfully", msg.Message)
	assert.Equal(t, 1, env.broker.count("pizzeria.tickets"))
	assert.Equal(t, 0, env.broker.count("kitchen.tickets"))

	// a second send succeeds without publishing again
	require.Equal(t, http.StatusOK, env.do(t, http.MethodPost, "/api/orders/"+opened.OrderID+"/send", "", nil))
	assert.Equal(t, 1, env.broker.count("pizzeria.tickets"))

	var receipt dto.Receipt
	require.Equal(t, http.StatusOK, env.do(t, http.MethodGet, "/api/orders/"+opened.OrderID+"/receipt", "", &receipt))
	assert.True(t, receipt.Order.IsSent)
	require.NotNil(t, receipt.Table)
	assert.Equal(t, 1, receipt.Table.Number)
	assert.Empty(t, receipt.KitchenItems)
	assert.Len(t, receipt.PizzeriaItems, 1)
	assert.Empty(t, receipt.GlutenFreeItems)
	assert.Equal(t, map[string]int{"Cereali": 1}, receipt.DoughSummary)
	assert.Equal(t, 13.0, receipt.Total)

	require.Equal(t, http.StatusOK, env.do(t, http.MethodPost, "/api/tables/"+tbl.ID+"/close", "", &msg))
	assert.Equal(t, "Table closed successfully", msg.Message)

	summary = env.tableByNumber(t, 1)
	assert.Equal(t, domain.TableStatusFree, summary.Status)
	assert.Equal(t, 0, summary.Covers)
	assert.Equal(t, 1, summary.UseCount)
	assert.Equal(t, 0, summary.ItemsCount)

	var register dto.CashRegister
	require.Equal(t, http.StatusOK, env.do(t, http.MethodGet, "/api/cash-register", "", &register))
	require.Len(t, register.ClosedOrders, 1)
	assert.Equal(t, opened.OrderID, register.ClosedOrders[0].OrderID)
	assert.Equal(t, 1, register.ClosedOrders[0].TableNumber)
	assert.Equal(t, 13.0, register.TotalRevenue)

	code = env.do(t, http.MethodPost, "/api/tables/open", `{"table_id":"`+tbl.ID+`","covers":2}`, &opened)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, 2, env.tableByNumber(t, 1).UseCount)
}

func TestRouter_OpenOccupiedTableConflicts(t *testing.T) {
	env := newTestEnv(t)
	tbl := env.tableByNumber(t, 4)

	require.Equal(t, http.StatusOK, env.do(t, http.MethodPost, "/api/tables/open", `{"table_id":"`+tbl.ID+`","covers":2}`, nil))

	var errResp dto.ErrorResponse
	code := env.do(t, http.MethodPost, "/api/tables/open", `{"table_id":"`+tbl.ID+`","covers":2}`, &errResp)
	assert.Equal(t, http.StatusConflict, code)
	assert.Equal(t, "CONFLICT", errResp.Code)
	assert.NotEmpty(t, errResp.TraceID)
	assert.Equal(t, 1, env.tableByNumber(t, 4).UseCount)
}

func TestRouter_NotFoundAndValidation(t *testing.T) {
	env := newTestEnv(t)

	tests := []struct {
		name     string
		method   string
		path     string
		body     string
		wantCode int
		wantErr  string
	}{
		{"unknown table", http.MethodGet, "/api/tables/missing", "", http.StatusNotFound, "NOT_FOUND"},
		{"open unknown table", http.MethodPost, "/api/tables/open", `{"table_id":"missing","covers":2}`, http.StatusNotFound, "NOT_FOUND"},
		{"no active order", http.MethodGet, "/api/orders/table/missing", "", http.StatusNotFound, "NOT_FOUND"},
		{"send unknown order", http.MethodPost, "/api/orders/missing/send", "", http.StatusNotFound, "NOT_FOUND"},
		{"receipt unknown order", http.MethodGet, "/api/orders/missing/receipt", "", http.StatusNotFound, "NOT_FOUND"},
		{"remove unknown item", http.MethodDelete, "/api/orders/items/missing", "", http.StatusNotFound, "NOT_FOUND"},
		{"invalid json", http.MethodPost, "/api/tables/open", `{`, http.StatusBadRequest, "VALIDATION_ERROR"},
		{"missing covers", http.MethodPost, "/api/tables/open", `{"table_id":"x"}`, http.StatusBadRequest, "VALIDATION_ERROR"},
		{"missing product", http.MethodPost, "/api/orders/add-item", `{"table_id":"x"}`, http.StatusBadRequest, "VALIDATION_ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var errResp dto.ErrorResponse
			code := env.do(t, tt.method, tt.path, tt.body, &errResp)
			assert.Equal(t, tt.wantCode, code)
			assert.Equal(t, tt.wantErr, errResp.Code)
			assert.Equal(t, tt.wantCode, errResp.Status)
		})
	}
}

func TestRouter_CatalogEndpoints(t *testing.T) {
	env := newTestEnv(t)

	var categories []string
	require.Equal(t, http.StatusOK, env.do(t, http.MethodGet, "/api/products/categories", "", &categories))
	assert.Equal(t, []string{"antipasti", "pasta", "pizza", "dessert"}, categories)

	var pizzas []domain.Product
	require.Equal(t, http.StatusOK, env.do(t, http.MethodGet, "/api/products?category=pizza", "", &pizzas))
	assert.Len(t, pizzas, 6)

	var doughs []domain.DoughType
	require.Equal(t, http.StatusOK, env.do(t, http.MethodGet, "/api/dough-types", "", &doughs))
	assert.Len(t, doughs, 4)

	var register dto.CashRegister
	require.Equal(t, http.StatusOK, env.do(t, http.MethodGet, "/api/cash-register", "", &register))
	assert.NotNil(t, register.ClosedOrders)
	assert.Zero(t, register.TotalRevenue)
}

func TestRouter_Health(t *testing.T) {
	env := newTestEnv(t)

	var health dto.HealthResponse
	require.Equal(t, http.StatusOK, env.do(t, http.MethodGet, "/health", "", &health))
	assert.Equal(t, "healthy", health.Status)
	assert.Equal(t, "ok", health.Services["database"])
}

func TestHealth_Unhealthy(t *testing.T) {
	h := &healthHandler{
		store:  failingStore{},
		broker: &recordingBroker{},
		logger: zap.NewNop(),
	}

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	var health dto.HealthResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &health))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Equal(t, "unhealthy", health.Status)
	assert.Equal(t, "error", health.Services["database"])
	assert.Equal(t, "ok", health.Services["queue"])
}

func TestRouter_CORSPreflight(t *testing.T) {
	env := newTestEnv(t)

	req := httptest.NewRequest(http.MethodOptions, "/api/tables", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	rec := httptest.NewRecorder()
	env.handler.ServeHTTP(rec, req)

	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestRouter_GetOpenTableWithoutItems(t *testing.T) {
	env := newTestEnv(t)
	tbl := env.tableByNumber(t, 2)

	rec := httptest.NewRecorder()
	env.handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/tables/"+tbl.ID, nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotContains(t, rec.Body.String(), `"items"`)
	assert.NotContains(t, rec.Body.String(), `"active_order"`)

	require.Equal(t, http.StatusOK, env.do(t, http.MethodPost, "/api/tables/open", `{"table_id":"`+tbl.ID+`","covers":2}`, nil))

	rec = httptest.NewRecorder()
	env.handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/tables/"+tbl.ID, nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"items":[]`)

	var detail map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &detail))
	assert.NotNil(t, detail["active_order"])
	assert.Equal(t, []any{}, detail["items"])
}

func TestRouter_ConcurrentOpensSeatOnce(t *testing.T) {
	env := newTestEnv(t)
	tbl := env.tableByNumber(t, 7)

	const attempts = 20
	var (
		wg        sync.WaitGroup
		ok        atomic.Int32
		conflicts atomic.Int32
		start     = make(chan struct{})
	)
	body := `{"table_id":"` + tbl.ID + `","covers":2}`
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			<-start
			rec := httptest.NewRecorder()
			env.handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/tables/open", strings.NewReader(body)))
			switch rec.Code {
			case http.StatusOK:
				ok.Add(1)
			case http.StatusConflict:
				conflicts.Add(1)
			}
		}()
	}
	close(start)
	wg.Wait()

	assert.Equal(t, int32(1), ok.Load())
	assert.Equal(t, int32(attempts-1), conflicts.Load())

	summary := env.tableByNumber(t, 7)
	assert.Equal(t, 1, summary.UseCount)
	assert.Equal(t, domain.TableStatusOccupied, summary.Status)
}

// closedOrderGuard fails an insert that targets an already closed order.
type closedOrderGuard struct {
	storage.OrderRepository
	lateInserts atomic.Int32
}

func (g *closedOrderGuard) InsertItem(ctx context.Context, item domain.OrderItem) error {
	order, err := g.FindByID(ctx, item.OrderID)
	if err != nil {
		return err
	}
	if order.IsClosed {
		g.lateInserts.Add(1)
	}
	return g.OrderRepository.InsertItem(ctx, item)
}

func TestRouter_CloseAndAddItemDoNotInterleave(t *testing.T) {
	repos := storage.NewMemory()
	guard := &closedOrderGuard{OrderRepository: repos.Orders}
	repos.Orders = guard
	env := newTestEnvWith(t, repos)

	tbl := env.tableByNumber(t, 9)
	carbonara := env.productByName(t, "Spaghetti alla Carbonara")

	var opened dto.OpenTableResponse
	require.Equal(t, http.StatusOK, env.do(t, http.MethodPost, "/api/tables/open", `{"table_id":"`+tbl.ID+`","covers":2}`, &opened))

	const adds = 30
	var (
		wg      sync.WaitGroup
		added   atomic.Int32
		refused atomic.Int32
		other   atomic.Int32
		start   = make(chan struct{})
	)
	addBody := `{"table_id":"` + tbl.ID + `","product_id":"` + carbonara.ID + `"}`
	for i := 0; i < adds; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			<-start
			rec := httptest.NewRecorder()
			env.handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/orders/add-item", strings.NewReader(addBody)))
			switch rec.Code {
			case http.StatusOK:
				added.Add(1)
			case http.StatusNotFound:
				refused.Add(1)
			default:
				other.Add(1)
			}
		}()
	}
	wg.Add(1)
	go func() {
		defer wg.Done()
		<-start
		rec := httptest.NewRecorder()
		env.handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/tables/"+tbl.ID+"/close", nil))
		if rec.Code != http.StatusOK {
			other.Add(1)
		}
	}()
	close(start)
	wg.Wait()

	assert.Zero(t, guard.lateInserts.Load())
	assert.Zero(t, other.Load())
	assert.Equal(t, int32(adds), added.Load()+refused.Load())

	var receipt dto.Receipt
	require.Equal(t, http.StatusOK, env.do(t, http.MethodGet, "/api/orders/"+opened.OrderID+"/receipt", "", &receipt))
	assert.True(t, receipt.Order.IsClosed)
	assert.Len(t, receipt.KitchenItems, int(added.Load()))
	assert.Equal(t, domain.TableStatusFree, env.tableByNumber(t, 9).Status)
}
