// Package httptransport is the thin HTTP layer. Handlers decode, delegate to
// domain services, and encode; every permission decision stays in the
// services.
package httptransport

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"authchain/internal/custody"
	"authchain/internal/inventory"
	"authchain/internal/manufacturer"
	"authchain/internal/platform/metrics"
	"authchain/internal/registry"
	"authchain/internal/sale"
	authmw "authchain/pkg/platform/middleware/auth"
	"authchain/pkg/platform/middleware/requestid"
	"authchain/pkg/platform/middleware/requesttime"
)

// Handler carries the domain services the routes delegate to.
type Handler struct {
	logger   *slog.Logger
	metrics  *metrics.Metrics
	registry *registry.Service
	dir      *manufacturer.Service
	stock    *inventory.Service
	custody  *custody.Service
	sales    *sale.Service
	events   EventReader
}

func NewHandler(
	logger *slog.Logger,
	m *metrics.Metrics,
	reg *registry.Service,
	dir *manufacturer.Service,
	stock *inventory.Service,
	cust *custody.Service,
	sales *sale.Service,
	events EventReader,
) *Handler {
	return &Handler{
		logger:   logger,
		metrics:  m,
		registry: reg,
		dir:      dir,
		stock:    stock,
		custody:  cust,
		sales:    sales,
		events:   events,
	}
}

// NewRouter wires all endpoints. Reads are public; mutations require a bearer
// token naming the caller account.
func NewRouter(h *Handler, extractor authmw.AccountExtractor) http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.Recoverer)
	r.Use(requestid.Middleware)
	r.Use(requesttime.Middleware)

	r.Get("/healthz", h.handleHealthz)
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	// Public reads. The ledger is an audit surface; anyone may inspect it.
	r.Get("/roles/{account}", h.handleGetRole)
	r.Get("/admins/{account}", h.handleGetAdmin)
	r.Get("/manufacturers/{account}", h.handleGetManufacturer)
	r.Get("/retailers/{account}", h.handleGetRetailer)
	r.Get("/consumers/{account}", h.handleGetConsumer)
	r.Get("/logistics-personnel/{account}", h.handleGetPersonnel)
	r.Get("/products/{code}", h.handleGetProduct)
	r.Get("/products/{code}/transfers", h.handleListTransfers)
	r.Get("/products/{code}/sales", h.handleListSales)
	r.Get("/products/{code}/sales/{account}", h.handleGetSale)
	r.Get("/events", h.handleListEvents)
	r.Get("/events/{code}", h.handleListProductEvents)

	// Mutations.
	r.Group(func(r chi.Router) {
		r.Use(authmw.RequireAuth(extractor, h.logger))
		r.Post("/admins", h.handleRegisterAdmin)
		r.Post("/roles", h.handleAssignRole)
		r.Post("/manufacturers", h.handleRegisterManufacturer)
		r.Post("/manufacturers/{account}/verification", h.handleVerifyManufacturer)
		r.Post("/retailers", h.handleRegisterRetailer)
		r.Post("/consumers", h.handleRegisterConsumer)
		r.Post("/logistics-personnel", h.handleRegisterPersonnel)
		r.Post("/products", h.handleAddProduct)
		r.Post("/products/{code}/transfers", h.handleTransfer)
		r.Post("/products/{code}/sales", h.handleSell)
	})

	return r
}

func (h *Handler) handleHealthz(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

// observe records the operation outcome metric and logs refusals.
func (h *Handler) observe(r *http.Request, operation string, err error) {
	h.metrics.ObserveOperation(operation, err)
	if err != nil {
		h.logger.WarnContext(r.Context(), "operation refused",
			"operation", operation,
			"error", err,
		)
	}
}
