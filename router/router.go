// Package router wires handlers, authorization and CORS into one mux.
package router

import (
	"net/http"
	"strings"

	"erp-project/backend/auth"
	"erp-project/backend/config"
	"erp-project/backend/handlers"
	"erp-project/backend/middleware"
	"erp-project/backend/models"
	"erp-project/backend/services"
	"erp-project/backend/utils"

	"github.com/gorilla/mux"
	"github.com/rs/cors"
)

// writeCaps names the capability required for each write operation.
type writeCaps struct {
	create models.Capability
	update models.Capability
	remove models.Capability
}

func same(c models.Capability) writeCaps {
	return writeCaps{create: c, update: c, remove: c}
}

type routes struct {
	api      *mux.Router
	resolver *auth.Resolver
}

func (rt routes) read(path string, h http.HandlerFunc) {
	rt.api.Handle(path, middleware.Authenticated(rt.resolver, h)).Methods(http.MethodGet)
}

func (rt routes) gated(method, path string, c models.Capability, h http.HandlerFunc) {
	rt.api.Handle(path, middleware.RequirePermission(rt.resolver, c, h)).Methods(method)
}

func mount[T any](rt routes, path string, h *handlers.ResourceHandler[T], caps writeCaps) {
	rt.read(path, h.GetAll)
	rt.gated(http.MethodPost, path, caps.create, h.Create)
	rt.read(path+"/{id}", h.GetOne)
	rt.gated(http.MethodPut, path+"/{id}", caps.update, h.Update)
	rt.gated(http.MethodDelete, path+"/{id}", caps.remove, h.Delete)
}

func New(cfg *config.Config, resolver *auth.Resolver, svc *services.Services) http.Handler {
	r := mux.NewRouter()
	r.HandleFunc("/health", handlers.Health).Methods(http.MethodGet)

	rt := routes{api: r.PathPrefix("/api").Subrouter(), resolver: resolver}

	// next-number must be registered before the {id} routes
	rt.read("/sales-orders/next-number", handlers.NextNumber(svc.SalesOrders.NextNumber))
	rt.read("/purchase-orders/next-number", handlers.NextNumber(svc.PurchaseOrders.NextNumber))

	mount(rt, "/projects", handlers.NewResourceHandler[models.Project](svc.Projects, "projectManager", "priority"), writeCaps{
		create: models.CanCreateProjects,
		update: models.CanEditProjects,
		remove: models.CanDeleteProjects,
	})
	tasks := handlers.NewResourceHandler[models.Task](svc.Tasks, "project", "projectId", "status").Visible(services.TaskVisible)
	mount(rt, "/tasks", tasks, same(models.CanManageTasks))
	mount(rt, "/sales-orders", handlers.NewResourceHandler[models.SalesOrder](svc.SalesOrders, "project", "projectId", "customer"), same(models.CanCreateSalesOrders))
	mount(rt, "/purchase-orders", handlers.NewResourceHandler[models.PurchaseOrder](svc.PurchaseOrders, "project", "projectId", "vendor"), same(models.CanCreatePurchaseOrders))
	mount(rt, "/invoices", handlers.NewResourceHandler[models.Invoice](svc.Invoices, "project", "projectId"), same(models.CanCreateInvoices))
	mount(rt, "/vendor-bills", handlers.NewResourceHandler[models.VendorBill](svc.VendorBills), same(models.CanCreateVendorBills))
	mount(rt, "/expenses", handlers.NewResourceHandler[models.Expense](svc.Expenses, "project", "projectId"), same(models.CanManageExpenses))

	dashboard := handlers.NewDashboardHandler(svc.Dashboard)
	rt.gated(http.MethodGet, "/dashboard", models.CanViewDashboard, dashboard.Get)

	users := handlers.NewUserHandler(svc.Users)
	rt.api.Handle("/users/sync", middleware.RequireSession(resolver, http.HandlerFunc(users.Sync))).Methods(http.MethodPost)
	rt.read("/users/me", users.Me)

	admin := handlers.NewAdminHandler(svc.Admin, svc.Users)
	rt.gated(http.MethodGet, "/admin/stats", models.CanAccessAdmin, admin.Stats)
	rt.gated(http.MethodGet, "/admin/all-data", models.CanAccessAdmin, admin.AllData)
	rt.gated(http.MethodGet, "/admin/users", models.CanAccessAdmin, admin.ListUsers)
	rt.gated(http.MethodPut, "/admin/users/{id}/role", models.CanAccessAdmin, admin.SetRole)
	rt.gated(http.MethodDelete, "/admin/delete/{type}/{id}", models.CanAccessAdmin, admin.Delete)

	for _, m := range []*mux.Router{r, rt.api} {
		m.NotFoundHandler = http.HandlerFunc(notFound)
		m.MethodNotAllowedHandler = http.HandlerFunc(methodNotAllowed)
	}
	r.Use(middleware.RequestLogger, middleware.LimitBody(cfg.MaxBodyBytes))

	return newCORS(cfg.CORSOrigin).Handler(r)
}

func notFound(w http.ResponseWriter, r *http.Request) {
	utils.RespondError(w, http.StatusNotFound, "Route not found")
}

func methodNotAllowed(w http.ResponseWriter, r *http.Request) {
	utils.RespondError(w, http.StatusMethodNotAllowed, "Method not allowed")
}

func newCORS(origins string) *cors.Cors {
	var allowed []string
	for _, origin := range strings.Split(origins, ",") {
		if origin = strings.TrimSpace(origin); origin != "" {
			allowed = append(allowed, origin)
		}
	}
	return cors.New(cors.Options{
		AllowedOrigins: allowed,
		AllowedMethods: []string{
			http.MethodGet,
			http.MethodPost,
			http.MethodPut,
			http.MethodDelete,
			http.MethodOptions,
		},
		AllowedHeaders:   []string{"Content-Type", "Authorization"},
		ExposedHeaders:   []string{"X-Request-ID"},
		AllowCredentials: true,
	})
}
