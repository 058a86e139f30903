package services

import (
	"context"
	"strings"

	"erp-project/backend/models"
	"erp-project/backend/store"

	"golang.org/x/sync/errgroup"
)

type AdminStats struct {
	TotalProjects       int64                 `json:"totalProjects"`
	TotalTasks          int64                 `json:"totalTasks"`
	TotalSalesOrders    int64                 `json:"totalSalesOrders"`
	TotalPurchaseOrders int64                 `json:"totalPurchaseOrders"`
	TotalInvoices       int64                 `json:"totalInvoices"`
	TotalVendorBills    int64                 `json:"totalVendorBills"`
	TotalExpenses       int64                 `json:"totalExpenses"`
	TotalUsers          int64                 `json:"totalUsers"`
	UsersByRole         map[models.Role]int64 `json:"usersByRole"`
}

type AllData struct {
	Projects       []*models.Project       `json:"projects"`
	Tasks          []*models.Task          `json:"tasks"`
	SalesOrders    []*models.SalesOrder    `json:"salesOrders"`
	PurchaseOrders []*models.PurchaseOrder `json:"purchaseOrders"`
	Invoices       []*models.Invoice       `json:"invoices"`
	VendorBills    []*models.VendorBill    `json:"vendorBills"`
	Expenses       []*models.Expense       `json:"expenses"`
	Users          []*models.User          `json:"users"`
}

type deleter func(ctx context.Context, id string) error

// AdminService backs the admin surface: counts, a full export, the user list
// and deletion of any document by type.
type AdminService struct {
	stores   *store.Stores
	users    *UserService
	deleters map[string]deleter
}

func NewAdminService(stores *store.Stores, svc *Services) *AdminService {
	deleters := map[string]deleter{}
	register := func(fn deleter, names ...string) {
		for _, name := range names {
			deleters[name] = fn
		}
	}
	register(svc.Projects.Delete, "project", "projects")
	register(svc.Tasks.Delete, "task", "tasks")
	register(svc.SalesOrders.Delete, "salesorder", "salesorders", "sales-order", "sales-orders")
	register(svc.PurchaseOrders.Delete, "purchaseorder", "purchaseorders", "purchase-order", "purchase-orders")
	register(svc.Invoices.Delete, "invoice", "invoices")
	register(svc.VendorBills.Delete, "vendorbill", "vendorbills", "vendor-bill", "vendor-bills")
	register(svc.Expenses.Delete, "expense", "expenses")
	register(svc.Users.Delete, "user", "users")

	return &AdminService{stores: stores, users: svc.Users, deleters: deleters}
}

func (s *AdminService) Stats(ctx context.Context) (*AdminStats, error) {
	stats := &AdminStats{}
	g, ctx := errgroup.WithContext(ctx)
	count := func(target *int64, fn func(context.Context, store.Filter) (int64, error)) {
		g.Go(func() (err error) {
			*target, err = fn(ctx, nil)
			return err
		})
	}
	count(&stats.TotalProjects, s.stores.Projects.Count)
	count(&stats.TotalTasks, s.stores.Tasks.Count)
	count(&stats.TotalSalesOrders, s.stores.SalesOrders.Count)
	count(&stats.TotalPurchaseOrders, s.stores.PurchaseOrders.Count)
	count(&stats.TotalInvoices, s.stores.Invoices.Count)
	count(&stats.TotalVendorBills, s.stores.VendorBills.Count)
	count(&stats.TotalExpenses, s.stores.Expenses.Count)
	count(&stats.TotalUsers, s.stores.Users.Count)
	g.Go(func() (err error) {
		stats.UsersByRole, err = s.users.CountByRole(ctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return stats, nil
}

func (s *AdminService) AllData(ctx context.Context) (*AllData, error) {
	data := &AllData{}
	g, ctx := errgroup.WithContext(ctx)
	fetchAll(ctx, g, s.stores.Projects, &data.Projects)
	fetchAll(ctx, g, s.stores.Tasks, &data.Tasks)
	fetchAll(ctx, g, s.stores.SalesOrders, &data.SalesOrders)
	fetchAll(ctx, g, s.stores.PurchaseOrders, &data.PurchaseOrders)
	fetchAll(ctx, g, s.stores.Invoices, &data.Invoices)
	fetchAll(ctx, g, s.stores.VendorBills, &data.VendorBills)
	fetchAll(ctx, g, s.stores.Expenses, &data.Expenses)
	fetchAll(ctx, g, s.stores.Users, &data.Users)
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return data, nil
}

func (s *AdminService) Users(ctx context.Context) ([]*models.User, error) {
	return s.users.List(ctx)
}

// Delete removes a document of the named type.
func (s *AdminService) Delete(ctx context.Context, docType, id string) error {
	fn, ok := s.deleters[strings.ToLower(strings.TrimSpace(docType))]
	if !ok {
		return invalid("Invalid type: " + docType)
	}
	return fn(ctx, id)
}

// fetchAll loads a whole collection into target as part of g.
func fetchAll[T any](ctx context.Context, g *errgroup.Group, coll store.Collection[T], target *[]*T) {
	g.Go(func() (err error) {
		*target, err = coll.Find(ctx, nil)
		return err
	})
}
